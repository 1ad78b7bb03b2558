// Package auth issues and validates access tokens and handles local login.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// JwtIssuer is the issuer claim of every token this service signs
const JwtIssuer = "RaxatJob"

// AccessTokenDuration is the lifetime of a standard access token
const AccessTokenDuration = time.Hour

var secretKey = os.Getenv("SECRET_KEY")

// GenerateStandardToken signs an access token for userID with the default lifetime.
func GenerateStandardToken(userID uuid.UUID) (string, time.Time, error) {
	return GenerateTokenWithDuration(userID, AccessTokenDuration, JwtIssuer)
}

// GenerateTokenWithDuration signs an access token for userID that expires after d.
// A negative d yields an already expired token.
func GenerateTokenWithDuration(userID uuid.UUID, d time.Duration, issuer string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(d)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	})

	signedToken, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("Failed to sign token: %s", err)
	}

	return signedToken, exp, nil
}

// ValidatedToken parses encodeToken into registered claims and verifies its HMAC signature.
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodeToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token")
		}
		return []byte(secretKey), nil
	})
}
