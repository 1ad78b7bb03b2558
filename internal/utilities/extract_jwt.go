package utilities

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ExtractBearerToken returns the token part of a "Bearer <token>" Authorization header.
func ExtractBearerToken(c *gin.Context) (string, error) {

	const BearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")

	if len(authHeader) <= len(BearerSchema) || authHeader[:len(BearerSchema)] != BearerSchema {
		return "", errors.New("Invalid authorization header")
	}

	return authHeader[len(BearerSchema):], nil

}
