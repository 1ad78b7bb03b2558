// Command create-admin generates a moderator account with random credentials.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"
	"gorm.io/gorm"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/database"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/utilities"
)

// generateRandomString creates a random hex string of length 2n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	_, err := rand.Read(bytes)
	logx.Must(errors.Wrap(err, "failed to read random bytes"))
	return hex.EncodeToString(bytes)
}

// generateUniqueUsername tries until a unique username is found
func generateUniqueUsername(db *gorm.DB) (string, error) {
	for {
		username := "admin_" + generateRandomString(4)
		var count int64
		if err := db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return username, nil
		}
	}
}

func main() {
	db, err := database.GetMainDB()
	logx.Must(errors.Wrap(err, "failed to connect to database"))
	defer func() { _ = db.Close() }()

	username, err := generateUniqueUsername(db.DB)
	logx.Must(errors.Wrap(err, "failed to pick username"))
	password := generateRandomString(8)

	admin, err := utilities.CreateAdmin(password, username, db.DB)
	logx.Must(errors.Wrap(err, "failed to create admin"))

	logx.Infof("created admin %s", admin.ID)

	// Print credentials (only show plain password here!)
	fmt.Println("Admin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Username: %s\n", admin.Username)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")
}
