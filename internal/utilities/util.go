// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// PageResponse wraps one page of a listing with the total number of matches.
type PageResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// ExtractUser extracts the user model from Gin context.
// It does not abort the request; instead returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// ExtractPrincipal returns the authenticated principal set by the auth middleware.
func ExtractPrincipal(c *gin.Context) (workflow.Principal, error) {
	p, ok := c.Get("principal")
	if !ok {
		return workflow.Principal{}, errors.New("User information not provided")
	}
	principal, ok := p.(workflow.Principal)
	if !ok {
		return workflow.Principal{}, errors.New("Failed to assert type")
	}
	return principal, nil
}

// StatusFor maps a workflow error code to an HTTP status.
func StatusFor(code workflow.Code) int {
	switch code {
	case workflow.CodeInvalidTransition, workflow.CodeDuplicateApplication,
		workflow.CodePostingNotVisible, workflow.CodeAlreadyDecided:
		return http.StatusConflict
	case workflow.CodeNotFound:
		return http.StatusNotFound
	case workflow.CodeUnauthorized:
		return http.StatusForbidden
	case workflow.CodeValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// RespondError writes err as an ErrorResponse with the status matching its code.
func RespondError(c *gin.Context, err error) {
	code := workflow.CodeOf(err)
	c.JSON(StatusFor(code), ErrorResponse{Error: err.Error(), Code: string(code)})
}

// CreateAdmin creates an admin user with the given password and username in the provided database.
func CreateAdmin(password string, username string, db *gorm.DB) (model.User, error) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return model.User{}, err
	}

	admin := model.User{
		Username:    username,
		Password:    hashedPassword,
		Role:        model.RoleAdmin,
		DisplayName: username,
	}
	if err := db.Create(&admin).Error; err != nil {
		return model.User{}, err
	}
	return admin, nil
}
