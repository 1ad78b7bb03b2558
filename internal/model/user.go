package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// Role values stored on User.Role
var (
	RoleHR         = workflow.RoleHR
	RoleCandidate  = workflow.RoleCandidate
	RoleUniversity = workflow.RoleUniversity
	RoleAdmin      = workflow.RoleAdmin
)

// User is an account of any role
type User struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username    string        `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Password    string        `gorm:"type:text" json:"-"`
	Role        workflow.Role `gorm:"type:text;not null;index" json:"role"`
	DisplayName string        `gorm:"type:text" json:"display_name"`
	Email       *string       `gorm:"type:text" json:"email,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Principal returns the identity the workflow authorizes against.
func (u User) Principal() workflow.Principal {
	return workflow.Principal{ID: u.ID, Role: u.Role}
}
