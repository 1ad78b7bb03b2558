package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// Application represents a candidate's response to a posting.
// A candidate can apply to a posting at most once.
type Application struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PostingID uint    `gorm:"not null;uniqueIndex:idx_application_posting_candidate,priority:1" json:"posting_id"`
	Posting   Posting `gorm:"foreignKey:PostingID;references:ID" json:"-"`

	CandidateID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_application_posting_candidate,priority:2" json:"candidate_id"`
	Candidate   User      `gorm:"foreignKey:CandidateID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Status      workflow.ApplicationStatus `gorm:"type:text;not null;default:'PENDING';index" json:"status"`
	CoverLetter string                     `gorm:"type:text" json:"cover_letter,omitempty"`
	DecidedBy   *uuid.UUID                 `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt   *time.Time                 `gorm:"type:timestamp" json:"decided_at,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
