package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// EditablePostingInfo is the part of a posting its owner can edit
type EditablePostingInfo struct {
	Title        string         `gorm:"type:text;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Requirements string         `gorm:"type:text" json:"requirements"`
	Location     string         `gorm:"type:text" json:"location"`
	Salary       string         `gorm:"type:text" json:"salary"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	Expiring     *time.Time     `gorm:"type:timestamp" json:"expiring,omitempty"`
}

// Posting is a job or internship listing owned by an HR or university account
type Posting struct {
	ID      uint                 `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind    workflow.PostingKind `gorm:"type:text;not null;index" json:"kind"`
	OwnerID uuid.UUID            `gorm:"type:uuid;not null;index;<-:create" json:"owner_id"`
	Owner   User                 `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	EditablePostingInfo

	Status           workflow.PostingStatus    `gorm:"type:text;not null;default:'DRAFT';index" json:"status"`
	ModerationStatus workflow.ModerationStatus `gorm:"type:text;not null;default:'PENDING';index" json:"moderation_status"`
	ModerationReason string                    `gorm:"type:text" json:"moderation_reason,omitempty"`
	ModeratedBy      *uuid.UUID                `gorm:"type:uuid" json:"moderated_by,omitempty"`
	ModeratedAt      *time.Time                `gorm:"type:timestamp" json:"moderated_at,omitempty"`
	SubmittedAt      *time.Time                `gorm:"type:timestamp" json:"submitted_at,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Applications   []Application   `gorm:"foreignKey:PostingID;constraint:OnDelete:CASCADE" json:"-"`
	ModerationLogs []ModerationLog `gorm:"foreignKey:PostingID;constraint:OnDelete:CASCADE" json:"-"`
}

// ModerationState returns the state the moderation table is keyed on.
func (p *Posting) ModerationState() workflow.ModerationState {
	return workflow.ModerationState{Status: p.ModerationStatus, Submitted: p.SubmittedAt != nil}
}

// SetModerationState copies a state computed by the workflow back onto p.
func (p *Posting) SetModerationState(s workflow.ModerationState, at time.Time) {
	p.ModerationStatus = s.Status
	switch {
	case !s.Submitted:
		p.SubmittedAt = nil
	case p.SubmittedAt == nil || s.Status == workflow.ModerationPending:
		p.SubmittedAt = &at
	}
}

// OwnedBy reports whether principal created the posting.
func (p *Posting) OwnedBy(principal workflow.Principal) bool {
	return p.OwnerID == principal.ID
}
