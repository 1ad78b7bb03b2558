package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

// ModerationLog records one moderation status change of a posting
type ModerationLog struct {
	ID         uint                      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostingID  uint                      `gorm:"not null;index:idx_moderation_log_posting_created,priority:1" json:"posting_id"`
	Action     workflow.ModerationAction `gorm:"type:text;not null" json:"action"`
	FromStatus workflow.ModerationStatus `gorm:"type:text;not null" json:"from_status"`
	ToStatus   workflow.ModerationStatus `gorm:"type:text;not null" json:"to_status"`
	ActorID    uuid.UUID                 `gorm:"type:uuid;not null" json:"actor_id"`
	Reason     string                    `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt  time.Time                 `gorm:"index:idx_moderation_log_posting_created,priority:2" json:"created_at"`
}
