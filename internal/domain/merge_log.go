package domain

import (
	"time"

	"github.com/google/uuid"
)

// MergeLog is the append-only audit of identity merges.
type MergeLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FromWorkID uuid.UUID `gorm:"type:uuid;not null;index" json:"from_work_id"`
	ToWorkID   uuid.UUID `gorm:"type:uuid;not null;index" json:"to_work_id"`

	Reason        string `gorm:"column:reason;not null" json:"reason"`
	EditionsMoved int    `gorm:"column:editions_moved;not null;default:0" json:"editions_moved"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MergeLog) TableName() string { return "merge_log" }
