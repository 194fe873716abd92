package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReadingAggregate is a fully derived rollup per (user, ident). It is
// recomputed from sessions and day units on every aggregation run and never
// hand-edited.
type ReadingAggregate struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reading_agg;index" json:"user_id"`
	Ident  string     `gorm:"column:ident;not null;uniqueIndex:idx_reading_agg" json:"ident"`
	WorkID *uuid.UUID `gorm:"type:uuid;index" json:"work_id,omitempty"`

	TotalDurationSec int        `gorm:"column:total_duration_sec;not null;default:0" json:"total_duration_sec"`
	SessionCount     int        `gorm:"column:session_count;not null;default:0" json:"session_count"`
	LastReadAt       *time.Time `gorm:"column:last_read_at" json:"last_read_at,omitempty"`
	Trailing30Sec    int        `gorm:"column:trailing_30_sec;not null;default:0" json:"trailing_30_sec"`
	StreakDays       int        `gorm:"column:streak_days;not null;default:0" json:"streak_days"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ReadingAggregate) TableName() string { return "reading_aggregate" }
