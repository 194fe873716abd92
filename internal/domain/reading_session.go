package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReadingSession is one tracked reading sitting, keyed by the external
// identifier the tracker reported (often an ASIN, sometimes an ISBN).
type ReadingSession struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_session_user_ident" json:"user_id"`
	Ident  string    `gorm:"column:ident;not null;index:idx_session_user_ident" json:"ident"`

	StartedAt   time.Time `gorm:"column:started_at;not null;index" json:"started_at"`
	DurationSec int       `gorm:"column:duration_sec;not null;default:0" json:"duration_sec"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ReadingSession) TableName() string { return "reading_session" }
