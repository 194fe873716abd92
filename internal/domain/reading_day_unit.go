package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReadingDayUnit is the per-day rollup the tracker exports alongside raw
// sessions (some vendors only report day-level totals).
type ReadingDayUnit struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_day_unit;index" json:"user_id"`
	Ident  string    `gorm:"column:ident;not null;uniqueIndex:idx_day_unit" json:"ident"`
	Day    time.Time `gorm:"column:day;not null;uniqueIndex:idx_day_unit" json:"day"`

	DurationSec int `gorm:"column:duration_sec;not null;default:0" json:"duration_sec"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ReadingDayUnit) TableName() string { return "reading_day_unit" }
