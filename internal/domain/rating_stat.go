package domain

import (
	"time"

	"github.com/google/uuid"
)

// RatingStat is the per-source rating aggregate for a work, the source of
// truth for the quality blender.
type RatingStat struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_stat;index" json:"work_id"`
	Work   *Work     `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkID;references:ID" json:"work,omitempty"`
	Source string    `gorm:"column:source;not null;uniqueIndex:idx_rating_stat" json:"source"`

	Avg   float64 `gorm:"column:avg;not null;default:0" json:"avg"`
	Count int     `gorm:"column:count;not null;default:0" json:"count"`

	LastUpdated time.Time `gorm:"column:last_updated;not null;default:now()" json:"last_updated"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (RatingStat) TableName() string { return "rating_stat" }
