package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkQuality holds the blended rating signal per work. Fully derived;
// overwritten on each blend run. Works with no ratings get no row at all.
type WorkQuality struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"work_id"`

	BlendedAvg    float64 `gorm:"column:blended_avg;not null;default:0" json:"blended_avg"`
	BlendedWilson float64 `gorm:"column:blended_wilson;not null;default:0" json:"blended_wilson"`
	TotalRatings  int     `gorm:"column:total_ratings;not null;default:0" json:"total_ratings"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (WorkQuality) TableName() string { return "work_quality" }
