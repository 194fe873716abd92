package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkEdition is a specific published instance of a Work and the carrier of
// its strong external identifiers.
type WorkEdition struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkID uuid.UUID `gorm:"type:uuid;not null;index" json:"work_id"`
	Work   *Work     `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkID;references:ID" json:"work,omitempty"`

	ISBN13        string `gorm:"column:isbn13;index" json:"isbn13,omitempty"`
	ISBN10        string `gorm:"column:isbn10;index" json:"isbn10,omitempty"`
	OpenLibraryID string `gorm:"column:openlibrary_id;index" json:"openlibrary_id,omitempty"`
	ASIN          string `gorm:"column:asin;index" json:"asin,omitempty"`

	Format      string `gorm:"column:format" json:"format,omitempty"`
	PublishYear int    `gorm:"column:publish_year" json:"publish_year,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkEdition) TableName() string { return "work_edition" }
