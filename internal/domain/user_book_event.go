package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ShelfRead             = "read"
	ShelfCurrentlyReading = "currently-reading"
	ShelfToRead           = "to-read"
	ShelfDNF              = "dnf"
)

// UserBookEvent records one user's interaction with a work. Importers may
// sight the same book through different sources, so uniqueness is per
// (user, work, source).
type UserBookEvent struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_work_source;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	WorkID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_work_source;index" json:"work_id"`
	Work   *Work     `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkID;references:ID" json:"work,omitempty"`
	Source string    `gorm:"column:source;not null;uniqueIndex:idx_user_work_source" json:"source"`

	Shelf       string     `gorm:"column:shelf;not null;index" json:"shelf"`
	Rating      *int       `gorm:"column:rating" json:"rating,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Notes       string     `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Blocked     bool       `gorm:"column:blocked;not null;default:false" json:"blocked"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserBookEvent) TableName() string { return "user_book_event" }
