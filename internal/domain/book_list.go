package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookList is a curated list; co-membership feeds list co-occurrence.
type BookList struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title string    `gorm:"column:title;not null" json:"title"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (BookList) TableName() string { return "book_list" }
