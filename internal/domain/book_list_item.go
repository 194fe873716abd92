package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookListItem struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ListID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_list_item;index" json:"list_id"`
	WorkID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_list_item;index" json:"work_id"`

	Position  int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (BookListItem) TableName() string { return "book_list_item" }
