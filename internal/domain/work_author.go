package domain

import (
	"time"

	"github.com/google/uuid"
)

type WorkAuthor struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_work_author_pair;index" json:"work_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_work_author_pair;index" json:"author_id"`
	Role     string    `gorm:"column:role" json:"role,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (WorkAuthor) TableName() string { return "work_author" }
