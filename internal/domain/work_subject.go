package domain

import (
	"time"

	"github.com/google/uuid"
)

type WorkSubject struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_work_subject_pair;index" json:"work_id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_work_subject_pair;index" json:"subject_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (WorkSubject) TableName() string { return "work_subject" }
