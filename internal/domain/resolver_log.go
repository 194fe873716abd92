package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResolverLog records each resolution decision for audit. Repointed on merge.
type ResolverLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Ident     string    `gorm:"column:ident;not null;index" json:"ident"`
	IdentType string    `gorm:"column:ident_type;not null" json:"ident_type"`
	WorkID    uuid.UUID `gorm:"type:uuid;not null;index" json:"work_id"`
	Outcome   string    `gorm:"column:outcome;not null" json:"outcome"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ResolverLog) TableName() string { return "resolver_log" }
