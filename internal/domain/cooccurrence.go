package domain

import (
	"time"
)

const (
	CooccurrenceSourceList   = "list"
	CooccurrenceSourceAuthor = "author"
)

// Cooccurrence is one directed half of an item-item similarity pair. Both
// directions are stored so a neighbor lookup is a single indexed scan.
type Cooccurrence struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	KeyA   string `gorm:"column:key_a;not null;uniqueIndex:idx_cooc_pair;index" json:"key_a"`
	KeyB   string `gorm:"column:key_b;not null;uniqueIndex:idx_cooc_pair" json:"key_b"`
	Source string `gorm:"column:source;not null" json:"source"`

	Overlap int     `gorm:"column:overlap;not null;default:0" json:"overlap"`
	Jaccard float64 `gorm:"column:jaccard;not null;default:0" json:"jaccard"`
	CountA  int     `gorm:"column:count_a;not null;default:0" json:"count_a"`
	CountB  int     `gorm:"column:count_b;not null;default:0" json:"count_b"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Cooccurrence) TableName() string { return "cooccurrence" }
