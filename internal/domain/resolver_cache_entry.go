package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	IdentTypeISBN13      = "isbn13"
	IdentTypeISBN10      = "isbn10"
	IdentTypeOpenLibrary = "openlibrary"
	IdentTypeASIN        = "asin"
)

// ResolverCacheEntry memoizes an external identifier's resolution to a work
// so importers don't re-resolve on every sighting. Repointed on merge.
type ResolverCacheEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Ident     string    `gorm:"column:ident;not null;uniqueIndex:idx_resolver_ident" json:"ident"`
	IdentType string    `gorm:"column:ident_type;not null;uniqueIndex:idx_resolver_ident" json:"ident_type"`
	WorkID    uuid.UUID `gorm:"type:uuid;not null;index" json:"work_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ResolverCacheEntry) TableName() string { return "resolver_cache_entry" }
