package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Work is the canonical unit of recommendation. Editions carry the strong
// external identifiers; at most one live Work may own a given identifier.
type Work struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null;index" json:"title"`
	Subtitle    string    `gorm:"column:subtitle" json:"subtitle,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	PublishYear int       `gorm:"column:publish_year" json:"publish_year,omitempty"`
	SeriesName  string    `gorm:"column:series_name;index" json:"series_name,omitempty"`

	// Embedding is the semantic vector for the work, JSON-encoded []float32.
	// Empty until the embedding backfill has seen a usable description.
	Embedding datatypes.JSON `gorm:"column:embedding;type:jsonb" json:"embedding,omitempty"`

	IsStub     bool   `gorm:"column:is_stub;not null;default:false;index" json:"is_stub"`
	StubReason string `gorm:"column:stub_reason" json:"stub_reason,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Work) TableName() string { return "work" }

func (w *Work) EmbeddingVector() []float32 {
	if len(w.Embedding) == 0 {
		return nil
	}
	var v []float32
	if err := json.Unmarshal(w.Embedding, &v); err != nil {
		return nil
	}
	return v
}

func (w *Work) SetEmbeddingVector(v []float32) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Embedding = datatypes.JSON(raw)
	return nil
}
