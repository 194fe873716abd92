package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TasteAnchor names one of the top-weighted events behind a taste vector,
// kept for "because you read X" explanations downstream.
type TasteAnchor struct {
	WorkID uuid.UUID `json:"work_id"`
	Title  string    `json:"title"`
	Weight float64   `json:"weight"`
}

// UserTasteProfile is the persisted taste vector plus its anchors, rebuilt
// whenever events or reading aggregates postdate BuiltAt.
type UserTasteProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Embedding datatypes.JSON `gorm:"column:embedding;type:jsonb" json:"embedding,omitempty"`
	Anchors   datatypes.JSON `gorm:"column:anchors;type:jsonb" json:"anchors,omitempty"`

	BuiltAt   time.Time `gorm:"column:built_at;not null;default:now()" json:"built_at"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserTasteProfile) TableName() string { return "user_taste_profile" }

func (p *UserTasteProfile) EmbeddingVector() []float32 {
	if len(p.Embedding) == 0 {
		return nil
	}
	var v []float32
	if err := json.Unmarshal(p.Embedding, &v); err != nil {
		return nil
	}
	return v
}

func (p *UserTasteProfile) AnchorList() []TasteAnchor {
	if len(p.Anchors) == 0 {
		return nil
	}
	var out []TasteAnchor
	if err := json.Unmarshal(p.Anchors, &out); err != nil {
		return nil
	}
	return out
}

func (p *UserTasteProfile) SetVectorAndAnchors(v []float32, anchors []TasteAnchor) error {
	rawV, err := json.Marshal(v)
	if err != nil {
		return err
	}
	rawA, err := json.Marshal(anchors)
	if err != nil {
		return err
	}
	p.Embedding = datatypes.JSON(rawV)
	p.Anchors = datatypes.JSON(rawA)
	return nil
}
