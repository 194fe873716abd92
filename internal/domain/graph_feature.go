package domain

import (
	"time"

	"github.com/google/uuid"
)

// GraphFeature holds structural affinity features for one candidate work
// relative to one user's favorites. Fully derived, overwritten per run.
type GraphFeature struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_graph_feature;index" json:"user_id"`
	WorkID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_graph_feature;index" json:"work_id"`

	AuthorAffinity float64 `gorm:"column:author_affinity;not null;default:0" json:"author_affinity"`
	SubjectOverlap float64 `gorm:"column:subject_overlap;not null;default:0" json:"subject_overlap"`
	SameSeries     bool    `gorm:"column:same_series;not null;default:false" json:"same_series"`
	CommunityID    int     `gorm:"column:community_id;not null;default:0" json:"community_id"`
	ProxScore      float64 `gorm:"column:prox_score;not null;default:0" json:"prox_score"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (GraphFeature) TableName() string { return "graph_feature" }
