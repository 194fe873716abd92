package signals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type GraphFeatureRepo interface {
	UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.GraphFeature) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.GraphFeature, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type graphFeatureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGraphFeatureRepo(db *gorm.DB, baseLog *logger.Logger) GraphFeatureRepo {
	return &graphFeatureRepo{db: db, log: baseLog.With("repo", "GraphFeatureRepo")}
}

func (r *graphFeatureRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.GraphFeature) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		row.UpdatedAt = now
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "work_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"author_affinity", "subject_overlap", "same_series", "community_id", "prox_score", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *graphFeatureRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.GraphFeature, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.GraphFeature
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("prox_score DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *graphFeatureRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where("user_id = ?", userID).Delete(&types.GraphFeature{}).Error
}
