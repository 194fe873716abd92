package signals

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type CooccurrenceRepo interface {
	// UpsertMaxBatch inserts pairs keeping the MAXIMUM jaccard/overlap on
	// conflict, so a strong signal from one pass is never overwritten by a
	// weaker one from the other.
	UpsertMaxBatch(ctx context.Context, tx *gorm.DB, rows []*types.Cooccurrence) error

	GetNeighbors(ctx context.Context, tx *gorm.DB, key, source string, minOverlap, limit int) ([]*types.Cooccurrence, error)
	GetByKey(ctx context.Context, tx *gorm.DB, key string) ([]*types.Cooccurrence, error)
	ListDistinctKeysPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]string, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []int64) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type cooccurrenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCooccurrenceRepo(db *gorm.DB, baseLog *logger.Logger) CooccurrenceRepo {
	return &cooccurrenceRepo{db: db, log: baseLog.With("repo", "CooccurrenceRepo")}
}

func (r *cooccurrenceRepo) UpsertMaxBatch(ctx context.Context, tx *gorm.DB, rows []*types.Cooccurrence) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		row.UpdatedAt = now
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key_a"}, {Name: "key_b"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"source":     gorm.Expr("CASE WHEN excluded.jaccard > cooccurrence.jaccard THEN excluded.source ELSE cooccurrence.source END"),
				"overlap":    gorm.Expr("GREATEST(cooccurrence.overlap, excluded.overlap)"),
				"jaccard":    gorm.Expr("GREATEST(cooccurrence.jaccard, excluded.jaccard)"),
				"count_a":    gorm.Expr("GREATEST(cooccurrence.count_a, excluded.count_a)"),
				"count_b":    gorm.Expr("GREATEST(cooccurrence.count_b, excluded.count_b)"),
				"updated_at": now,
			}),
		}).
		Create(&rows).Error
}

func (r *cooccurrenceRepo) GetNeighbors(ctx context.Context, tx *gorm.DB, key, source string, minOverlap, limit int) ([]*types.Cooccurrence, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Cooccurrence
	if key == "" {
		return out, nil
	}
	q := t.WithContext(ctx).
		Where("key_a = ? AND overlap >= ?", key, minOverlap)
	if source != "" {
		q = q.Where("source = ?", source)
	}
	q = q.Order("jaccard DESC, overlap DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cooccurrenceRepo) GetByKey(ctx context.Context, tx *gorm.DB, key string) ([]*types.Cooccurrence, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Cooccurrence
	if key == "" {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("key_a = ?", key).
		Order("jaccard DESC, overlap DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cooccurrenceRepo) ListDistinctKeysPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []string
	if err := t.WithContext(ctx).
		Model(&types.Cooccurrence{}).
		Distinct("key_a").
		Order("key_a ASC").
		Offset(offset).
		Limit(limit).
		Pluck("key_a", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cooccurrenceRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []int64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&types.Cooccurrence{}).Error
}

func (r *cooccurrenceRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.Cooccurrence{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
