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

type RatingStatRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.RatingStat) error
	GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.RatingStat, error)
	GetByWorkIDs(ctx context.Context, tx *gorm.DB, workIDs []uuid.UUID) ([]*types.RatingStat, error)
	ListWorkIDsPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]uuid.UUID, error)
	CountDistinctWorks(ctx context.Context, tx *gorm.DB) (int64, error)
	DeleteByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) error
}

type ratingStatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRatingStatRepo(db *gorm.DB, baseLog *logger.Logger) RatingStatRepo {
	return &ratingStatRepo{db: db, log: baseLog.With("repo", "RatingStatRepo")}
}

func (r *ratingStatRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.RatingStat) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.WorkID == uuid.Nil || row.Source == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.LastUpdated.IsZero() {
		row.LastUpdated = time.Now().UTC()
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "work_id"}, {Name: "source"}},
			DoUpdates: clause.AssignmentColumns([]string{"avg", "count", "last_updated"}),
		}).
		Create(row).Error
}

func (r *ratingStatRepo) GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.RatingStat, error) {
	if workID == uuid.Nil {
		return nil, nil
	}
	return r.GetByWorkIDs(ctx, tx, []uuid.UUID{workID})
}

func (r *ratingStatRepo) GetByWorkIDs(ctx context.Context, tx *gorm.DB, workIDs []uuid.UUID) ([]*types.RatingStat, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.RatingStat
	if len(workIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("work_id IN ? AND count > 0", workIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ratingStatRepo) ListWorkIDsPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if err := t.WithContext(ctx).
		Model(&types.RatingStat{}).
		Distinct("work_id").
		Where("count > 0").
		Order("work_id ASC").
		Offset(offset).
		Limit(limit).
		Pluck("work_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ratingStatRepo) CountDistinctWorks(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.RatingStat{}).
		Where("count > 0").
		Distinct("work_id").
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ratingStatRepo) DeleteByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if workID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where("work_id = ?", workID).Delete(&types.RatingStat{}).Error
}
