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

type WorkQualityRepo interface {
	UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.WorkQuality) error
	GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) (*types.WorkQuality, error)
	GetByWorkIDs(ctx context.Context, tx *gorm.DB, workIDs []uuid.UUID) ([]*types.WorkQuality, error)
}

type workQualityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkQualityRepo(db *gorm.DB, baseLog *logger.Logger) WorkQualityRepo {
	return &workQualityRepo{db: db, log: baseLog.With("repo", "WorkQualityRepo")}
}

func (r *workQualityRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.WorkQuality) error {
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
			Columns:   []clause.Column{{Name: "work_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"blended_avg", "blended_wilson", "total_ratings", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *workQualityRepo) GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) (*types.WorkQuality, error) {
	if workID == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByWorkIDs(ctx, tx, []uuid.UUID{workID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *workQualityRepo) GetByWorkIDs(ctx context.Context, tx *gorm.DB, workIDs []uuid.UUID) ([]*types.WorkQuality, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WorkQuality
	if len(workIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("work_id IN ?", workIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
