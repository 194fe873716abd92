package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type WorkEditionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.WorkEdition) ([]*types.WorkEdition, error)

	GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.WorkEdition, error)
	GetByWorkIDs(ctx context.Context, tx *gorm.DB, workIDs []uuid.UUID) ([]*types.WorkEdition, error)
	CountByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) (int64, error)

	ReassignWorkID(ctx context.Context, tx *gorm.DB, fromID, toID uuid.UUID) (int64, error)
}

type workEditionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkEditionRepo(db *gorm.DB, baseLog *logger.Logger) WorkEditionRepo {
	return &workEditionRepo{db: db, log: baseLog.With("repo", "WorkEditionRepo")}
}

func (r *workEditionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.WorkEdition) ([]*types.WorkEdition, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.WorkEdition{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workEditionRepo) GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.WorkEdition, error) {
	if workID == uuid.Nil {
		return nil, nil
	}
	return r.GetByWorkIDs(ctx, tx, []uuid.UUID{workID})
}

func (r *workEditionRepo) GetByWorkIDs(ctx context.Context, tx *gorm.DB, workIDs []uuid.UUID) ([]*types.WorkEdition, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WorkEdition
	if len(workIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("work_id IN ?", workIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workEditionRepo) CountByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.WorkEdition{}).
		Where("work_id = ?", workID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *workEditionRepo) ReassignWorkID(ctx context.Context, tx *gorm.DB, fromID, toID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if fromID == uuid.Nil || toID == uuid.Nil {
		return 0, nil
	}
	res := t.WithContext(ctx).
		Model(&types.WorkEdition{}).
		Where("work_id = ?", fromID).
		Update("work_id", toID)
	return res.RowsAffected, res.Error
}
