package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type MergeLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.MergeLog) error
	ListByToWorkID(ctx context.Context, tx *gorm.DB, toWorkID uuid.UUID) ([]*types.MergeLog, error)
}

type mergeLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMergeLogRepo(db *gorm.DB, baseLog *logger.Logger) MergeLogRepo {
	return &mergeLogRepo{db: db, log: baseLog.With("repo", "MergeLogRepo")}
}

func (r *mergeLogRepo) Create(ctx context.Context, tx *gorm.DB, row *types.MergeLog) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.FromWorkID == uuid.Nil || row.ToWorkID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *mergeLogRepo) ListByToWorkID(ctx context.Context, tx *gorm.DB, toWorkID uuid.UUID) ([]*types.MergeLog, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.MergeLog
	if toWorkID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("to_work_id = ?", toWorkID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
