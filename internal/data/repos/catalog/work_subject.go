package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type WorkSubjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.WorkSubject) ([]*types.WorkSubject, error)
	CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.WorkSubject) error

	GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.WorkSubject, error)
	GetByWorkIDs(ctx context.Context, tx *gorm.DB, workIDs []uuid.UUID) ([]*types.WorkSubject, error)
	ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.WorkSubject, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	DeleteByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) error
}

type workSubjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkSubjectRepo(db *gorm.DB, baseLog *logger.Logger) WorkSubjectRepo {
	return &workSubjectRepo{db: db, log: baseLog.With("repo", "WorkSubjectRepo")}
}

func (r *workSubjectRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.WorkSubject) ([]*types.WorkSubject, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.WorkSubject{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workSubjectRepo) CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.WorkSubject) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "work_id"}, {Name: "subject_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func (r *workSubjectRepo) GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.WorkSubject, error) {
	if workID == uuid.Nil {
		return nil, nil
	}
	return r.GetByWorkIDs(ctx, tx, []uuid.UUID{workID})
}

func (r *workSubjectRepo) GetByWorkIDs(ctx context.Context, tx *gorm.DB, workIDs []uuid.UUID) ([]*types.WorkSubject, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WorkSubject
	if len(workIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("work_id IN ?", workIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workSubjectRepo) ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.WorkSubject, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WorkSubject
	if err := t.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workSubjectRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.WorkSubject{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *workSubjectRepo) DeleteByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if workID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where("work_id = ?", workID).Delete(&types.WorkSubject{}).Error
}
