package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

// AuthorWorkCount is one author's catalog footprint, used to bound the
// author-based co-occurrence join.
type AuthorWorkCount struct {
	AuthorID  uuid.UUID
	WorkCount int
}

type WorkAuthorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.WorkAuthor) ([]*types.WorkAuthor, error)
	CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.WorkAuthor) error

	GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.WorkAuthor, error)
	GetByWorkIDs(ctx context.Context, tx *gorm.DB, workIDs []uuid.UUID) ([]*types.WorkAuthor, error)
	GetByAuthorIDs(ctx context.Context, tx *gorm.DB, authorIDs []uuid.UUID) ([]*types.WorkAuthor, error)
	ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.WorkAuthor, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	AuthorWorkCounts(ctx context.Context, tx *gorm.DB, minWorks, maxWorks int) ([]AuthorWorkCount, error)
	DeleteByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) error
}

type workAuthorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkAuthorRepo(db *gorm.DB, baseLog *logger.Logger) WorkAuthorRepo {
	return &workAuthorRepo{db: db, log: baseLog.With("repo", "WorkAuthorRepo")}
}

func (r *workAuthorRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.WorkAuthor) ([]*types.WorkAuthor, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.WorkAuthor{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workAuthorRepo) CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.WorkAuthor) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "work_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func (r *workAuthorRepo) GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.WorkAuthor, error) {
	if workID == uuid.Nil {
		return nil, nil
	}
	return r.GetByWorkIDs(ctx, tx, []uuid.UUID{workID})
}

func (r *workAuthorRepo) GetByWorkIDs(ctx context.Context, tx *gorm.DB, workIDs []uuid.UUID) ([]*types.WorkAuthor, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WorkAuthor
	if len(workIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("work_id IN ?", workIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workAuthorRepo) GetByAuthorIDs(ctx context.Context, tx *gorm.DB, authorIDs []uuid.UUID) ([]*types.WorkAuthor, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WorkAuthor
	if len(authorIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("author_id IN ?", authorIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workAuthorRepo) ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.WorkAuthor, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WorkAuthor
	if err := t.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workAuthorRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.WorkAuthor{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *workAuthorRepo) AuthorWorkCounts(ctx context.Context, tx *gorm.DB, minWorks, maxWorks int) ([]AuthorWorkCount, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []AuthorWorkCount
	if err := t.WithContext(ctx).
		Model(&types.WorkAuthor{}).
		Select("author_id, COUNT(DISTINCT work_id) AS work_count").
		Group("author_id").
		Having("COUNT(DISTINCT work_id) BETWEEN ? AND ?", minWorks, maxWorks).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workAuthorRepo) DeleteByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if workID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where("work_id = ?", workID).Delete(&types.WorkAuthor{}).Error
}
