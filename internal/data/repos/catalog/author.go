package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type AuthorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Author) ([]*types.Author, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Author, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Author, error)
	ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Author, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type authorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuthorRepo(db *gorm.DB, baseLog *logger.Logger) AuthorRepo {
	return &authorRepo{db: db, log: baseLog.With("repo", "AuthorRepo")}
}

func (r *authorRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Author) ([]*types.Author, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Author{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *authorRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Author, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Author
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *authorRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Author, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if name == "" {
		return nil, nil
	}
	var row types.Author
	if err := t.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *authorRepo) ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Author, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Author
	if err := t.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *authorRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.Author{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
