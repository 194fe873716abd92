package catalog

import (
	"context"

	"gorm.io/gorm"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type BookListItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.BookListItem) ([]*types.BookListItem, error)
	ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.BookListItem, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type bookListItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookListItemRepo(db *gorm.DB, baseLog *logger.Logger) BookListItemRepo {
	return &bookListItemRepo{db: db, log: baseLog.With("repo", "BookListItemRepo")}
}

func (r *bookListItemRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.BookListItem) ([]*types.BookListItem, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.BookListItem{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *bookListItemRepo) ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.BookListItem, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.BookListItem
	if err := t.WithContext(ctx).
		Order("list_id ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookListItemRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.BookListItem{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
