package catalog

import (
	"context"

	"gorm.io/gorm"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type BookListRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.BookList) ([]*types.BookList, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type bookListRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookListRepo(db *gorm.DB, baseLog *logger.Logger) BookListRepo {
	return &bookListRepo{db: db, log: baseLog.With("repo", "BookListRepo")}
}

func (r *bookListRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.BookList) ([]*types.BookList, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.BookList{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *bookListRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.BookList{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
