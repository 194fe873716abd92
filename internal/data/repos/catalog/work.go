package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type WorkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Work) ([]*types.Work, error)

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Work, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Work, error)
	ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Work, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	ListStubs(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Work, error)
	ListMissingEmbedding(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Work, error)
	ListByTitlePrefix(ctx context.Context, tx *gorm.DB, prefix string, limit int) ([]*types.Work, error)

	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type workRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkRepo(db *gorm.DB, baseLog *logger.Logger) WorkRepo {
	return &workRepo{db: db, log: baseLog.With("repo", "WorkRepo")}
}

func (r *workRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Work) ([]*types.Work, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Work{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Work, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *workRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Work, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Work
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workRepo) ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Work, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Work
	if err := t.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.Work{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *workRepo) ListStubs(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Work, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Work
	if err := t.WithContext(ctx).
		Where("is_stub = ?", true).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workRepo) ListMissingEmbedding(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Work, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Work
	if err := t.WithContext(ctx).
		Where("(embedding IS NULL OR embedding = 'null'::jsonb) AND description <> ''").
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workRepo) ListByTitlePrefix(ctx context.Context, tx *gorm.DB, prefix string, limit int) ([]*types.Work, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Work
	if prefix == "" {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("title ILIKE ?", prefix+"%").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(ctx).
		Model(&types.Work{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *workRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.Work{}).Error
}
