package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type ResolverCacheRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ResolverCacheEntry) error
	GetByIdent(ctx context.Context, tx *gorm.DB, ident, identType string) (*types.ResolverCacheEntry, error)
	RepointWork(ctx context.Context, tx *gorm.DB, fromID, toID uuid.UUID) error
}

type ResolverLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ResolverLog) error
	RepointWork(ctx context.Context, tx *gorm.DB, fromID, toID uuid.UUID) error
}

type resolverCacheRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResolverCacheRepo(db *gorm.DB, baseLog *logger.Logger) ResolverCacheRepo {
	return &resolverCacheRepo{db: db, log: baseLog.With("repo", "ResolverCacheRepo")}
}

func (r *resolverCacheRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ResolverCacheEntry) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.Ident == "" || row.WorkID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ident"}, {Name: "ident_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"work_id", "updated_at"}),
		}).
		Create(row).Error
}

func (r *resolverCacheRepo) GetByIdent(ctx context.Context, tx *gorm.DB, ident, identType string) (*types.ResolverCacheEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if ident == "" {
		return nil, nil
	}
	var row types.ResolverCacheEntry
	if err := t.WithContext(ctx).
		Where("ident = ? AND ident_type = ?", ident, identType).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *resolverCacheRepo) RepointWork(ctx context.Context, tx *gorm.DB, fromID, toID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if fromID == uuid.Nil || toID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.ResolverCacheEntry{}).
		Where("work_id = ?", fromID).
		Updates(map[string]interface{}{"work_id": toID, "updated_at": time.Now().UTC()}).Error
}

type resolverLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResolverLogRepo(db *gorm.DB, baseLog *logger.Logger) ResolverLogRepo {
	return &resolverLogRepo{db: db, log: baseLog.With("repo", "ResolverLogRepo")}
}

func (r *resolverLogRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ResolverLog) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.Ident == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *resolverLogRepo) RepointWork(ctx context.Context, tx *gorm.DB, fromID, toID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if fromID == uuid.Nil || toID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.ResolverLog{}).
		Where("work_id = ?", fromID).
		Update("work_id", toID).Error
}
