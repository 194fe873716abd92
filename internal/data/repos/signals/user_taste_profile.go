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

type UserTasteProfileRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserTasteProfile, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.UserTasteProfile) error
}

type userTasteProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTasteProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserTasteProfileRepo {
	return &userTasteProfileRepo{db: db, log: baseLog.With("repo", "UserTasteProfileRepo")}
}

func (r *userTasteProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserTasteProfile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.UserTasteProfile
	if err := t.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userTasteProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.UserTasteProfile) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding", "anchors", "built_at", "updated_at"}),
		}).
		Create(row).Error
}
