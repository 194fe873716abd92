package signals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

// CoReadNeighbor is a realtime co-read count for the long-tail fallback tier
// of similarity lookups.
type CoReadNeighbor struct {
	WorkID  uuid.UUID
	Readers int
}

type UserBookEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.UserBookEvent) ([]*types.UserBookEvent, error)

	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBookEvent, error)
	GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.UserBookEvent, error)
	LatestEventTimeForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*time.Time, error)

	UpdateWorkID(ctx context.Context, tx *gorm.DB, eventID, workID uuid.UUID) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error

	CoReadNeighbors(ctx context.Context, tx *gorm.DB, workID uuid.UUID, limit int) ([]CoReadNeighbor, error)
}

type userBookEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserBookEventRepo(db *gorm.DB, baseLog *logger.Logger) UserBookEventRepo {
	return &userBookEventRepo{db: db, log: baseLog.With("repo", "UserBookEventRepo")}
}

func (r *userBookEventRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserBookEvent) ([]*types.UserBookEvent, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.UserBookEvent{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userBookEventRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBookEvent, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserBookEvent
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userBookEventRepo) GetByWorkID(ctx context.Context, tx *gorm.DB, workID uuid.UUID) ([]*types.UserBookEvent, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.UserBookEvent
	if workID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("work_id = ?", workID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userBookEventRepo) LatestEventTimeForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*time.Time, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.UserBookEvent
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	ts := row.UpdatedAt
	return &ts, nil
}

func (r *userBookEventRepo) UpdateWorkID(ctx context.Context, tx *gorm.DB, eventID, workID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if eventID == uuid.Nil || workID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.UserBookEvent{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{"work_id": workID, "updated_at": time.Now().UTC()}).Error
}

func (r *userBookEventRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.UserBookEvent{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *userBookEventRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Unscoped().Where("id IN ?", ids).Delete(&types.UserBookEvent{}).Error
}

func (r *userBookEventRepo) CoReadNeighbors(ctx context.Context, tx *gorm.DB, workID uuid.UUID, limit int) ([]CoReadNeighbor, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []CoReadNeighbor
	if workID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 20
	}
	err := t.WithContext(ctx).Raw(`
SELECT e2.work_id AS work_id, COUNT(DISTINCT e2.user_id) AS readers
FROM user_book_event e1
JOIN user_book_event e2
  ON e1.user_id = e2.user_id
 AND e2.work_id <> e1.work_id
 AND e2.deleted_at IS NULL
WHERE e1.work_id = ?
  AND e1.deleted_at IS NULL
GROUP BY e2.work_id
ORDER BY readers DESC
LIMIT ?`, workID, limit).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
