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

type ReadingSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ReadingSession) ([]*types.ReadingSession, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ReadingSession, error)
}

type ReadingDayUnitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ReadingDayUnit) ([]*types.ReadingDayUnit, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ReadingDayUnit, error)
}

type ReadingAggregateRepo interface {
	UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.ReadingAggregate) error
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ReadingAggregate, error)
	LatestUpdateForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*time.Time, error)
}

type readingSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadingSessionRepo(db *gorm.DB, baseLog *logger.Logger) ReadingSessionRepo {
	return &readingSessionRepo{db: db, log: baseLog.With("repo", "ReadingSessionRepo")}
}

func (r *readingSessionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ReadingSession) ([]*types.ReadingSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.ReadingSession{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *readingSessionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ReadingSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ReadingSession
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type readingDayUnitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadingDayUnitRepo(db *gorm.DB, baseLog *logger.Logger) ReadingDayUnitRepo {
	return &readingDayUnitRepo{db: db, log: baseLog.With("repo", "ReadingDayUnitRepo")}
}

func (r *readingDayUnitRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ReadingDayUnit) ([]*types.ReadingDayUnit, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.ReadingDayUnit{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *readingDayUnitRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ReadingDayUnit, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ReadingDayUnit
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type readingAggregateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadingAggregateRepo(db *gorm.DB, baseLog *logger.Logger) ReadingAggregateRepo {
	return &readingAggregateRepo{db: db, log: baseLog.With("repo", "ReadingAggregateRepo")}
}

func (r *readingAggregateRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, rows []*types.ReadingAggregate) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		row.UpdatedAt = now
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "ident"}},
			DoUpdates: clause.AssignmentColumns([]string{"work_id", "total_duration_sec", "session_count", "last_read_at", "trailing_30_sec", "streak_days", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *readingAggregateRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ReadingAggregate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ReadingAggregate
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *readingAggregateRepo) LatestUpdateForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*time.Time, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.ReadingAggregate
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
