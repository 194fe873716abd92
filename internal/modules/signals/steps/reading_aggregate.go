package steps

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type ReadingAggregateDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Sessions repos.ReadingSessionRepo
	DayUnits repos.ReadingDayUnitRepo
	Aggs     repos.ReadingAggregateRepo
	Resolver repos.ResolverCacheRepo
}

type ReadingAggregateOutput struct {
	Idents int `json:"idents"`
}

// RebuildReadingAggregates recomputes every ReadingAggregate row for a user
// from raw sessions and day units. The rollup is disposable derived state;
// this fully overwrites it.
func RebuildReadingAggregates(ctx context.Context, deps ReadingAggregateDeps, userID uuid.UUID) (ReadingAggregateOutput, error) {
	out := ReadingAggregateOutput{}
	if deps.DB == nil || deps.Log == nil || deps.Sessions == nil || deps.DayUnits == nil || deps.Aggs == nil {
		return out, fmt.Errorf("reading_aggregate: missing deps")
	}
	if userID == uuid.Nil {
		return out, fmt.Errorf("reading_aggregate: missing user_id")
	}
	now := time.Now().UTC()

	sessions, err := deps.Sessions.GetByUserID(ctx, nil, userID)
	if err != nil {
		return out, err
	}
	dayUnits, err := deps.DayUnits.GetByUserID(ctx, nil, userID)
	if err != nil {
		return out, err
	}
	if len(sessions) == 0 && len(dayUnits) == 0 {
		deps.Log.Warn("no reading activity for user", "user_id", userID)
		return out, nil
	}

	type acc struct {
		totalSec     int
		sessionCount int
		lastReadAt   time.Time
		trailing30   int
		days         map[string]bool
	}
	byIdent := map[string]*acc{}
	get := func(ident string) *acc {
		a, ok := byIdent[ident]
		if !ok {
			a = &acc{days: map[string]bool{}}
			byIdent[ident] = a
		}
		return a
	}

	cutoff30 := now.AddDate(0, 0, -30)
	for _, s := range sessions {
		a := get(s.Ident)
		a.totalSec += s.DurationSec
		a.sessionCount++
		end := s.StartedAt.Add(time.Duration(s.DurationSec) * time.Second)
		if end.After(a.lastReadAt) {
			a.lastReadAt = end
		}
		if s.StartedAt.After(cutoff30) {
			a.trailing30 += s.DurationSec
		}
		a.days[s.StartedAt.UTC().Format("2006-01-02")] = true
	}
	for _, d := range dayUnits {
		a := get(d.Ident)
		a.totalSec += d.DurationSec
		if d.Day.After(a.lastReadAt) {
			a.lastReadAt = d.Day
		}
		if d.Day.After(cutoff30) {
			a.trailing30 += d.DurationSec
		}
		a.days[d.Day.UTC().Format("2006-01-02")] = true
	}

	rows := make([]*types.ReadingAggregate, 0, len(byIdent))
	for ident, a := range byIdent {
		last := a.lastReadAt
		row := &types.ReadingAggregate{
			UserID:           userID,
			Ident:            ident,
			TotalDurationSec: a.totalSec,
			SessionCount:     a.sessionCount,
			LastReadAt:       &last,
			Trailing30Sec:    a.trailing30,
			StreakDays:       streakDays(a.days, now),
		}
		if deps.Resolver != nil {
			if workID := resolveIdent(ctx, deps.Resolver, ident); workID != uuid.Nil {
				id := workID
				row.WorkID = &id
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ident < rows[j].Ident })

	if err := deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deps.Aggs.UpsertBatch(ctx, tx, rows)
	}); err != nil {
		return out, err
	}
	out.Idents = len(rows)
	deps.Log.Info("reading aggregates rebuilt", "user_id", userID, "idents", out.Idents)
	return out, nil
}

// streakDays counts consecutive reading days ending today or yesterday.
func streakDays(days map[string]bool, now time.Time) int {
	day := now.UTC()
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// resolveIdent maps a tracker identifier to a work through the resolver
// cache, trying identifier types from strongest to weakest.
func resolveIdent(ctx context.Context, resolver repos.ResolverCacheRepo, ident string) uuid.UUID {
	for _, identType := range []string{
		types.IdentTypeISBN13,
		types.IdentTypeISBN10,
		types.IdentTypeASIN,
		types.IdentTypeOpenLibrary,
	} {
		entry, err := resolver.GetByIdent(ctx, nil, ident, identType)
		if err == nil && entry != nil {
			return entry.WorkID
		}
	}
	return uuid.Nil
}
