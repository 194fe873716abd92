package steps

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/pkg/vecmath"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
	"github.com/yungbote/shelfsignal-backend/internal/utils"
)

type TasteProfileDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Works    repos.WorkRepo
	Events   repos.UserBookEventRepo
	Aggs     repos.ReadingAggregateRepo
	Profiles repos.UserTasteProfileRepo

	EventCap int // most-influential events considered per build
}

const (
	maxAnchors      = 10
	defaultEventCap = 500
)

// eventWeight scores one event's pull on the taste vector. Negative weights
// (dnf, blocked) push the vector away from the work.
func eventWeight(ev *types.UserBookEvent, agg *types.ReadingAggregate, now time.Time) float64 {
	ratingMult := 1.0
	if ev.Rating != nil {
		ratingMult = math.Pow(2, float64(*ev.Rating-3)/2)
	}

	var shelfMult float64
	switch ev.Shelf {
	case types.ShelfRead:
		shelfMult = 1.0
	case types.ShelfCurrentlyReading:
		shelfMult = 0.8
	case types.ShelfToRead:
		shelfMult = 0.3
	case types.ShelfDNF:
		shelfMult = -0.5
	default:
		shelfMult = 0.3
	}

	ref := ev.CreatedAt
	if ev.CompletedAt != nil {
		ref = *ev.CompletedAt
	} else if agg != nil && agg.LastReadAt != nil {
		ref = *agg.LastReadAt
	}
	ageYears := now.Sub(ref).Hours() / (24 * 365.25)
	if ageYears < 0 {
		ageYears = 0
	}
	decay := math.Pow(0.5, ageYears/2)

	intensity := 1.0
	if agg != nil && agg.TotalDurationSec > 0 {
		hours := float64(agg.TotalDurationSec) / 3600
		intensity = 1 + math.Min(1, math.Log10(hours+1))
	}

	recency := 1.0
	if now.Sub(ref) <= 30*24*time.Hour {
		recency = 1.1
	}

	w := ratingMult * shelfMult * decay * intensity * recency

	// Explicit exclusion always overrides whatever the shelf implies.
	if ev.Blocked {
		w = -math.Abs(w)
	}
	return w
}

// moreInfluential orders events for the build cap: rating value descending,
// rated before unrated, then most recent activity.
func moreInfluential(a, b *types.UserBookEvent) bool {
	switch {
	case a.Rating != nil && b.Rating != nil:
		if *a.Rating != *b.Rating {
			return *a.Rating > *b.Rating
		}
	case a.Rating != nil:
		return true
	case b.Rating != nil:
		return false
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}

// BuildUserProfile recomputes the user's taste vector and anchors from
// their events and persists the result. Users with no embeddable events get
// an empty vector, not an error.
func BuildUserProfile(ctx context.Context, deps TasteProfileDeps, userID uuid.UUID) (*types.UserTasteProfile, error) {
	if deps.DB == nil || deps.Log == nil || deps.Works == nil || deps.Events == nil || deps.Profiles == nil {
		return nil, fmt.Errorf("taste_profile: missing deps")
	}
	if userID == uuid.Nil {
		return nil, fmt.Errorf("taste_profile: missing user_id")
	}
	eventCap := deps.EventCap
	if eventCap <= 0 {
		eventCap = defaultEventCap
	}
	damping := utils.GetEnvAsFloat("TASTE_NEGATIVE_DAMPING", 0.3, deps.Log)
	log := deps.Log.With("user_id", userID)
	now := time.Now().UTC()

	events, err := deps.Events.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	aggByWork := map[uuid.UUID]*types.ReadingAggregate{}
	if deps.Aggs != nil {
		aggs, err := deps.Aggs.GetByUserID(ctx, nil, userID)
		if err != nil {
			return nil, err
		}
		for _, a := range aggs {
			if a.WorkID != nil {
				aggByWork[*a.WorkID] = a
			}
		}
	}

	type scored struct {
		event  *types.UserBookEvent
		weight float64
	}
	all := make([]scored, 0, len(events))
	for _, ev := range events {
		w := eventWeight(ev, aggByWork[ev.WorkID], now)
		if w == 0 {
			continue
		}
		all = append(all, scored{event: ev, weight: w})
	}
	// Highest-rated events first, unrated after all rated, newest breaking
	// ties, so the cap keeps the most telling signal.
	sort.Slice(all, func(i, j int) bool {
		return moreInfluential(all[i].event, all[j].event)
	})
	if len(all) > eventCap {
		all = all[:eventCap]
	}

	workIDs := make([]uuid.UUID, 0, len(all))
	for _, s := range all {
		workIDs = append(workIDs, s.event.WorkID)
	}
	works, err := deps.Works.GetByIDs(ctx, nil, workIDs)
	if err != nil {
		return nil, err
	}
	embByWork := map[uuid.UUID][]float32{}
	titleByWork := map[uuid.UUID]string{}
	for _, w := range works {
		titleByWork[w.ID] = w.Title
		if v := w.EmbeddingVector(); len(v) > 0 {
			embByWork[w.ID] = v
		}
	}

	var posVecs, negVecs [][]float32
	var posWeights, negWeights []float64
	var anchors []types.TasteAnchor
	for _, s := range all {
		vec, ok := embByWork[s.event.WorkID]
		if !ok {
			continue
		}
		if s.weight > 0 {
			posVecs = append(posVecs, vec)
			posWeights = append(posWeights, s.weight)
			anchors = append(anchors, types.TasteAnchor{
				WorkID: s.event.WorkID,
				Title:  titleByWork[s.event.WorkID],
				Weight: s.weight,
			})
		} else {
			negVecs = append(negVecs, vec)
			negWeights = append(negWeights, -s.weight)
		}
	}

	var vector []float32
	switch {
	case len(posVecs) == 0 && len(negVecs) == 0:
		log.Warn("no embeddable events for user, writing empty profile")
	default:
		pos, err := vecmath.WeightedAverage(posVecs, posWeights)
		if err != nil {
			return nil, err
		}
		vector = pos
		if len(negVecs) > 0 {
			neg, err := vecmath.WeightedAverage(negVecs, negWeights)
			if err != nil {
				return nil, err
			}
			if len(vector) == 0 {
				vector = make([]float32, len(neg))
			}
			if len(vector) != len(neg) {
				return nil, vecmath.ErrDimensionMismatch
			}
			for i := range vector {
				vector[i] -= float32(damping) * neg[i]
			}
		}
		vector = vecmath.Normalize(vector)
	}

	sort.Slice(anchors, func(i, j int) bool { return anchors[i].Weight > anchors[j].Weight })
	if len(anchors) > maxAnchors {
		anchors = anchors[:maxAnchors]
	}

	profile := &types.UserTasteProfile{
		UserID:  userID,
		BuiltAt: now,
	}
	if err := profile.SetVectorAndAnchors(vector, anchors); err != nil {
		return nil, err
	}
	if err := deps.Profiles.Upsert(ctx, nil, profile); err != nil {
		return nil, err
	}

	log.Info("taste profile built",
		"events_considered", len(all),
		"positive", len(posVecs),
		"negative", len(negVecs),
		"anchors", len(anchors),
	)
	return profile, nil
}

// GetOrBuildUserProfile returns the stored profile unless new activity has
// landed since it was built.
func GetOrBuildUserProfile(ctx context.Context, deps TasteProfileDeps, userID uuid.UUID) (*types.UserTasteProfile, error) {
	if deps.Profiles == nil {
		return nil, fmt.Errorf("taste_profile: missing deps")
	}
	existing, err := deps.Profiles.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		stale, err := ProfileNeedsRefresh(ctx, deps, userID, existing.BuiltAt)
		if err != nil {
			return nil, err
		}
		if !stale {
			return existing, nil
		}
	}
	return BuildUserProfile(ctx, deps, userID)
}

// ProfileNeedsRefresh reports whether any event or reading aggregate
// postdates the given build time.
func ProfileNeedsRefresh(ctx context.Context, deps TasteProfileDeps, userID uuid.UUID, builtAt time.Time) (bool, error) {
	if deps.Events == nil {
		return false, fmt.Errorf("taste_profile: missing deps")
	}
	latest, err := deps.Events.LatestEventTimeForUser(ctx, nil, userID)
	if err != nil {
		return false, err
	}
	if latest != nil && latest.After(builtAt) {
		return true, nil
	}
	if deps.Aggs != nil {
		aggLatest, err := deps.Aggs.LatestUpdateForUser(ctx, nil, userID)
		if err != nil {
			return false, err
		}
		if aggLatest != nil && aggLatest.After(builtAt) {
			return true, nil
		}
	}
	return false, nil
}
