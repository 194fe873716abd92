package steps

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
)

func ratedEvent(shelf string, rating *int, completed time.Time) *types.UserBookEvent {
	return &types.UserBookEvent{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		WorkID:      uuid.New(),
		Shelf:       shelf,
		Rating:      rating,
		CompletedAt: &completed,
		CreatedAt:   completed,
	}
}

func intPtr(v int) *int { return &v }

func TestEventWeightHalfLife(t *testing.T) {
	now := time.Now().UTC()
	// Both outside the 30-day recency window so only decay differs.
	recent := ratedEvent(types.ShelfRead, intPtr(5), now.AddDate(0, 0, -31))
	old := ratedEvent(types.ShelfRead, intPtr(5), now.AddDate(-2, 0, -31))

	wRecent := eventWeight(recent, nil, now)
	wOld := eventWeight(old, nil, now)
	if wRecent <= 0 || wOld <= 0 {
		t.Fatalf("5-star read events must weigh positive, got %v and %v", wRecent, wOld)
	}
	ratio := wRecent / wOld
	if math.Abs(ratio-2.0) > 0.01 {
		t.Fatalf("two-year age gap should halve the weight, ratio=%v", ratio)
	}
}

func TestEventWeightShelfOrdering(t *testing.T) {
	now := time.Now().UTC()
	completed := now.AddDate(0, 0, -40)

	read := eventWeight(ratedEvent(types.ShelfRead, nil, completed), nil, now)
	current := eventWeight(ratedEvent(types.ShelfCurrentlyReading, nil, completed), nil, now)
	toRead := eventWeight(ratedEvent(types.ShelfToRead, nil, completed), nil, now)
	dnf := eventWeight(ratedEvent(types.ShelfDNF, nil, completed), nil, now)

	if !(read > current && current > toRead && toRead > 0) {
		t.Fatalf("shelf weights out of order: read=%v current=%v to-read=%v", read, current, toRead)
	}
	if dnf >= 0 {
		t.Fatalf("dnf must weigh negative, got %v", dnf)
	}
}

func TestEventWeightUnratedIsNeutral(t *testing.T) {
	now := time.Now().UTC()
	completed := now.AddDate(0, 0, -40)
	unrated := eventWeight(ratedEvent(types.ShelfRead, nil, completed), nil, now)
	threeStar := eventWeight(ratedEvent(types.ShelfRead, intPtr(3), completed), nil, now)
	if math.Abs(unrated-threeStar) > 1e-12 {
		t.Fatalf("unrated should match the 3-star multiplier: %v vs %v", unrated, threeStar)
	}
	fiveStar := eventWeight(ratedEvent(types.ShelfRead, intPtr(5), completed), nil, now)
	oneStar := eventWeight(ratedEvent(types.ShelfRead, intPtr(1), completed), nil, now)
	if fiveStar/unrated != 2.0 {
		t.Fatalf("5-star should double the unrated weight, got %v", fiveStar/unrated)
	}
	if oneStar/unrated != 0.5 {
		t.Fatalf("1-star should halve the unrated weight, got %v", oneStar/unrated)
	}
}

func TestEventWeightBlockedOverride(t *testing.T) {
	now := time.Now().UTC()
	ev := ratedEvent(types.ShelfRead, intPtr(5), now.AddDate(0, 0, -40))
	ev.Blocked = true
	if w := eventWeight(ev, nil, now); w >= 0 {
		t.Fatalf("blocked event must never weigh positive, got %v", w)
	}
}

func TestEventWeightReadingIntensity(t *testing.T) {
	now := time.Now().UTC()
	ev := ratedEvent(types.ShelfRead, intPtr(4), now.AddDate(0, 0, -40))
	plain := eventWeight(ev, nil, now)
	agg := &types.ReadingAggregate{TotalDurationSec: 9 * 3600}
	boosted := eventWeight(ev, agg, now)
	want := plain * (1 + math.Log10(10))
	if math.Abs(boosted-want) > 1e-9 {
		t.Fatalf("9h of reading should apply the full intensity boost: got %v want %v", boosted, want)
	}
	heavy := eventWeight(ev, &types.ReadingAggregate{TotalDurationSec: 1000 * 3600}, now)
	if math.Abs(heavy-2*plain) > 1e-9 {
		t.Fatalf("intensity boost must cap at 2x, got %v vs plain %v", heavy, plain)
	}
}

func TestEventWeightRecencyBoost(t *testing.T) {
	now := time.Now().UTC()
	inWindow := eventWeight(ratedEvent(types.ShelfRead, nil, now.AddDate(0, 0, -10)), nil, now)
	outWindow := eventWeight(ratedEvent(types.ShelfRead, nil, now.AddDate(0, 0, -31)), nil, now)
	if inWindow <= outWindow {
		t.Fatalf("recent completion should weigh more: %v vs %v", inWindow, outWindow)
	}
}

func cappedEvent(rating *int, updated time.Time) *types.UserBookEvent {
	return &types.UserBookEvent{ID: uuid.New(), Rating: rating, UpdatedAt: updated}
}

func TestMoreInfluentialOrdering(t *testing.T) {
	now := time.Now().UTC()
	oldFive := cappedEvent(intPtr(5), now.AddDate(-1, 0, 0))
	freshFour := cappedEvent(intPtr(4), now)
	freshUnrated := cappedEvent(nil, now)
	oldUnrated := cappedEvent(nil, now.AddDate(-1, 0, 0))

	if !moreInfluential(oldFive, freshFour) {
		t.Fatal("an older 5-star must outrank a fresh 4-star")
	}
	if moreInfluential(freshUnrated, freshFour) || !moreInfluential(freshFour, freshUnrated) {
		t.Fatal("every rated event must outrank every unrated one")
	}
	if !moreInfluential(freshUnrated, oldUnrated) {
		t.Fatal("recency breaks ties among unrated events")
	}
	sameNew := cappedEvent(intPtr(4), now)
	sameOld := cappedEvent(intPtr(4), now.AddDate(0, 0, -7))
	if !moreInfluential(sameNew, sameOld) {
		t.Fatal("recency breaks ties among equally rated events")
	}
}

func TestCandidateFeaturesAuthorAffinity(t *testing.T) {
	favA := uuid.New().String()
	otherA := uuid.New().String()
	w := &types.Work{ID: uuid.New()}
	sig := candidateSignals{
		favoriteAuthors:  map[string]bool{favA: true},
		favoriteSubjects: map[string]bool{},
		readSeries:       map[string]bool{},
	}
	f := candidateFeatures(w, []string{favA, otherA}, nil, sig)
	if f.AuthorAffinity != 0.5 {
		t.Fatalf("1 favorite of 2 authors should give 0.5, got %v", f.AuthorAffinity)
	}
	if f.ProxScore != 0.25 {
		t.Fatalf("prox should average affinity and overlap, got %v", f.ProxScore)
	}
}

func TestCandidateFeaturesAuthorless(t *testing.T) {
	w := &types.Work{ID: uuid.New()}
	sig := candidateSignals{
		favoriteAuthors:  map[string]bool{uuid.New().String(): true},
		favoriteSubjects: map[string]bool{},
		readSeries:       map[string]bool{},
	}
	f := candidateFeatures(w, nil, nil, sig)
	if f.AuthorAffinity != 0 {
		t.Fatalf("authorless candidate should score 0 affinity, got %v", f.AuthorAffinity)
	}
}

func TestCandidateFeaturesSameSeries(t *testing.T) {
	w := &types.Work{ID: uuid.New(), SeriesName: "Discworld"}
	sig := candidateSignals{
		favoriteAuthors:  map[string]bool{},
		favoriteSubjects: map[string]bool{},
		readSeries:       map[string]bool{"Discworld": true},
	}
	if f := candidateFeatures(w, nil, nil, sig); !f.SameSeries {
		t.Fatal("series match should flag sameSeries")
	}
}

func TestJaccardStrings(t *testing.T) {
	set := map[string]bool{"a": true, "b": true}
	if got := jaccardStrings([]string{"a", "c"}, set); got != 1.0/3.0 {
		t.Fatalf("got %v", got)
	}
	if got := jaccardStrings(nil, set); got != 0 {
		t.Fatalf("empty items should give 0, got %v", got)
	}
	if got := jaccardStrings([]string{"a", "b"}, map[string]bool{"a": true, "b": true}); got != 1.0 {
		t.Fatalf("identical sets should give 1, got %v", got)
	}
}
