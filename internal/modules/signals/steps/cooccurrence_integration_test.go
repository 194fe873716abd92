package steps

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	"github.com/yungbote/shelfsignal-backend/internal/data/repos/testutil"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
)

func coocBuildDeps(t *testing.T) (CooccurrenceBuildDeps, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	return CooccurrenceBuildDeps{
		DB:            tx,
		Log:           log,
		ListItems:     repos.NewBookListItemRepo(tx, log),
		WorkAuthors:   repos.NewWorkAuthorRepo(tx, log),
		Cooccurrences: repos.NewCooccurrenceRepo(tx, log),
		MinLists:      2,
		TopK:          10,
	}, context.Background()
}

func TestBuildCooccurrenceWritesSymmetricPairs(t *testing.T) {
	deps, ctx := coocBuildDeps(t)
	w1 := testutil.SeedWork(t, ctx, deps.DB, "Neuromancer")
	w2 := testutil.SeedWork(t, ctx, deps.DB, "Count Zero")
	w3 := testutil.SeedWork(t, ctx, deps.DB, "Snow Crash")

	l1 := testutil.SeedBookList(t, ctx, deps.DB, "cyberpunk essentials")
	l2 := testutil.SeedBookList(t, ctx, deps.DB, "sprawl reading order")
	testutil.SeedBookListItem(t, ctx, deps.DB, l1.ID, w1.ID, 1)
	testutil.SeedBookListItem(t, ctx, deps.DB, l1.ID, w2.ID, 2)
	testutil.SeedBookListItem(t, ctx, deps.DB, l1.ID, w3.ID, 3)
	testutil.SeedBookListItem(t, ctx, deps.DB, l2.ID, w1.ID, 1)
	testutil.SeedBookListItem(t, ctx, deps.DB, l2.ID, w2.ID, 2)

	if _, err := BuildCooccurrence(ctx, deps); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	forward, err := deps.Cooccurrences.GetNeighbors(ctx, nil, w1.ID.String(), types.CooccurrenceSourceList, 2, 10)
	if err != nil || len(forward) != 1 {
		t.Fatalf("expected one list neighbor for w1, got %d err %v", len(forward), err)
	}
	reverse, err := deps.Cooccurrences.GetNeighbors(ctx, nil, w2.ID.String(), types.CooccurrenceSourceList, 2, 10)
	if err != nil || len(reverse) != 1 {
		t.Fatalf("expected one list neighbor for w2, got %d err %v", len(reverse), err)
	}
	if forward[0].KeyB != w2.ID.String() || reverse[0].KeyB != w1.ID.String() {
		t.Fatalf("pair endpoints wrong: %q / %q", forward[0].KeyB, reverse[0].KeyB)
	}
	if forward[0].Jaccard != reverse[0].Jaccard {
		t.Fatalf("both directions must carry the same jaccard: %v vs %v", forward[0].Jaccard, reverse[0].Jaccard)
	}
	if forward[0].Overlap != 2 || forward[0].Jaccard != 1.0 {
		t.Fatalf("w1 and w2 share both their lists: overlap=%d jaccard=%v", forward[0].Overlap, forward[0].Jaccard)
	}
}

func similarDeps(t *testing.T) (SimilarQueryDeps, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	return SimilarQueryDeps{
		DB:            tx,
		Log:           log,
		Cooccurrences: repos.NewCooccurrenceRepo(tx, log),
		Events:        repos.NewUserBookEventRepo(tx, log),
	}, context.Background()
}

func TestGetSimilarListTierShutsOutWeakerTiers(t *testing.T) {
	deps, ctx := similarDeps(t)
	item := uuid.New().String()
	listB := uuid.New().String()
	listC := uuid.New().String()
	authorD := uuid.New().String()
	rows := []*types.Cooccurrence{
		{KeyA: item, KeyB: listB, Source: types.CooccurrenceSourceList, Overlap: 3, Jaccard: 0.6, CountA: 4, CountB: 4},
		{KeyA: item, KeyB: listC, Source: types.CooccurrenceSourceList, Overlap: 2, Jaccard: 0.4, CountA: 4, CountB: 3},
		{KeyA: item, KeyB: authorD, Source: types.CooccurrenceSourceAuthor, Overlap: 1, Jaccard: 0.9, CountA: 2, CountB: 2},
	}
	if err := deps.Cooccurrences.UpsertMaxBatch(ctx, nil, rows); err != nil {
		t.Fatalf("arrange: %v", err)
	}

	// Fewer list neighbors than the limit is not a reason to pad with
	// weaker author rows.
	got, err := GetSimilar(ctx, deps, item, 20)
	if err != nil {
		t.Fatalf("similar failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("only the two list neighbors should come back, got %d", len(got))
	}
	for _, n := range got {
		if n.Source != types.CooccurrenceSourceList {
			t.Fatalf("%q neighbor %q leaked in alongside list results", n.Source, n.Key)
		}
	}
}

func TestGetSimilarAuthorTierWhenListsEmpty(t *testing.T) {
	deps, ctx := similarDeps(t)
	item := uuid.New().String()
	peer := uuid.New().String()
	if err := deps.Cooccurrences.UpsertMaxBatch(ctx, nil, []*types.Cooccurrence{
		{KeyA: item, KeyB: peer, Source: types.CooccurrenceSourceAuthor, Overlap: 1, Jaccard: 0.5, CountA: 2, CountB: 2},
	}); err != nil {
		t.Fatalf("arrange: %v", err)
	}
	got, err := GetSimilar(ctx, deps, item, 20)
	if err != nil {
		t.Fatalf("similar failed: %v", err)
	}
	if len(got) != 1 || got[0].Key != peer || got[0].Source != types.CooccurrenceSourceAuthor {
		t.Fatalf("author tier should serve when no list evidence exists, got %+v", got)
	}
}

func TestGetSimilarCoReadLastResort(t *testing.T) {
	deps, ctx := similarDeps(t)
	wA := testutil.SeedWork(t, ctx, deps.DB, "Hyperion")
	wB := testutil.SeedWork(t, ctx, deps.DB, "The Fall of Hyperion")
	u1 := testutil.SeedUser(t, ctx, deps.DB, "coread1@example.com")
	u2 := testutil.SeedUser(t, ctx, deps.DB, "coread2@example.com")
	testutil.SeedBookEvent(t, ctx, deps.DB, u1.ID, wA.ID, types.ShelfRead, "goodreads")
	testutil.SeedBookEvent(t, ctx, deps.DB, u1.ID, wB.ID, types.ShelfRead, "goodreads")
	testutil.SeedBookEvent(t, ctx, deps.DB, u2.ID, wA.ID, types.ShelfRead, "goodreads")
	testutil.SeedBookEvent(t, ctx, deps.DB, u2.ID, wB.ID, types.ShelfRead, "goodreads")

	got, err := GetSimilar(ctx, deps, wA.ID.String(), 20)
	if err != nil {
		t.Fatalf("similar failed: %v", err)
	}
	if len(got) != 1 || got[0].Key != wB.ID.String() || got[0].Source != "co-read" {
		t.Fatalf("co-read scan should serve when the table has nothing, got %+v", got)
	}
	if got[0].Overlap != 2 {
		t.Fatalf("both readers should count, got %d", got[0].Overlap)
	}
}
