package signals_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	"github.com/yungbote/shelfsignal-backend/internal/data/repos/testutil"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
)

func TestCooccurrenceUpsertMaxBatch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	repo := repos.NewCooccurrenceRepo(tx, log)
	ctx := context.Background()

	a := uuid.New().String()
	b := uuid.New().String()

	if err := repo.UpsertMaxBatch(ctx, nil, []*types.Cooccurrence{
		{KeyA: a, KeyB: b, Source: types.CooccurrenceSourceAuthor, Overlap: 1, Jaccard: 0.4, CountA: 3, CountB: 2},
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	// A stronger list signal for the same pair must win.
	if err := repo.UpsertMaxBatch(ctx, nil, []*types.Cooccurrence{
		{KeyA: a, KeyB: b, Source: types.CooccurrenceSourceList, Overlap: 3, Jaccard: 0.7, CountA: 4, CountB: 5},
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	// A weaker pass afterwards must not regress it.
	if err := repo.UpsertMaxBatch(ctx, nil, []*types.Cooccurrence{
		{KeyA: a, KeyB: b, Source: types.CooccurrenceSourceAuthor, Overlap: 2, Jaccard: 0.5, CountA: 4, CountB: 5},
	}); err != nil {
		t.Fatalf("third upsert: %v", err)
	}

	rows, err := repo.GetByKey(ctx, nil, a)
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row for the pair, got %d", len(rows))
	}
	got := rows[0]
	if got.Jaccard != 0.7 || got.Overlap != 3 {
		t.Fatalf("max-merge should keep the strongest signal, got jaccard=%v overlap=%d", got.Jaccard, got.Overlap)
	}
	if got.Source != types.CooccurrenceSourceList {
		t.Fatalf("source should follow the winning signal, got %q", got.Source)
	}
}

func TestCooccurrenceSymmetricLookup(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	repo := repos.NewCooccurrenceRepo(tx, log)
	ctx := context.Background()

	a := uuid.New().String()
	b := uuid.New().String()
	if err := repo.UpsertMaxBatch(ctx, nil, []*types.Cooccurrence{
		{KeyA: a, KeyB: b, Source: types.CooccurrenceSourceList, Overlap: 2, Jaccard: 0.5, CountA: 3, CountB: 4},
		{KeyA: b, KeyB: a, Source: types.CooccurrenceSourceList, Overlap: 2, Jaccard: 0.5, CountA: 4, CountB: 3},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	fromA, err := repo.GetNeighbors(ctx, nil, a, types.CooccurrenceSourceList, 2, 10)
	if err != nil || len(fromA) != 1 || fromA[0].KeyB != b {
		t.Fatalf("lookup from a should find b: %v err %v", fromA, err)
	}
	fromB, err := repo.GetNeighbors(ctx, nil, b, types.CooccurrenceSourceList, 2, 10)
	if err != nil || len(fromB) != 1 || fromB[0].KeyB != a {
		t.Fatalf("lookup from b should find a: %v err %v", fromB, err)
	}
	if fromA[0].Jaccard != fromB[0].Jaccard {
		t.Fatalf("jaccard must match in both directions: %v vs %v", fromA[0].Jaccard, fromB[0].Jaccard)
	}
}
