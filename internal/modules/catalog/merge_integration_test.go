package catalog

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	"github.com/yungbote/shelfsignal-backend/internal/data/repos/testutil"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/pkg/errors"
)

func mergeDeps(t *testing.T) (MergeDeps, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	deps := MergeDeps{
		DB:           tx,
		Log:          log,
		Works:        repos.NewWorkRepo(tx, log),
		Editions:     repos.NewWorkEditionRepo(tx, log),
		WorkAuthors:  repos.NewWorkAuthorRepo(tx, log),
		WorkSubjects: repos.NewWorkSubjectRepo(tx, log),
		Authors:      repos.NewAuthorRepo(tx, log),
		Events:       repos.NewUserBookEventRepo(tx, log),
		RatingStats:  repos.NewRatingStatRepo(tx, log),
		ResolverCach: repos.NewResolverCacheRepo(tx, log),
		ResolverLogs: repos.NewResolverLogRepo(tx, log),
		MergeLogs:    repos.NewMergeLogRepo(tx, log),
	}
	return deps, context.Background()
}

func TestMergeWorksIrreflexive(t *testing.T) {
	deps, ctx := mergeDeps(t)
	w := testutil.SeedWork(t, ctx, deps.DB, "Dune")
	if err := MergeWorks(ctx, deps, w.ID, w.ID, "test"); !stderrors.Is(err, errors.ErrSelfMerge) {
		t.Fatalf("self-merge must fail with ErrSelfMerge, got %v", err)
	}
	if got, err := deps.Works.GetByID(ctx, nil, w.ID); err != nil || got == nil {
		t.Fatalf("self-merge must not mutate the work: %v %v", got, err)
	}
}

func TestMergeWorksMovesEverything(t *testing.T) {
	deps, ctx := mergeDeps(t)
	from := testutil.SeedWork(t, ctx, deps.DB, "The Hobbit (stub)")
	to := testutil.SeedWork(t, ctx, deps.DB, "The Hobbit")

	testutil.SeedEdition(t, ctx, deps.DB, from.ID, "9780261103344")
	testutil.SeedEdition(t, ctx, deps.DB, to.ID, "9780547928227")

	author := testutil.SeedAuthor(t, ctx, deps.DB, "J. R. R. Tolkien")
	testutil.LinkWorkAuthor(t, ctx, deps.DB, from.ID, author.ID)
	testutil.LinkWorkAuthor(t, ctx, deps.DB, to.ID, author.ID)

	reader := testutil.SeedUser(t, ctx, deps.DB, "reader@example.com")
	testutil.SeedBookEvent(t, ctx, deps.DB, reader.ID, from.ID, types.ShelfRead, "goodreads")

	testutil.SeedRatingStat(t, ctx, deps.DB, from.ID, "openlibrary", 4.0, 50)

	if err := MergeWorks(ctx, deps, from.ID, to.ID, "shared isbn13 test"); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if got, err := deps.Works.GetByID(ctx, nil, from.ID); err != nil || got != nil {
		t.Fatalf("from-work must be gone from the catalog, got %v err %v", got, err)
	}

	count, err := deps.Editions.CountByWorkID(ctx, nil, to.ID)
	if err != nil || count != 2 {
		t.Fatalf("target should own both editions, got %d err %v", count, err)
	}

	events, err := deps.Events.GetByWorkID(ctx, nil, to.ID)
	if err != nil || len(events) != 1 {
		t.Fatalf("event should follow the merge, got %d err %v", len(events), err)
	}
	if orphaned, err := deps.Events.GetByWorkID(ctx, nil, from.ID); err != nil || len(orphaned) != 0 {
		t.Fatalf("no event may still reference the from-work, got %d err %v", len(orphaned), err)
	}

	stats, err := deps.RatingStats.GetByWorkID(ctx, nil, to.ID)
	if err != nil || len(stats) != 1 {
		t.Fatalf("rating stats should move, got %d err %v", len(stats), err)
	}

	links, err := deps.WorkAuthors.GetByWorkID(ctx, nil, to.ID)
	if err != nil || len(links) != 1 {
		t.Fatalf("duplicate author link must collapse to one, got %d err %v", len(links), err)
	}

	logs, err := deps.MergeLogs.ListByToWorkID(ctx, nil, to.ID)
	if err != nil || len(logs) != 1 {
		t.Fatalf("merge must be audited, got %d err %v", len(logs), err)
	}
	if logs[0].EditionsMoved != 1 {
		t.Fatalf("audit should count moved editions, got %d", logs[0].EditionsMoved)
	}
}

func TestMergeWorksSurvivesRemovedTargetEventConflict(t *testing.T) {
	deps, ctx := mergeDeps(t)
	from := testutil.SeedWork(t, ctx, deps.DB, "Persuasion")
	to := testutil.SeedWork(t, ctx, deps.DB, "Persuasion (canonical)")
	reader := testutil.SeedUser(t, ctx, deps.DB, "ghost@example.com")

	// A removed target event is invisible to reads but still holds its
	// (user, work, source) slot in the unique index.
	removed := testutil.SeedBookEvent(t, ctx, deps.DB, reader.ID, to.ID, types.ShelfRead, "goodreads")
	if err := deps.DB.Delete(&types.UserBookEvent{}, "id = ?", removed.ID).Error; err != nil {
		t.Fatalf("arrange: %v", err)
	}
	testutil.SeedBookEvent(t, ctx, deps.DB, reader.ID, from.ID, types.ShelfRead, "goodreads")

	if err := MergeWorks(ctx, deps, from.ID, to.ID, "conflict test"); err != nil {
		t.Fatalf("merge must survive the index conflict: %v", err)
	}
	if events, err := deps.Events.GetByWorkID(ctx, nil, to.ID); err != nil || len(events) != 0 {
		t.Fatalf("removed target event must stay removed, got %d err %v", len(events), err)
	}
	if orphaned, err := deps.Events.GetByWorkID(ctx, nil, from.ID); err != nil || len(orphaned) != 0 {
		t.Fatalf("conflicting from-event must be discarded, got %d err %v", len(orphaned), err)
	}
	if got, err := deps.Works.GetByID(ctx, nil, from.ID); err != nil || got != nil {
		t.Fatalf("merge must still complete, from-work got %v err %v", got, err)
	}
}

func TestMergeWorksCollapsesDuplicateEvents(t *testing.T) {
	deps, ctx := mergeDeps(t)
	from := testutil.SeedWork(t, ctx, deps.DB, "Emma")
	to := testutil.SeedWork(t, ctx, deps.DB, "Emma (canonical)")
	reader := testutil.SeedUser(t, ctx, deps.DB, "dup@example.com")

	older := testutil.SeedBookEvent(t, ctx, deps.DB, reader.ID, to.ID, types.ShelfCurrentlyReading, "goodreads")
	newer := testutil.SeedBookEvent(t, ctx, deps.DB, reader.ID, from.ID, types.ShelfRead, "goodreads")
	past := time.Now().UTC().AddDate(0, -1, 0)
	if err := deps.Events.UpdateFields(ctx, nil, newer.ID, map[string]interface{}{"completed_at": past, "rating": 5}); err != nil {
		t.Fatalf("arrange: %v", err)
	}

	if err := MergeWorks(ctx, deps, from.ID, to.ID, "dedupe test"); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	events, err := deps.Events.GetByWorkID(ctx, nil, to.ID)
	if err != nil || len(events) != 1 {
		t.Fatalf("duplicate (user, source) must collapse to one event, got %d err %v", len(events), err)
	}
	kept := events[0]
	if kept.ID != older.ID {
		t.Fatalf("surviving row should be the target's, got %v", kept.ID)
	}
	if kept.CompletedAt == nil || kept.Rating == nil || *kept.Rating != 5 {
		t.Fatalf("winner's completion and rating should carry over, got %+v", kept)
	}
	if kept.Shelf != types.ShelfRead {
		t.Fatalf("winner's shelf should carry over, got %q", kept.Shelf)
	}
}
