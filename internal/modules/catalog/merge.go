package catalog

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/pkg/errors"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

const (
	titleSimilarityThreshold  = 0.6
	authorSimilarityThreshold = 0.5
)

type MergeDeps struct {
	DB           *gorm.DB
	Log          *logger.Logger
	Works        repos.WorkRepo
	Editions     repos.WorkEditionRepo
	WorkAuthors  repos.WorkAuthorRepo
	WorkSubjects repos.WorkSubjectRepo
	Authors      repos.AuthorRepo
	Events       repos.UserBookEventRepo
	RatingStats  repos.RatingStatRepo
	ResolverCach repos.ResolverCacheRepo
	ResolverLogs repos.ResolverLogRepo
	MergeLogs    repos.MergeLogRepo
}

// ShouldMerge decides whether two works are the same identity based on
// shared strong identifiers across their editions. Identifier strength
// ordering: isbn13, isbn10, openlibrary, asin; the first shared one wins
// and names the reason.
func ShouldMerge(a, b []*types.WorkEdition) (bool, string) {
	type extractor struct {
		identType string
		get       func(*types.WorkEdition) string
	}
	extractors := []extractor{
		{types.IdentTypeISBN13, func(e *types.WorkEdition) string { return e.ISBN13 }},
		{types.IdentTypeISBN10, func(e *types.WorkEdition) string { return e.ISBN10 }},
		{types.IdentTypeOpenLibrary, func(e *types.WorkEdition) string { return e.OpenLibraryID }},
		{types.IdentTypeASIN, func(e *types.WorkEdition) string { return e.ASIN }},
	}
	for _, ex := range extractors {
		set := map[string]bool{}
		for _, e := range a {
			if v := strings.TrimSpace(ex.get(e)); v != "" {
				set[v] = true
			}
		}
		if len(set) == 0 {
			continue
		}
		for _, e := range b {
			if v := strings.TrimSpace(ex.get(e)); v != "" && set[v] {
				return true, fmt.Sprintf("shared %s %s", ex.identType, v)
			}
		}
	}
	return false, ""
}

// FindPotentialDuplicates screens the catalog for works that look like the
// same book: title trigram similarity at or above 0.6, and author
// similarity at or above 0.5 when an author is known.
func FindPotentialDuplicates(ctx context.Context, deps MergeDeps, workID uuid.UUID, title, author string) ([]*types.Work, error) {
	if deps.DB == nil || deps.Log == nil || deps.Works == nil {
		return nil, fmt.Errorf("find_duplicates: missing deps")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.ErrInvalidArgument
	}

	prefix := normalizeText(title)
	if runes := []rune(prefix); len(runes) > 8 {
		prefix = string(runes[:8])
	}
	candidates, err := deps.Works.ListByTitlePrefix(ctx, nil, prefix, 200)
	if err != nil {
		return nil, err
	}

	matched := make([]*types.Work, 0)
	matchedIDs := make([]uuid.UUID, 0)
	for _, c := range candidates {
		if c.ID == workID {
			continue
		}
		if TrigramSimilarity(title, c.Title) < titleSimilarityThreshold {
			continue
		}
		matched = append(matched, c)
		matchedIDs = append(matchedIDs, c.ID)
	}
	if author == "" || len(matched) == 0 || deps.WorkAuthors == nil || deps.Authors == nil {
		return matched, nil
	}

	links, err := deps.WorkAuthors.GetByWorkIDs(ctx, nil, matchedIDs)
	if err != nil {
		return nil, err
	}
	authorIDs := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		authorIDs = append(authorIDs, l.AuthorID)
	}
	authors, err := deps.Authors.GetByIDs(ctx, nil, authorIDs)
	if err != nil {
		return nil, err
	}
	nameByID := map[uuid.UUID]string{}
	for _, a := range authors {
		nameByID[a.ID] = a.Name
	}
	namesByWork := map[uuid.UUID][]string{}
	for _, l := range links {
		if name := nameByID[l.AuthorID]; name != "" {
			namesByWork[l.WorkID] = append(namesByWork[l.WorkID], name)
		}
	}

	filtered := matched[:0]
	for _, c := range matched {
		names := namesByWork[c.ID]
		if len(names) == 0 {
			// No author on record is not evidence against a match.
			filtered = append(filtered, c)
			continue
		}
		for _, name := range names {
			if TrigramSimilarity(author, name) >= authorSimilarityThreshold {
				filtered = append(filtered, c)
				break
			}
		}
	}
	return filtered, nil
}

// MergeWorks collapses work `from` into work `to` in one transaction. Any
// failure rolls the whole merge back; no partial merge is ever durable.
func MergeWorks(ctx context.Context, deps MergeDeps, fromID, toID uuid.UUID, reason string) error {
	if deps.DB == nil || deps.Log == nil || deps.Works == nil || deps.Editions == nil ||
		deps.WorkAuthors == nil || deps.WorkSubjects == nil || deps.Events == nil ||
		deps.RatingStats == nil || deps.MergeLogs == nil {
		return fmt.Errorf("merge_works: missing deps")
	}
	if fromID == uuid.Nil || toID == uuid.Nil {
		return errors.ErrInvalidArgument
	}
	if fromID == toID {
		return errors.ErrSelfMerge
	}
	log := deps.Log.With("from_work_id", fromID, "to_work_id", toID)

	return deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		from, err := deps.Works.GetByID(ctx, tx, fromID)
		if err != nil {
			return err
		}
		to, err := deps.Works.GetByID(ctx, tx, toID)
		if err != nil {
			return err
		}
		if from == nil || to == nil {
			return errors.ErrNotFound
		}

		moved, err := deps.Editions.ReassignWorkID(ctx, tx, fromID, toID)
		if err != nil {
			return err
		}

		if err := reparentAuthorLinks(ctx, deps, tx, fromID, toID); err != nil {
			return err
		}
		if err := reparentSubjectLinks(ctx, deps, tx, fromID, toID); err != nil {
			return err
		}
		if err := reparentEvents(ctx, deps, tx, fromID, toID); err != nil {
			return err
		}
		if err := mergeRatingStats(ctx, deps, tx, fromID, toID); err != nil {
			return err
		}

		if deps.ResolverCach != nil {
			if err := deps.ResolverCach.RepointWork(ctx, tx, fromID, toID); err != nil {
				return err
			}
		}
		if deps.ResolverLogs != nil {
			if err := deps.ResolverLogs.RepointWork(ctx, tx, fromID, toID); err != nil {
				return err
			}
		}

		// Keep the richer metadata on the survivor.
		updates := map[string]interface{}{
			"is_stub":     false,
			"stub_reason": "",
		}
		if to.Description == "" && from.Description != "" {
			updates["description"] = from.Description
		}
		if to.PublishYear == 0 && from.PublishYear != 0 {
			updates["publish_year"] = from.PublishYear
		}
		if err := deps.Works.UpdateFields(ctx, tx, toID, updates); err != nil {
			return err
		}

		if err := deps.MergeLogs.Create(ctx, tx, &types.MergeLog{
			FromWorkID:    fromID,
			ToWorkID:      toID,
			Reason:        reason,
			EditionsMoved: int(moved),
		}); err != nil {
			return err
		}

		if err := deps.Works.SoftDeleteByID(ctx, tx, fromID); err != nil {
			return err
		}

		log.Info("works merged", "reason", reason, "editions_moved", moved)
		return nil
	})
}

func reparentAuthorLinks(ctx context.Context, deps MergeDeps, tx *gorm.DB, fromID, toID uuid.UUID) error {
	links, err := deps.WorkAuthors.GetByWorkID(ctx, tx, fromID)
	if err != nil {
		return err
	}
	moved := make([]*types.WorkAuthor, 0, len(links))
	for _, l := range links {
		moved = append(moved, &types.WorkAuthor{WorkID: toID, AuthorID: l.AuthorID, Role: l.Role})
	}
	if err := deps.WorkAuthors.CreateIgnoreDuplicates(ctx, tx, moved); err != nil {
		return err
	}
	return deps.WorkAuthors.DeleteByWorkID(ctx, tx, fromID)
}

func reparentSubjectLinks(ctx context.Context, deps MergeDeps, tx *gorm.DB, fromID, toID uuid.UUID) error {
	links, err := deps.WorkSubjects.GetByWorkID(ctx, tx, fromID)
	if err != nil {
		return err
	}
	moved := make([]*types.WorkSubject, 0, len(links))
	for _, l := range links {
		moved = append(moved, &types.WorkSubject{WorkID: toID, SubjectID: l.SubjectID})
	}
	if err := deps.WorkSubjects.CreateIgnoreDuplicates(ctx, tx, moved); err != nil {
		return err
	}
	return deps.WorkSubjects.DeleteByWorkID(ctx, tx, fromID)
}

// reparentEvents moves the from-work's events onto the target. When a user
// already has an event for the target from the same source, the duplicate
// is collapsed deterministically: the most recent completion wins.
func reparentEvents(ctx context.Context, deps MergeDeps, tx *gorm.DB, fromID, toID uuid.UUID) error {
	fromEvents, err := deps.Events.GetByWorkID(ctx, tx, fromID)
	if err != nil {
		return err
	}
	if len(fromEvents) == 0 {
		return nil
	}
	toEvents, err := deps.Events.GetByWorkID(ctx, tx, toID)
	if err != nil {
		return err
	}
	type slot struct{ userID, source string }
	existing := map[slot]*types.UserBookEvent{}
	for _, ev := range toEvents {
		existing[slot{ev.UserID.String(), ev.Source}] = ev
	}

	var discard []uuid.UUID
	for i, ev := range fromEvents {
		kept := existing[slot{ev.UserID.String(), ev.Source}]
		if kept == nil {
			// Soft-deleted target events are invisible to the precheck but
			// still occupy the unique index, so the move runs under a
			// savepoint: a violation rolls back just this statement and the
			// duplicate is discarded, not the whole merge.
			sp := fmt.Sprintf("reparent_event_%d", i)
			if err := tx.SavePoint(sp).Error; err != nil {
				return err
			}
			if err := deps.Events.UpdateWorkID(ctx, tx, ev.ID, toID); err != nil {
				if isUniqueViolation(err) {
					if err := tx.RollbackTo(sp).Error; err != nil {
						return err
					}
					discard = append(discard, ev.ID)
					continue
				}
				return err
			}
			continue
		}
		if completedAfter(ev, kept) {
			updates := map[string]interface{}{
				"shelf": ev.Shelf,
			}
			if ev.Rating != nil {
				updates["rating"] = *ev.Rating
			}
			if ev.CompletedAt != nil {
				updates["completed_at"] = *ev.CompletedAt
			}
			if err := deps.Events.UpdateFields(ctx, tx, kept.ID, updates); err != nil {
				return err
			}
		}
		discard = append(discard, ev.ID)
	}
	return deps.Events.FullDeleteByIDs(ctx, tx, discard)
}

func completedAfter(a, b *types.UserBookEvent) bool {
	if a.CompletedAt == nil {
		return false
	}
	if b.CompletedAt == nil {
		return true
	}
	return a.CompletedAt.After(*b.CompletedAt)
}

// mergeRatingStats folds the from-work's per-source aggregates into the
// target, keeping the newer row per source.
func mergeRatingStats(ctx context.Context, deps MergeDeps, tx *gorm.DB, fromID, toID uuid.UUID) error {
	fromStats, err := deps.RatingStats.GetByWorkID(ctx, tx, fromID)
	if err != nil {
		return err
	}
	if len(fromStats) == 0 {
		return nil
	}
	toStats, err := deps.RatingStats.GetByWorkID(ctx, tx, toID)
	if err != nil {
		return err
	}
	bySource := map[string]*types.RatingStat{}
	for _, s := range toStats {
		bySource[s.Source] = s
	}
	for _, s := range fromStats {
		kept := bySource[s.Source]
		if kept != nil && !s.LastUpdated.After(kept.LastUpdated) {
			continue
		}
		if err := deps.RatingStats.Upsert(ctx, tx, &types.RatingStat{
			WorkID:      toID,
			Source:      s.Source,
			Avg:         s.Avg,
			Count:       s.Count,
			LastUpdated: s.LastUpdated,
		}); err != nil {
			return err
		}
	}
	return deps.RatingStats.DeleteByWorkID(ctx, tx, fromID)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
