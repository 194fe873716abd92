package steps

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
	"github.com/yungbote/shelfsignal-backend/internal/utils"
)

type CooccurrenceBuildDeps struct {
	DB            *gorm.DB
	Log           *logger.Logger
	ListItems     repos.BookListItemRepo
	WorkAuthors   repos.WorkAuthorRepo
	Cooccurrences repos.CooccurrenceRepo

	MinLists   int // works must appear in at least this many lists
	MinOverlap int // pairs below this overlap are never written
	TopK       int // neighbors kept per key after pruning
}

type CooccurrenceBuildOutput struct {
	ListPairs   int `json:"list_pairs"`
	AuthorPairs int `json:"author_pairs"`
	Pruned      int `json:"pruned"`
}

// pairStat accumulates co-occurrence evidence for one unordered pair.
type pairStat struct {
	keyA, keyB string
	overlap    int
	countA     int
	countB     int
	jaccard    float64
}

// BuildCooccurrence runs the list pass then the author pass, writing both
// directions of every pair with MAX-merge semantics, then prunes each key's
// neighbor list to the top K by jaccard.
func BuildCooccurrence(ctx context.Context, deps CooccurrenceBuildDeps) (CooccurrenceBuildOutput, error) {
	out := CooccurrenceBuildOutput{}
	if deps.DB == nil || deps.Log == nil || deps.ListItems == nil || deps.WorkAuthors == nil || deps.Cooccurrences == nil {
		return out, fmt.Errorf("cooccurrence_build: missing deps")
	}
	minLists := deps.MinLists
	if minLists <= 0 {
		minLists = 2
	}
	minOverlap := deps.MinOverlap
	if minOverlap <= 0 {
		minOverlap = 1
	}
	topK := deps.TopK
	if topK <= 0 {
		topK = 50
	}
	authorScale := utils.GetEnvAsFloat("COOC_AUTHOR_JACCARD_SCALE", 5.0, deps.Log)

	listPairs, err := buildListPairs(ctx, deps, minLists)
	if err != nil {
		return out, err
	}
	listPairs = filterByOverlap(listPairs, minOverlap)
	if err := writePairs(ctx, deps, listPairs, types.CooccurrenceSourceList); err != nil {
		return out, err
	}
	out.ListPairs = len(listPairs)

	authorPairs, err := buildAuthorPairs(ctx, deps, authorScale)
	if err != nil {
		return out, err
	}
	authorPairs = filterByOverlap(authorPairs, minOverlap)
	if err := writePairs(ctx, deps, authorPairs, types.CooccurrenceSourceAuthor); err != nil {
		return out, err
	}
	out.AuthorPairs = len(authorPairs)

	pruned, err := pruneNeighbors(ctx, deps, topK)
	if err != nil {
		return out, err
	}
	out.Pruned = pruned

	deps.Log.Info("cooccurrence build complete",
		"list_pairs", out.ListPairs,
		"author_pairs", out.AuthorPairs,
		"pruned", out.Pruned,
	)
	return out, nil
}

func buildListPairs(ctx context.Context, deps CooccurrenceBuildDeps, minLists int) ([]pairStat, error) {
	const page = 5000
	groups := map[string][]string{}
	for offset := 0; ; offset += page {
		items, err := deps.ListItems.ListPage(ctx, nil, offset, page)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		for _, it := range items {
			groups[it.ListID.String()] = append(groups[it.ListID.String()], it.WorkID.String())
		}
	}
	return pairsFromGroups(groups, minLists, 1.0), nil
}

func buildAuthorPairs(ctx context.Context, deps CooccurrenceBuildDeps, scale float64) ([]pairStat, error) {
	// Prolific authors dilute the signal and explode the pair join; very
	// sparse ones carry none.
	counts, err := deps.WorkAuthors.AuthorWorkCounts(ctx, nil, 2, 100)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, nil
	}
	groups := map[string][]string{}
	const chunk = 200
	for start := 0; start < len(counts); start += chunk {
		end := start + chunk
		if end > len(counts) {
			end = len(counts)
		}
		authorIDs := make([]uuid.UUID, 0, end-start)
		for _, c := range counts[start:end] {
			authorIDs = append(authorIDs, c.AuthorID)
		}
		links, err := deps.WorkAuthors.GetByAuthorIDs(ctx, nil, authorIDs)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			groups[l.AuthorID.String()] = append(groups[l.AuthorID.String()], l.WorkID.String())
		}
	}
	return pairsFromGroups(groups, 1, scale), nil
}

// pairsFromGroups derives co-occurrence pairs from group membership: works
// in the same group co-occur. Works must belong to at least minGroups
// groups to be considered. Jaccard is scaled by the given factor and
// capped at 1.0.
func pairsFromGroups(groups map[string][]string, minGroups int, scale float64) []pairStat {
	memberGroups := map[string]int{}
	for _, members := range groups {
		seen := map[string]bool{}
		for _, m := range members {
			if !seen[m] {
				seen[m] = true
				memberGroups[m]++
			}
		}
	}

	type pairKey struct{ a, b string }
	overlaps := map[pairKey]int{}
	for _, members := range groups {
		uniq := make([]string, 0, len(members))
		seen := map[string]bool{}
		for _, m := range members {
			if memberGroups[m] >= minGroups && !seen[m] {
				seen[m] = true
				uniq = append(uniq, m)
			}
		}
		sort.Strings(uniq)
		for i := 0; i < len(uniq); i++ {
			for j := i + 1; j < len(uniq); j++ {
				overlaps[pairKey{uniq[i], uniq[j]}]++
			}
		}
	}

	out := make([]pairStat, 0, len(overlaps))
	for k, overlap := range overlaps {
		ca := memberGroups[k.a]
		cb := memberGroups[k.b]
		union := ca + cb - overlap
		if union <= 0 {
			continue
		}
		j := scale * float64(overlap) / float64(union)
		if j > 1.0 {
			j = 1.0
		}
		out = append(out, pairStat{
			keyA:    k.a,
			keyB:    k.b,
			overlap: overlap,
			countA:  ca,
			countB:  cb,
			jaccard: j,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].keyA != out[j].keyA {
			return out[i].keyA < out[j].keyA
		}
		return out[i].keyB < out[j].keyB
	})
	return out
}

// filterByOverlap drops pairs whose overlap falls below the floor.
func filterByOverlap(pairs []pairStat, minOverlap int) []pairStat {
	if minOverlap <= 1 {
		return pairs
	}
	out := pairs[:0]
	for _, p := range pairs {
		if p.overlap >= minOverlap {
			out = append(out, p)
		}
	}
	return out
}

// writePairs persists both directions of each pair so neighbor lookups work
// either way with one indexed scan.
func writePairs(ctx context.Context, deps CooccurrenceBuildDeps, pairs []pairStat, source string) error {
	const batch = 500
	rows := make([]*types.Cooccurrence, 0, batch*2)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		if err := deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return deps.Cooccurrences.UpsertMaxBatch(ctx, tx, rows)
		}); err != nil {
			return err
		}
		rows = rows[:0]
		return nil
	}
	for _, p := range pairs {
		rows = append(rows,
			&types.Cooccurrence{KeyA: p.keyA, KeyB: p.keyB, Source: source, Overlap: p.overlap, Jaccard: p.jaccard, CountA: p.countA, CountB: p.countB},
			&types.Cooccurrence{KeyA: p.keyB, KeyB: p.keyA, Source: source, Overlap: p.overlap, Jaccard: p.jaccard, CountA: p.countB, CountB: p.countA},
		)
		if len(rows) >= batch*2 {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// neighborRow is the slice of a stored co-occurrence row that pruning
// decisions need.
type neighborRow struct {
	id      int64
	keyB    string
	jaccard float64
}

// pruneNeighbors trims each key's neighbor list to its top K by jaccard,
// keeping pair symmetry intact: a row survives if either direction of the
// pair ranks inside its key's top K.
func pruneNeighbors(ctx context.Context, deps CooccurrenceBuildDeps, topK int) (int, error) {
	const page = 1000
	byKey := map[string][]neighborRow{}
	for offset := 0; ; offset += page {
		keys, err := deps.Cooccurrences.ListDistinctKeysPage(ctx, nil, offset, page)
		if err != nil {
			return 0, err
		}
		if len(keys) == 0 {
			break
		}
		for _, key := range keys {
			rows, err := deps.Cooccurrences.GetByKey(ctx, nil, key)
			if err != nil {
				return 0, err
			}
			nrs := make([]neighborRow, 0, len(rows))
			for _, r := range rows {
				nrs = append(nrs, neighborRow{id: r.ID, keyB: r.KeyB, jaccard: r.Jaccard})
			}
			byKey[key] = nrs
		}
	}

	victims := selectPruneVictims(byKey, topK)
	const chunk = 500
	for start := 0; start < len(victims); start += chunk {
		end := start + chunk
		if end > len(victims) {
			end = len(victims)
		}
		if err := deps.Cooccurrences.DeleteByIDs(ctx, nil, victims[start:end]); err != nil {
			return 0, err
		}
	}
	return len(victims), nil
}

// selectPruneVictims returns the IDs of rows outside both directions' top K.
func selectPruneVictims(byKey map[string][]neighborRow, topK int) []int64 {
	kept := make(map[string]map[string]bool, len(byKey))
	for key, rows := range byKey {
		ranked := append([]neighborRow(nil), rows...)
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].jaccard != ranked[j].jaccard {
				return ranked[i].jaccard > ranked[j].jaccard
			}
			return ranked[i].keyB < ranked[j].keyB
		})
		if len(ranked) > topK {
			ranked = ranked[:topK]
		}
		set := make(map[string]bool, len(ranked))
		for _, r := range ranked {
			set[r.keyB] = true
		}
		kept[key] = set
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var victims []int64
	for _, key := range keys {
		for _, r := range byKey[key] {
			if kept[key][r.keyB] || kept[r.keyB][key] {
				continue
			}
			victims = append(victims, r.id)
		}
	}
	return victims
}
