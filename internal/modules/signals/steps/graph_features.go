package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/shelfsignal-backend/internal/data/graph"
	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
	"github.com/yungbote/shelfsignal-backend/internal/platform/neo4jdb"
)

type GraphFeaturesDeps struct {
	DB            *gorm.DB
	Log           *logger.Logger
	Neo           *neo4jdb.Client
	Works         repos.WorkRepo
	WorkAuthors   repos.WorkAuthorRepo
	WorkSubjects  repos.WorkSubjectRepo
	Events        repos.UserBookEventRepo
	GraphFeatures repos.GraphFeatureRepo
	CandidateCap  int
	BatchSize     int
}

type GraphFeaturesOutput struct {
	Candidates int `json:"candidates"`
}

// candidateSignals holds the favorite-derived sets one feature pass works
// against.
type candidateSignals struct {
	favoriteAuthors  map[string]bool
	favoriteSubjects map[string]bool
	readSeries       map[string]bool
}

// ComputeGraphFeatures derives structural affinity features for every work
// the user has not interacted with, relative to their favorites. Adjacency
// is fetched in two bulk reads up front; no per-candidate queries.
func ComputeGraphFeatures(ctx context.Context, deps GraphFeaturesDeps, userID uuid.UUID) (GraphFeaturesOutput, error) {
	out := GraphFeaturesOutput{}
	if deps.DB == nil || deps.Log == nil || deps.Works == nil || deps.WorkAuthors == nil ||
		deps.WorkSubjects == nil || deps.Events == nil || deps.GraphFeatures == nil {
		return out, fmt.Errorf("graph_features: missing deps")
	}
	if userID == uuid.Nil {
		return out, fmt.Errorf("graph_features: missing user_id")
	}
	candidateCap := deps.CandidateCap
	if candidateCap <= 0 {
		candidateCap = 20000
	}
	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	log := deps.Log.With("user_id", userID)

	events, err := deps.Events.GetByUserID(ctx, nil, userID)
	if err != nil {
		return out, err
	}
	interacted := map[uuid.UUID]bool{}
	favoriteIDs := []uuid.UUID{}
	readIDs := []uuid.UUID{}
	for _, ev := range events {
		interacted[ev.WorkID] = true
		if ev.Shelf != types.ShelfRead {
			continue
		}
		readIDs = append(readIDs, ev.WorkID)
		// A blocked work is never a favorite, rated or not.
		if ev.Blocked {
			continue
		}
		if ev.Rating == nil || *ev.Rating >= 4 {
			favoriteIDs = append(favoriteIDs, ev.WorkID)
		}
	}
	if len(favoriteIDs) == 0 {
		log.Warn("graph features: user has no favorites, nothing to compute")
		return out, nil
	}

	workAuthors, workSubjects, err := fetchAdjacency(ctx, deps)
	if err != nil {
		return out, err
	}

	sig := candidateSignals{
		favoriteAuthors:  map[string]bool{},
		favoriteSubjects: map[string]bool{},
		readSeries:       map[string]bool{},
	}
	for _, id := range favoriteIDs {
		key := id.String()
		for _, a := range workAuthors[key] {
			sig.favoriteAuthors[a] = true
		}
		for _, s := range workSubjects[key] {
			sig.favoriteSubjects[s] = true
		}
	}
	readWorks, err := deps.Works.GetByIDs(ctx, nil, readIDs)
	if err != nil {
		return out, err
	}
	for _, w := range readWorks {
		if w.SeriesName != "" {
			sig.readSeries[w.SeriesName] = true
		}
	}

	communities := labelPropagation(sharedAuthorProjection(workAuthors))

	rows := make([]*types.GraphFeature, 0, batchSize)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		if err := deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return deps.GraphFeatures.UpsertBatch(ctx, tx, rows)
		}); err != nil {
			return err
		}
		out.Candidates += len(rows)
		rows = rows[:0]
		return nil
	}

	seen := 0
	for offset := 0; seen < candidateCap; offset += batchSize {
		works, err := deps.Works.ListPage(ctx, nil, offset, batchSize)
		if err != nil {
			return out, err
		}
		if len(works) == 0 {
			break
		}
		for _, w := range works {
			if interacted[w.ID] {
				continue
			}
			if seen >= candidateCap {
				break
			}
			seen++
			key := w.ID.String()
			f := candidateFeatures(w, workAuthors[key], workSubjects[key], sig)
			f.UserID = userID
			f.CommunityID = communities[key]
			rows = append(rows, f)
		}
		if len(rows) >= batchSize {
			if err := flush(); err != nil {
				return out, err
			}
		}
	}
	if err := flush(); err != nil {
		return out, err
	}

	log.Info("graph features computed", "candidates", out.Candidates, "favorites", len(favoriteIDs))
	return out, nil
}

// fetchAdjacency prefers the graph store; without one it falls back to the
// relational link tables, paging through them once.
func fetchAdjacency(ctx context.Context, deps GraphFeaturesDeps) (map[string][]string, map[string][]string, error) {
	if deps.Neo != nil && deps.Neo.Driver != nil {
		workAuthors, err := graph.FetchWorkAuthorAdjacency(ctx, deps.Neo)
		if err != nil {
			return nil, nil, err
		}
		workSubjects, err := graph.FetchWorkSubjectAdjacency(ctx, deps.Neo)
		if err != nil {
			return nil, nil, err
		}
		return workAuthors, workSubjects, nil
	}

	const page = 5000
	workAuthors := map[string][]string{}
	for offset := 0; ; offset += page {
		links, err := deps.WorkAuthors.ListPage(ctx, nil, offset, page)
		if err != nil {
			return nil, nil, err
		}
		if len(links) == 0 {
			break
		}
		for _, l := range links {
			workAuthors[l.WorkID.String()] = append(workAuthors[l.WorkID.String()], l.AuthorID.String())
		}
	}
	workSubjects := map[string][]string{}
	for offset := 0; ; offset += page {
		links, err := deps.WorkSubjects.ListPage(ctx, nil, offset, page)
		if err != nil {
			return nil, nil, err
		}
		if len(links) == 0 {
			break
		}
		for _, l := range links {
			workSubjects[l.WorkID.String()] = append(workSubjects[l.WorkID.String()], l.SubjectID.String())
		}
	}
	return workAuthors, workSubjects, nil
}

// candidateFeatures scores one candidate against the favorite sets.
// Authorless candidates get zero author affinity, not an error.
func candidateFeatures(w *types.Work, authors, subjects []string, sig candidateSignals) *types.GraphFeature {
	f := &types.GraphFeature{WorkID: w.ID}

	if len(authors) > 0 {
		hits := 0
		for _, a := range authors {
			if sig.favoriteAuthors[a] {
				hits++
			}
		}
		f.AuthorAffinity = float64(hits) / float64(len(authors))
	}

	f.SubjectOverlap = jaccardStrings(subjects, sig.favoriteSubjects)

	if w.SeriesName != "" && sig.readSeries[w.SeriesName] {
		f.SameSeries = true
	}

	f.ProxScore = (f.AuthorAffinity + f.SubjectOverlap) / 2
	return f
}

func jaccardStrings(items []string, set map[string]bool) float64 {
	if len(items) == 0 || len(set) == 0 {
		return 0
	}
	inter := 0
	seen := map[string]bool{}
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		if set[it] {
			inter++
		}
	}
	union := len(seen) + len(set) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
