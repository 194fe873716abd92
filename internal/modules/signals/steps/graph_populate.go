package steps

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/shelfsignal-backend/internal/data/graph"
	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
	"github.com/yungbote/shelfsignal-backend/internal/platform/neo4jdb"
)

type GraphPopulateDeps struct {
	DB           *gorm.DB
	Log          *logger.Logger
	Neo          *neo4jdb.Client
	Works        repos.WorkRepo
	Authors      repos.AuthorRepo
	Subjects     repos.SubjectRepo
	WorkAuthors  repos.WorkAuthorRepo
	WorkSubjects repos.WorkSubjectRepo
	BatchSize    int
}

type GraphPopulateOutput struct {
	Works        int `json:"works"`
	Authors      int `json:"authors"`
	Subjects     int `json:"subjects"`
	EdgesLoaded  int `json:"edges_loaded"`
	EdgesSkipped int `json:"edges_skipped"`
}

// PopulateGraph rebuilds the catalog graph from scratch: clear, then nodes,
// then edges, all in fixed-size batches. Edges with missing endpoints are
// skipped and counted rather than failing the batch.
func PopulateGraph(ctx context.Context, deps GraphPopulateDeps) (GraphPopulateOutput, error) {
	out := GraphPopulateOutput{}
	if deps.DB == nil || deps.Log == nil || deps.Works == nil || deps.Authors == nil ||
		deps.Subjects == nil || deps.WorkAuthors == nil || deps.WorkSubjects == nil {
		return out, fmt.Errorf("graph_populate: missing deps")
	}
	if deps.Neo == nil {
		deps.Log.Warn("graph populate: neo4j not configured, skipping")
		return out, nil
	}
	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	graph.EnsureCatalogSchema(ctx, deps.Neo, deps.Log)
	if err := graph.ClearCatalogGraph(ctx, deps.Neo); err != nil {
		return out, err
	}

	for offset := 0; ; offset += batchSize {
		works, err := deps.Works.ListPage(ctx, nil, offset, batchSize)
		if err != nil {
			return out, err
		}
		if len(works) == 0 {
			break
		}
		if err := graph.UpsertWorkNodes(ctx, deps.Neo, works); err != nil {
			return out, err
		}
		out.Works += len(works)
	}

	for offset := 0; ; offset += batchSize {
		authors, err := deps.Authors.ListPage(ctx, nil, offset, batchSize)
		if err != nil {
			return out, err
		}
		if len(authors) == 0 {
			break
		}
		if err := graph.UpsertAuthorNodes(ctx, deps.Neo, authors); err != nil {
			return out, err
		}
		out.Authors += len(authors)
	}

	for offset := 0; ; offset += batchSize {
		subjects, err := deps.Subjects.ListPage(ctx, nil, offset, batchSize)
		if err != nil {
			return out, err
		}
		if len(subjects) == 0 {
			break
		}
		if err := graph.UpsertSubjectNodes(ctx, deps.Neo, subjects); err != nil {
			return out, err
		}
		out.Subjects += len(subjects)
	}

	for offset := 0; ; offset += batchSize {
		links, err := deps.WorkAuthors.ListPage(ctx, nil, offset, batchSize)
		if err != nil {
			return out, err
		}
		if len(links) == 0 {
			break
		}
		edges := make([]graph.WroteEdge, 0, len(links))
		for _, l := range links {
			edges = append(edges, graph.WroteEdge{AuthorID: l.AuthorID, WorkID: l.WorkID})
		}
		res, err := graph.UpsertWroteEdges(ctx, deps.Neo, edges)
		if err != nil {
			return out, err
		}
		out.EdgesLoaded += res.Inserted
		out.EdgesSkipped += res.Skipped
		if res.Skipped > 0 {
			deps.Log.Warn("wrote edges skipped missing endpoints", "skipped", res.Skipped, "offset", offset)
		}
	}

	for offset := 0; ; offset += batchSize {
		links, err := deps.WorkSubjects.ListPage(ctx, nil, offset, batchSize)
		if err != nil {
			return out, err
		}
		if len(links) == 0 {
			break
		}
		edges := make([]graph.SubjectEdge, 0, len(links))
		for _, l := range links {
			edges = append(edges, graph.SubjectEdge{WorkID: l.WorkID, SubjectID: l.SubjectID})
		}
		res, err := graph.UpsertSubjectEdges(ctx, deps.Neo, edges)
		if err != nil {
			return out, err
		}
		out.EdgesLoaded += res.Inserted
		out.EdgesSkipped += res.Skipped
		if res.Skipped > 0 {
			deps.Log.Warn("subject edges skipped missing endpoints", "skipped", res.Skipped, "offset", offset)
		}
	}

	deps.Log.Info("graph populate complete",
		"works", out.Works,
		"authors", out.Authors,
		"subjects", out.Subjects,
		"edges_loaded", out.EdgesLoaded,
		"edges_skipped", out.EdgesSkipped,
	)
	return out, nil
}
