package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
	"github.com/yungbote/shelfsignal-backend/internal/platform/neo4jdb"
)

// EdgeLoadResult reports how a best-effort edge batch landed: edges whose
// endpoints were missing are skipped and counted, never failed.
type EdgeLoadResult struct {
	Submitted int
	Inserted  int
	Skipped   int
}

// WroteEdge links an author node to a work node.
type WroteEdge struct {
	AuthorID uuid.UUID
	WorkID   uuid.UUID
}

// SubjectEdge links a work node to a subject node.
type SubjectEdge struct {
	WorkID    uuid.UUID
	SubjectID uuid.UUID
}

func EnsureCatalogSchema(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) {
	if client == nil || client.Driver == nil {
		return
	}
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	// Best-effort; may fail for restricted users.
	stmts := []string{
		`CREATE CONSTRAINT work_id_unique IF NOT EXISTS FOR (w:Work) REQUIRE w.id IS UNIQUE`,
		`CREATE CONSTRAINT author_id_unique IF NOT EXISTS FOR (a:Author) REQUIRE a.id IS UNIQUE`,
		`CREATE CONSTRAINT subject_id_unique IF NOT EXISTS FOR (s:Subject) REQUIRE s.id IS UNIQUE`,
	}
	for _, stmt := range stmts {
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

// ClearCatalogGraph removes all catalog nodes and their edges ahead of a
// full rebuild.
func ClearCatalogGraph(ctx context.Context, client *neo4jdb.Client) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (n) WHERE n:Work OR n:Author OR n:Subject DETACH DELETE n`, nil)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func UpsertWorkNodes(ctx context.Context, client *neo4jdb.Client, works []*types.Work) error {
	if client == nil || client.Driver == nil || len(works) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	nodes := make([]map[string]any, 0, len(works))
	for _, w := range works {
		if w == nil || w.ID == uuid.Nil {
			continue
		}
		nodes = append(nodes, map[string]any{
			"id":           w.ID.String(),
			"title":        w.Title,
			"series_name":  w.SeriesName,
			"publish_year": int64(w.PublishYear),
			"synced_at":    now,
		})
	}
	return runWrite(ctx, client, `
UNWIND $nodes AS n
MERGE (w:Work {id: n.id})
SET w += n
`, map[string]any{"nodes": nodes})
}

func UpsertAuthorNodes(ctx context.Context, client *neo4jdb.Client, authors []*types.Author) error {
	if client == nil || client.Driver == nil || len(authors) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	nodes := make([]map[string]any, 0, len(authors))
	for _, a := range authors {
		if a == nil || a.ID == uuid.Nil {
			continue
		}
		nodes = append(nodes, map[string]any{
			"id":        a.ID.String(),
			"name":      a.Name,
			"synced_at": now,
		})
	}
	return runWrite(ctx, client, `
UNWIND $nodes AS n
MERGE (a:Author {id: n.id})
SET a += n
`, map[string]any{"nodes": nodes})
}

func UpsertSubjectNodes(ctx context.Context, client *neo4jdb.Client, subjects []*types.Subject) error {
	if client == nil || client.Driver == nil || len(subjects) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	nodes := make([]map[string]any, 0, len(subjects))
	for _, s := range subjects {
		if s == nil || s.ID == uuid.Nil {
			continue
		}
		nodes = append(nodes, map[string]any{
			"id":        s.ID.String(),
			"name":      s.Name,
			"synced_at": now,
		})
	}
	return runWrite(ctx, client, `
UNWIND $nodes AS n
MERGE (s:Subject {id: n.id})
SET s += n
`, map[string]any{"nodes": nodes})
}

// UpsertWroteEdges merges WROTE edges. Edges whose endpoints have not been
// loaded match nothing and are reported as skipped.
func UpsertWroteEdges(ctx context.Context, client *neo4jdb.Client, edges []WroteEdge) (EdgeLoadResult, error) {
	out := EdgeLoadResult{Submitted: len(edges)}
	if client == nil || client.Driver == nil || len(edges) == 0 {
		return out, nil
	}
	rels := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		if e.AuthorID == uuid.Nil || e.WorkID == uuid.Nil {
			continue
		}
		rels = append(rels, map[string]any{
			"author_id": e.AuthorID.String(),
			"work_id":   e.WorkID.String(),
		})
	}
	inserted, err := runEdgeWrite(ctx, client, `
UNWIND $rels AS r
MATCH (a:Author {id: r.author_id})
MATCH (w:Work {id: r.work_id})
MERGE (a)-[e:WROTE]->(w)
RETURN count(e) AS n
`, map[string]any{"rels": rels})
	if err != nil {
		return out, err
	}
	out.Inserted = inserted
	out.Skipped = out.Submitted - inserted
	return out, nil
}

// UpsertSubjectEdges merges HAS_SUBJECT edges with the same skip semantics
// as UpsertWroteEdges.
func UpsertSubjectEdges(ctx context.Context, client *neo4jdb.Client, edges []SubjectEdge) (EdgeLoadResult, error) {
	out := EdgeLoadResult{Submitted: len(edges)}
	if client == nil || client.Driver == nil || len(edges) == 0 {
		return out, nil
	}
	rels := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		if e.WorkID == uuid.Nil || e.SubjectID == uuid.Nil {
			continue
		}
		rels = append(rels, map[string]any{
			"work_id":    e.WorkID.String(),
			"subject_id": e.SubjectID.String(),
		})
	}
	inserted, err := runEdgeWrite(ctx, client, `
UNWIND $rels AS r
MATCH (w:Work {id: r.work_id})
MATCH (s:Subject {id: r.subject_id})
MERGE (w)-[e:HAS_SUBJECT]->(s)
RETURN count(e) AS n
`, map[string]any{"rels": rels})
	if err != nil {
		return out, err
	}
	out.Inserted = inserted
	out.Skipped = out.Submitted - inserted
	return out, nil
}

// FetchWorkAuthorAdjacency returns work id -> author ids for the whole
// graph in one read, so feature computation never queries per candidate.
func FetchWorkAuthorAdjacency(ctx context.Context, client *neo4jdb.Client) (map[string][]string, error) {
	return fetchAdjacency(ctx, client, `
MATCH (a:Author)-[:WROTE]->(w:Work)
RETURN w.id AS from_id, a.id AS to_id
`)
}

// FetchWorkSubjectAdjacency returns work id -> subject ids in one read.
func FetchWorkSubjectAdjacency(ctx context.Context, client *neo4jdb.Client) (map[string][]string, error) {
	return fetchAdjacency(ctx, client, `
MATCH (w:Work)-[:HAS_SUBJECT]->(s:Subject)
RETURN w.id AS from_id, s.id AS to_id
`)
}

// KHopWorkNeighbors walks up to k hops over WROTE/HAS_SUBJECT edges in
// either direction and returns the distinct work ids reached.
func KHopWorkNeighbors(ctx context.Context, client *neo4jdb.Client, workID uuid.UUID, k, limit int) ([]string, error) {
	if client == nil || client.Driver == nil || workID == uuid.Nil {
		return nil, nil
	}
	if k <= 0 {
		k = 2
	}
	if limit <= 0 {
		limit = 100
	}
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	query := fmt.Sprintf(`
MATCH (w:Work {id: $id})-[:WROTE|HAS_SUBJECT*1..%d]-(n:Work)
WHERE n.id <> $id
RETURN DISTINCT n.id AS id
LIMIT $limit
`, k*2)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"id": workID.String(), "limit": limit})
		if err != nil {
			return nil, err
		}
		var ids []string
		for res.Next(ctx) {
			rec := res.Record()
			if v, ok := rec.Get("id"); ok {
				if s, ok := v.(string); ok {
					ids = append(ids, s)
				}
			}
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, err
	}
	ids, _ := rows.([]string)
	return ids, nil
}

func runWrite(ctx context.Context, client *neo4jdb.Client, query string, params map[string]any) error {
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func runEdgeWrite(ctx context.Context, client *neo4jdb.Client, query string, params map[string]any) (int, error) {
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	n, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		count := 0
		if res.Next(ctx) {
			if v, ok := res.Record().Get("n"); ok {
				if c, ok := v.(int64); ok {
					count = int(c)
				}
			}
		}
		return count, res.Err()
	})
	if err != nil {
		return 0, err
	}
	count, _ := n.(int)
	return count, nil
}

func fetchAdjacency(ctx context.Context, client *neo4jdb.Client, query string) (map[string][]string, error) {
	if client == nil || client.Driver == nil {
		return map[string][]string{}, nil
	}
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		adj := map[string][]string{}
		for res.Next(ctx) {
			rec := res.Record()
			fromV, ok1 := rec.Get("from_id")
			toV, ok2 := rec.Get("to_id")
			if !ok1 || !ok2 {
				continue
			}
			from, ok1 := fromV.(string)
			to, ok2 := toV.(string)
			if !ok1 || !ok2 {
				continue
			}
			adj[from] = append(adj[from], to)
		}
		return adj, res.Err()
	})
	if err != nil {
		return nil, err
	}
	adj, _ := out.(map[string][]string)
	return adj, nil
}
