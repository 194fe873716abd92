package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/shelfsignal-backend/internal/clients/rediscache"
	"github.com/yungbote/shelfsignal-backend/internal/data/graph"
	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
	"github.com/yungbote/shelfsignal-backend/internal/platform/neo4jdb"
)

type SimilarQueryDeps struct {
	DB            *gorm.DB
	Log           *logger.Logger
	Neo           *neo4jdb.Client
	Cooccurrences repos.CooccurrenceRepo
	Events        repos.UserBookEventRepo
	Cache         rediscache.SimilarCache
}

// GetSimilar returns the best co-occurrence neighbors for an item, tiered
// by signal strength: list co-membership first, shared authorship second,
// and a real-time co-read scan as the last resort. Results are cached.
func GetSimilar(ctx context.Context, deps SimilarQueryDeps, itemKey string, limit int) ([]rediscache.Neighbor, error) {
	if deps.DB == nil || deps.Log == nil || deps.Cooccurrences == nil || deps.Events == nil {
		return nil, fmt.Errorf("similar_query: missing deps")
	}
	if itemKey == "" {
		return nil, fmt.Errorf("similar_query: missing item key")
	}
	if limit <= 0 {
		limit = 20
	}

	if deps.Cache != nil {
		if cached, ok := deps.Cache.Get(ctx, itemKey, limit); ok {
			return cached, nil
		}
	}

	// Tier 1: list co-membership, the strongest evidence. Each tier below
	// fires only when everything above it came back empty; a weaker signal
	// never dilutes a stronger one.
	rows, err := deps.Cooccurrences.GetNeighbors(ctx, nil, itemKey, types.CooccurrenceSourceList, 2, limit)
	if err != nil {
		return nil, err
	}

	// Tier 2: shared authorship.
	if len(rows) == 0 {
		rows, err = deps.Cooccurrences.GetNeighbors(ctx, nil, itemKey, types.CooccurrenceSourceAuthor, 1, limit)
		if err != nil {
			return nil, err
		}
	}

	out := make([]rediscache.Neighbor, 0, limit)
	for _, r := range rows {
		out = append(out, rediscache.Neighbor{
			Key:     r.KeyB,
			Jaccard: r.Jaccard,
			Overlap: r.Overlap,
			Source:  r.Source,
		})
	}

	// Tier 3: live co-read scan, only when the precomputed table had nothing.
	if len(out) == 0 {
		if workID, err := uuid.Parse(itemKey); err == nil {
			coRead, err := deps.Events.CoReadNeighbors(ctx, nil, workID, limit)
			if err != nil {
				return nil, err
			}
			for _, n := range coRead {
				key := n.WorkID.String()
				if key == itemKey {
					continue
				}
				out = append(out, rediscache.Neighbor{
					Key:     key,
					Overlap: n.Readers,
					Source:  "co-read",
				})
			}
		}
	}

	// Tier 4: structural graph proximity, when a graph store is wired and
	// every relational tier struck out.
	if len(out) == 0 && deps.Neo != nil {
		if workID, err := uuid.Parse(itemKey); err == nil {
			hops, err := graph.KHopWorkNeighbors(ctx, deps.Neo, workID, 2, limit)
			if err != nil {
				return nil, err
			}
			for _, key := range hops {
				if key == itemKey {
					continue
				}
				out = append(out, rediscache.Neighbor{Key: key, Source: "graph"})
			}
		}
	}

	if len(out) == 0 {
		deps.Log.Warn("no neighbors found for item", "item_key", itemKey)
	}
	if deps.Cache != nil {
		deps.Cache.Set(ctx, itemKey, limit, out)
	}
	return out, nil
}
