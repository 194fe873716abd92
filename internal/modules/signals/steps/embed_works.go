package steps

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/platform/embedding"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type EmbedWorksDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Works    repos.WorkRepo
	Embedder embedding.Client

	BatchSize   int
	Parallelism int
}

type EmbedWorksOutput struct {
	Embedded int `json:"embedded"`
	Skipped  int `json:"skipped"`
}

// BackfillWorkEmbeddings embeds works that have a description but no vector
// yet. Batches run concurrently under a bounded errgroup; works without
// usable text are skipped, not failed.
func BackfillWorkEmbeddings(ctx context.Context, deps EmbedWorksDeps) (EmbedWorksOutput, error) {
	out := EmbedWorksOutput{}
	if deps.DB == nil || deps.Log == nil || deps.Works == nil {
		return out, fmt.Errorf("embed_works: missing deps")
	}
	if deps.Embedder == nil {
		deps.Log.Warn("embedding client not configured, skipping backfill")
		return out, nil
	}
	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}
	parallelism := deps.Parallelism
	if parallelism <= 0 {
		parallelism = 4
	}

	for {
		pending, err := deps.Works.ListMissingEmbedding(ctx, nil, batchSize*parallelism)
		if err != nil {
			return out, err
		}
		embeddable := pending[:0]
		for _, w := range pending {
			if embedText(w) == "" {
				out.Skipped++
				continue
			}
			embeddable = append(embeddable, w)
		}
		if len(embeddable) == 0 {
			break
		}

		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(parallelism)
		for start := 0; start < len(embeddable); start += batchSize {
			end := start + batchSize
			if end > len(embeddable) {
				end = len(embeddable)
			}
			batch := embeddable[start:end]
			g.Go(func() error {
				texts := make([]string, len(batch))
				for i, w := range batch {
					texts[i] = embedText(w)
				}
				vectors, err := deps.Embedder.Embed(gctx, texts)
				if err != nil {
					return err
				}
				if len(vectors) != len(batch) {
					return fmt.Errorf("embed_works: got %d vectors for %d texts", len(vectors), len(batch))
				}
				for i, w := range batch {
					if err := w.SetEmbeddingVector(vectors[i]); err != nil {
						return err
					}
					if err := deps.Works.UpdateFields(gctx, nil, w.ID, map[string]interface{}{
						"embedding": w.Embedding,
					}); err != nil {
						return err
					}
				}
				mu.Lock()
				out.Embedded += len(batch)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return out, err
		}
		deps.Log.Info("embedding backfill progress", "embedded", out.Embedded, "skipped", out.Skipped)

		if len(pending) < batchSize*parallelism {
			break
		}
	}

	deps.Log.Info("embedding backfill complete", "embedded", out.Embedded, "skipped", out.Skipped)
	return out, nil
}

func embedText(w *types.Work) string {
	desc := strings.TrimSpace(w.Description)
	if desc == "" {
		return ""
	}
	title := strings.TrimSpace(w.Title)
	if title == "" {
		return desc
	}
	return title + "\n" + desc
}
