package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	types "github.com/yungbote/shelfsignal-backend/internal/domain"
	"github.com/yungbote/shelfsignal-backend/internal/modules/signals"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type QualityBlendDeps struct {
	DB          *gorm.DB
	Log         *logger.Logger
	RatingStats repos.RatingStatRepo
	WorkQuality repos.WorkQualityRepo
	BatchSize   int
}

type QualityBlendOutput struct {
	WorksScored int `json:"works_scored"`
}

// ComputeWorkQuality blends per-source rating aggregates into one calibrated
// score per work. Works with no ratings get no row; each batch commits in
// its own transaction so a mid-run failure loses at most one batch.
func ComputeWorkQuality(ctx context.Context, deps QualityBlendDeps) (QualityBlendOutput, error) {
	out := QualityBlendOutput{}
	if deps.DB == nil || deps.Log == nil || deps.RatingStats == nil || deps.WorkQuality == nil {
		return out, fmt.Errorf("quality_blend: missing deps")
	}
	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	total, err := deps.RatingStats.CountDistinctWorks(ctx, nil)
	if err != nil {
		return out, err
	}
	if total == 0 {
		deps.Log.Warn("quality blend: no rating stats present")
		return out, nil
	}

	for offset := 0; ; offset += batchSize {
		workIDs, err := deps.RatingStats.ListWorkIDsPage(ctx, nil, offset, batchSize)
		if err != nil {
			return out, err
		}
		if len(workIDs) == 0 {
			break
		}

		stats, err := deps.RatingStats.GetByWorkIDs(ctx, nil, workIDs)
		if err != nil {
			return out, err
		}
		byWork := map[uuid.UUID][]signals.RatingInput{}
		for _, s := range stats {
			byWork[s.WorkID] = append(byWork[s.WorkID], signals.RatingInput{
				Source: s.Source,
				Avg:    s.Avg,
				Count:  s.Count,
			})
		}

		rows := make([]*types.WorkQuality, 0, len(byWork))
		for workID, inputs := range byWork {
			avg, wilson, count := signals.BlendRatings(inputs)
			if count == 0 {
				continue
			}
			rows = append(rows, &types.WorkQuality{
				WorkID:        workID,
				BlendedAvg:    avg,
				BlendedWilson: wilson,
				TotalRatings:  count,
			})
		}
		if len(rows) == 0 {
			continue
		}

		if err := deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return deps.WorkQuality.UpsertBatch(ctx, tx, rows)
		}); err != nil {
			return out, err
		}
		out.WorksScored += len(rows)
		deps.Log.Info("quality blend batch committed", "offset", offset, "works", len(rows))
	}

	deps.Log.Info("quality blend complete", "works_scored", out.WorksScored, "works_total", total)
	return out, nil
}
