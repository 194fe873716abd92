package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ResolveSweepOutput struct {
	StubsScanned int `json:"stubs_scanned"`
	Merged       int `json:"merged"`
}

type mergeProposal struct {
	fromID uuid.UUID
	toID   uuid.UUID
	reason string
}

// ResolveSweep opportunistically collapses stub works into the canonical
// catalog. Candidate discovery fans out under a bounded errgroup; the
// merges themselves run sequentially since each one mutates shared rows.
func ResolveSweep(ctx context.Context, deps MergeDeps, parallelism, stubLimit int) (ResolveSweepOutput, error) {
	out := ResolveSweepOutput{}
	if deps.DB == nil || deps.Log == nil || deps.Works == nil || deps.Editions == nil {
		return out, fmt.Errorf("resolve_sweep: missing deps")
	}
	if parallelism <= 0 {
		parallelism = 4
	}
	if stubLimit <= 0 {
		stubLimit = 1000
	}

	stubs, err := deps.Works.ListStubs(ctx, nil, stubLimit)
	if err != nil {
		return out, err
	}
	out.StubsScanned = len(stubs)
	if len(stubs) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	var proposals []mergeProposal

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, stub := range stubs {
		stub := stub
		g.Go(func() error {
			candidates, err := FindPotentialDuplicates(gctx, deps, stub.ID, stub.Title, "")
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				return nil
			}
			stubEditions, err := deps.Editions.GetByWorkID(gctx, nil, stub.ID)
			if err != nil {
				return err
			}
			for _, cand := range candidates {
				if cand.IsStub {
					continue
				}
				candEditions, err := deps.Editions.GetByWorkID(gctx, nil, cand.ID)
				if err != nil {
					return err
				}
				ok, reason := ShouldMerge(stubEditions, candEditions)
				if !ok {
					continue
				}
				mu.Lock()
				proposals = append(proposals, mergeProposal{fromID: stub.ID, toID: cand.ID, reason: reason})
				mu.Unlock()
				break
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	merged := map[uuid.UUID]bool{}
	for _, p := range proposals {
		if merged[p.fromID] || merged[p.toID] {
			continue
		}
		if err := MergeWorks(ctx, deps, p.fromID, p.toID, p.reason); err != nil {
			deps.Log.Error("sweep merge failed", "from_work_id", p.fromID, "to_work_id", p.toID, "error", err)
			continue
		}
		merged[p.fromID] = true
		out.Merged++
	}

	deps.Log.Info("resolve sweep complete", "stubs_scanned", out.StubsScanned, "merged", out.Merged)
	return out, nil
}
