package steps

import (
	"testing"
)

func TestPairsFromGroupsJaccard(t *testing.T) {
	// a and b share 2 of 3 lists; c appears once and is filtered out.
	groups := map[string][]string{
		"l1": {"a", "b"},
		"l2": {"a", "b", "c"},
		"l3": {"a"},
	}
	pairs := pairsFromGroups(groups, 2, 1.0)
	if len(pairs) != 1 {
		t.Fatalf("expected one surviving pair, got %d", len(pairs))
	}
	p := pairs[0]
	if p.keyA != "a" || p.keyB != "b" {
		t.Fatalf("unexpected pair %q-%q", p.keyA, p.keyB)
	}
	if p.overlap != 2 {
		t.Fatalf("overlap should be 2, got %d", p.overlap)
	}
	// jaccard = 2 / (3 + 2 - 2)
	if p.jaccard != 2.0/3.0 {
		t.Fatalf("jaccard should be 2/3, got %v", p.jaccard)
	}
	if p.countA != 3 || p.countB != 2 {
		t.Fatalf("group counts wrong: %d %d", p.countA, p.countB)
	}
}

func TestPairsFromGroupsScaleCapped(t *testing.T) {
	groups := map[string][]string{
		"author1": {"x", "y"},
	}
	pairs := pairsFromGroups(groups, 1, 5.0)
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %d", len(pairs))
	}
	// raw jaccard = 1/(1+1-1) = 1; scaled must cap at 1.0, never exceed.
	if pairs[0].jaccard != 1.0 {
		t.Fatalf("scaled jaccard must cap at 1.0, got %v", pairs[0].jaccard)
	}
}

func TestPairsFromGroupsScaleApplied(t *testing.T) {
	// x and y share 1 of their 3 combined groups: raw = 1/3, scaled 5x
	// would exceed 1 and must cap.
	groups := map[string][]string{
		"a1": {"x", "y"},
		"a2": {"x"},
		"a3": {"y"},
	}
	pairs := pairsFromGroups(groups, 1, 5.0)
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %d", len(pairs))
	}
	if pairs[0].jaccard != 1.0 {
		t.Fatalf("5x of 1/3 caps at 1.0, got %v", pairs[0].jaccard)
	}
	weak := pairsFromGroups(map[string][]string{
		"a1": {"x", "y"},
		"a2": {"x"}, "a3": {"x"}, "a4": {"x"}, "a5": {"x"},
		"a6": {"y"}, "a7": {"y"}, "a8": {"y"}, "a9": {"y"},
	}, 1, 5.0)
	if len(weak) != 1 {
		t.Fatalf("expected one pair, got %d", len(weak))
	}
	// raw = 1/(5+5-1) = 1/9, scaled = 5/9.
	if weak[0].jaccard != 5.0/9.0 {
		t.Fatalf("expected 5/9, got %v", weak[0].jaccard)
	}
}

func TestFilterByOverlap(t *testing.T) {
	pairs := []pairStat{
		{keyA: "a", keyB: "b", overlap: 1},
		{keyA: "a", keyB: "c", overlap: 3},
		{keyA: "b", keyB: "c", overlap: 2},
	}
	kept := filterByOverlap(pairs, 2)
	if len(kept) != 2 {
		t.Fatalf("floor of 2 should drop the single-overlap pair, got %d", len(kept))
	}
	for _, p := range kept {
		if p.overlap < 2 {
			t.Fatalf("pair %q-%q below the floor survived", p.keyA, p.keyB)
		}
	}
	all := filterByOverlap([]pairStat{{keyA: "x", keyB: "y", overlap: 1}}, 1)
	if len(all) != 1 {
		t.Fatalf("floor of 1 keeps everything, got %d", len(all))
	}
}

func TestSelectPruneVictimsKeepsSymmetry(t *testing.T) {
	// topK=1. a's strongest is b, b's is a, c's is b. a-c ranks outside the
	// top of both endpoints and goes; b-c survives through c's direction.
	byKey := map[string][]neighborRow{
		"a": {{id: 1, keyB: "b", jaccard: 0.9}, {id: 2, keyB: "c", jaccard: 0.2}},
		"b": {{id: 3, keyB: "a", jaccard: 0.9}, {id: 4, keyB: "c", jaccard: 0.8}},
		"c": {{id: 5, keyB: "b", jaccard: 0.8}, {id: 6, keyB: "a", jaccard: 0.2}},
	}
	victims := selectPruneVictims(byKey, 1)
	if len(victims) != 2 {
		t.Fatalf("exactly the a-c rows should go, got %v", victims)
	}
	gone := map[int64]bool{victims[0]: true, victims[1]: true}
	if !gone[2] || !gone[6] {
		t.Fatalf("both directions of a-c must be deleted together, got %v", victims)
	}
}

func TestPairsFromGroupsDeterministic(t *testing.T) {
	groups := map[string][]string{
		"l1": {"b", "a", "c"},
		"l2": {"c", "a", "b"},
	}
	first := pairsFromGroups(groups, 1, 1.0)
	second := pairsFromGroups(groups, 1, 1.0)
	if len(first) != len(second) || len(first) != 3 {
		t.Fatalf("expected 3 pairs both runs, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pair order must be deterministic: %v vs %v", first[i], second[i])
		}
	}
}
