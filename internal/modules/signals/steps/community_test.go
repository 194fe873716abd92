package steps

import (
	"testing"
)

func TestSharedAuthorProjection(t *testing.T) {
	adj := sharedAuthorProjection(map[string][]string{
		"w1": {"a1"},
		"w2": {"a1", "a2"},
		"w3": {"a2"},
		"w4": {"a3"},
	})
	if len(adj["w1"]) != 1 || adj["w1"][0] != "w2" {
		t.Fatalf("w1 should connect only to w2, got %v", adj["w1"])
	}
	if len(adj["w2"]) != 2 {
		t.Fatalf("w2 should connect to w1 and w3, got %v", adj["w2"])
	}
	if len(adj["w4"]) != 0 {
		t.Fatalf("w4 shares no author, got %v", adj["w4"])
	}
}

func TestLabelPropagationConvergesPerComponent(t *testing.T) {
	adj := map[string][]string{
		"a": {"b"}, "b": {"a", "c"}, "c": {"b"},
		"x": {"y"}, "y": {"x"},
	}
	labels := labelPropagation(adj)
	if labels["a"] != labels["b"] || labels["b"] != labels["c"] {
		t.Fatalf("connected component should share a label: %v", labels)
	}
	if labels["x"] != labels["y"] {
		t.Fatalf("second component should share a label: %v", labels)
	}
	if labels["a"] == labels["x"] {
		t.Fatalf("disconnected components must differ: %v", labels)
	}
}

func TestLabelPropagationDeterministic(t *testing.T) {
	adj := map[string][]string{
		"a": {"b", "c"}, "b": {"a"}, "c": {"a"}, "d": {},
	}
	first := labelPropagation(adj)
	second := labelPropagation(adj)
	for k, v := range first {
		if second[k] != v {
			t.Fatalf("labels must be deterministic, %s: %d vs %d", k, v, second[k])
		}
	}
}
