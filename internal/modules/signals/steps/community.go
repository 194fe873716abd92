package steps

import (
	"sort"
)

// sharedAuthorProjection turns work->authors adjacency into work<->work
// adjacency where two works connect iff they share an author.
func sharedAuthorProjection(workAuthors map[string][]string) map[string][]string {
	byAuthor := map[string][]string{}
	for work, authors := range workAuthors {
		for _, a := range authors {
			byAuthor[a] = append(byAuthor[a], work)
		}
	}
	adj := map[string][]string{}
	for _, works := range byAuthor {
		for i, a := range works {
			for j, b := range works {
				if i == j {
					continue
				}
				adj[a] = append(adj[a], b)
			}
		}
	}
	return adj
}

// labelPropagation assigns community ids by iteratively adopting the most
// common label among neighbors. Deterministic: nodes visited in sorted
// order, ties broken toward the smaller label.
func labelPropagation(adj map[string][]string) map[string]int {
	nodes := make([]string, 0, len(adj))
	for n := range adj {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	labels := make(map[string]int, len(nodes))
	for i, n := range nodes {
		labels[n] = i
	}

	const maxIterations = 10
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for _, n := range nodes {
			counts := map[int]int{}
			for _, nb := range adj[n] {
				if l, ok := labels[nb]; ok {
					counts[l]++
				}
			}
			if len(counts) == 0 {
				continue
			}
			best, bestCount := labels[n], 0
			for l, c := range counts {
				if c > bestCount || (c == bestCount && l < best) {
					best, bestCount = l, c
				}
			}
			if best != labels[n] {
				labels[n] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return labels
}
