package typeset

import "sort"

// Clusters groups the given tag arrays into connected components over the
// "shares at least one tag" relation. The relation is transitive: arrays
// with no direct overlap still land in one cluster when a chain of
// overlapping arrays connects them. Each returned cluster lists indexes
// into the input, in input order; every input index appears in exactly one
// cluster, and an array sharing no tag with anything is its own singleton.
func Clusters(tagSets [][]string) [][]int {
	byTag := make(map[string][]int)
	for i, tags := range tagSets {
		for _, tag := range tags {
			byTag[tag] = append(byTag[tag], i)
		}
	}

	visited := make([]bool, len(tagSets))
	clusters := make([][]int, 0)

	for i := range tagSets {
		if visited[i] {
			continue
		}

		// BFS expansion through shared tags.
		cluster := []int{i}
		visited[i] = true
		for cursor := 0; cursor < len(cluster); cursor++ {
			for _, tag := range tagSets[cluster[cursor]] {
				for _, j := range byTag[tag] {
					if !visited[j] {
						visited[j] = true
						cluster = append(cluster, j)
					}
				}
			}
		}

		sort.Ints(cluster)
		clusters = append(clusters, cluster)
	}

	return clusters
}

// CanonicalTags picks the canonical tag set for a cluster: the unique tags
// of the member with the longest type array, ties going to the member seen
// first in input order. First-occurrence order within that member is kept.
func CanonicalTags(tagSets [][]string, cluster []int) []string {
	best := -1
	for _, idx := range cluster {
		if best == -1 || len(tagSets[idx]) > len(tagSets[best]) {
			best = idx
		}
	}
	if best == -1 {
		return nil
	}
	return UniqueTags(tagSets[best])
}

// UniqueTags removes duplicate tags, keeping first-occurrence order.
func UniqueTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SameTagSet reports whether two tag arrays hold the same tags, ignoring
// order and duplicates.
func SameTagSet(a, b []string) bool {
	aSet := make(map[string]struct{}, len(a))
	for _, tag := range a {
		aSet[tag] = struct{}{}
	}
	bSet := make(map[string]struct{}, len(b))
	for _, tag := range b {
		bSet[tag] = struct{}{}
	}
	if len(aSet) != len(bSet) {
		return false
	}
	for tag := range aSet {
		if _, ok := bSet[tag]; !ok {
			return false
		}
	}
	return true
}
