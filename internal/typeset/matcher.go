package typeset

import (
	"sort"
	"strings"
)

// FindMatchingTypes returns the distinct tags from the universe whose
// similarity to query meets MatchThreshold, sorted by descending score.
// Ties keep the order tags first appeared in the input. Duplicate tags in
// the input are scored once and returned at most once.
func FindMatchingTypes(query string, allTypeTags []string) []string {
	type scored struct {
		tag   string
		score float64
	}

	seen := make(map[string]struct{}, len(allTypeTags))
	matches := make([]scored, 0)

	for _, tag := range allTypeTags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}

		if score := Similarity(query, tag); score >= MatchThreshold {
			matches = append(matches, scored{tag: tag, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.tag)
	}
	return out
}

// FindMatchingTypeGroups returns the distinct tag bundles among products
// whose type array contains at least one tag matching the query. Two
// arrays are the same bundle when they hold the same tags regardless of
// order; the first-seen array's original tag order is kept, and bundles
// are returned in first-seen order.
func FindMatchingTypeGroups(query string, productTypeArrays [][]string) [][]string {
	seen := make(map[string]struct{})
	groups := make([][]string, 0)

	for _, tags := range productTypeArrays {
		if !anyTagMatches(query, tags) {
			continue
		}

		key := setKey(tags)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		groups = append(groups, tags)
	}

	return groups
}

func anyTagMatches(query string, tags []string) bool {
	for _, tag := range tags {
		if Similarity(query, tag) >= MatchThreshold {
			return true
		}
	}
	return false
}

// setKey builds an order-insensitive identity for a tag array. The unit
// separator keeps tags containing commas or pipes from colliding.
func setKey(tags []string) string {
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}
