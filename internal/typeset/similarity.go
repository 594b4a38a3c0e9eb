// Package typeset implements tag matching and clustering for the product
// catalog: bigram similarity scoring, fuzzy type suggestions, type-group
// deduplication, and the transitive tag clustering used by consolidation.
package typeset

import "strings"

// MatchThreshold is the minimum similarity score for a tag to count as a
// match. Calibrated against the shop's real tag data; do not change without
// re-checking suggestion quality.
const MatchThreshold = 0.45

// Similarity returns the Sorensen-Dice coefficient over character bigrams
// of the two strings, case-insensitive. The score is symmetric and in
// [0, 1]: 1.0 for equal strings, 0.0 when the bigram sets are disjoint.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return 1.0
	}

	aBigrams := bigrams(a)
	bBigrams := bigrams(b)
	if len(aBigrams) == 0 || len(bBigrams) == 0 {
		return 0.0
	}

	counts := make(map[string]int, len(aBigrams))
	for _, bg := range aBigrams {
		counts[bg]++
	}

	overlap := 0
	for _, bg := range bBigrams {
		if counts[bg] > 0 {
			counts[bg]--
			overlap++
		}
	}

	return 2.0 * float64(overlap) / float64(len(aBigrams)+len(bBigrams))
}

func bigrams(s string) []string {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}
	out := make([]string, 0, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		out = append(out, string(runes[i:i+2]))
	}
	return out
}
