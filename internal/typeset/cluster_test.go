package typeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClustersTransitiveOverlap(t *testing.T) {
	// A and C share no tag directly but connect through B.
	tagSets := [][]string{
		{"x"},
		{"x", "y"},
		{"y"},
	}

	clusters := Clusters(tagSets)

	assert.Len(t, clusters, 1)
	assert.Equal(t, []int{0, 1, 2}, clusters[0])
}

func TestClustersSingletons(t *testing.T) {
	tagSets := [][]string{
		{"chain"},
		{"headlight"},
		{"brake pad"},
	}

	clusters := Clusters(tagSets)

	assert.Equal(t, [][]int{{0}, {1}, {2}}, clusters)
}

func TestClustersEveryIndexAppearsOnce(t *testing.T) {
	tagSets := [][]string{
		{"a", "b"},
		{"c"},
		{"b", "c"},
		{"d"},
		{"e", "d"},
	}

	clusters := Clusters(tagSets)

	seen := make(map[int]int)
	for _, cluster := range clusters {
		for _, idx := range cluster {
			seen[idx]++
		}
	}
	for i := range tagSets {
		assert.Equal(t, 1, seen[i], "index %d", i)
	}
	assert.Len(t, clusters, 2)
}

func TestCanonicalTagsLongestMemberWins(t *testing.T) {
	tagSets := [][]string{
		{"x"},
		{"x", "y", "z"},
		{"y"},
	}

	got := CanonicalTags(tagSets, []int{0, 1, 2})

	assert.Equal(t, []string{"x", "y", "z"}, got)
}

func TestCanonicalTagsTieBreaksOnInputOrder(t *testing.T) {
	tagSets := [][]string{
		{"a", "b"},
		{"b", "c"},
	}

	got := CanonicalTags(tagSets, []int{0, 1})

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestCanonicalTagsDeduplicates(t *testing.T) {
	tagSets := [][]string{
		{"a", "b", "a", "b"},
		{"b"},
	}

	got := CanonicalTags(tagSets, []int{0, 1})

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSameTagSet(t *testing.T) {
	assert.True(t, SameTagSet([]string{"a", "b"}, []string{"b", "a"}))
	assert.True(t, SameTagSet([]string{"a", "a", "b"}, []string{"b", "a"}))
	assert.False(t, SameTagSet([]string{"a"}, []string{"a", "b"}))
	assert.False(t, SameTagSet([]string{"a", "c"}, []string{"a", "b"}))
	assert.True(t, SameTagSet(nil, nil))
}

func TestUniqueTagsKeepsFirstOccurrenceOrder(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, UniqueTags([]string{"b", "a", "b", "c", "a"}))
}
