package sequence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterPreservesOrder(t *testing.T) {
	names := []string{"Wall_A", "Ground", "fence", "WALL_B"}
	got := From(names).
		Filter(func(s string) bool { return strings.Contains(strings.ToLower(s), "wall") }).
		Collect()
	assert.Equal(t, []string{"Wall_A", "WALL_B"}, got)
}

func TestRejectAndCount(t *testing.T) {
	it := From([]int{1, 2, 3, 4, 5}).Reject(func(v int) bool { return v%2 == 0 })
	assert.Equal(t, 3, it.Count())
	assert.True(t, it.Any(func(v int) bool { return v == 5 }))
	assert.False(t, it.Any(func(v int) bool { return v == 4 }))
}

func TestEarlyStop(t *testing.T) {
	visited := 0
	it := Map(From([]int{1, 2, 3, 4}), func(v int) int {
		visited++
		return v * 10
	})
	for v := range it.Seq() {
		if v == 20 {
			break
		}
	}
	assert.Equal(t, 2, visited)
}

func TestSortStable(t *testing.T) {
	type pair struct {
		k int
		v string
	}
	in := []pair{{2, "a"}, {1, "b"}, {2, "c"}}
	got := From(in).Sort(func(a, b pair) bool { return a.k < b.k }).Collect()
	assert.Equal(t, []pair{{1, "b"}, {2, "a"}, {2, "c"}}, got)
}
