package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, PageOffset(1, 10))
	assert.Equal(t, 10, PageOffset(2, 10))
	assert.Equal(t, 0, PageOffset(0, 10))
	assert.Equal(t, 0, PageOffset(-5, 10))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

// Walking every page of a filtered set of size M with page size L must
// visit exactly M items, no duplicates and no gaps.
func TestPaginationCoversEverything(t *testing.T) {
	const m, l = 23, 5

	items := make([]int, m)
	for i := range items {
		items[i] = i
	}

	seen := make(map[int]bool)
	pages := TotalPages(int64(m), l)
	assert.Equal(t, 5, pages)

	for page := 1; page <= pages; page++ {
		start := PageOffset(page, l)
		end := start + l
		if end > m {
			end = m
		}
		for _, it := range items[start:end] {
			assert.False(t, seen[it], "item %d served twice", it)
			seen[it] = true
		}
	}
	assert.Len(t, seen, m)
}
