package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryanm101/flashman/internal/catalog"
)

func records(n int) []catalog.Record {
	out := make([]catalog.Record, n)
	for i := range out {
		out[i] = catalog.Record{"id": fmt.Sprintf("g%02d", i), "title": fmt.Sprintf("Game %d", i)}
	}
	return out
}

func TestNextPage(t *testing.T) {
	s := NewSession(records(32), 15)
	assert.Equal(t, 32, s.Total())

	sizes := []int{}
	for i := 0; i < 3; i++ {
		sizes = append(sizes, len(s.NextPage()))
	}
	assert.Equal(t, []int{15, 15, 2}, sizes)
	assert.False(t, s.Exhausted())
	assert.Equal(t, 3, s.Page())

	assert.Empty(t, s.NextPage())
	assert.True(t, s.Exhausted())
	assert.Equal(t, 3, s.Page(), "an empty page does not advance the cursor")

	assert.Empty(t, s.NextPage())
	assert.True(t, s.Exhausted())
}

func TestPagesAreContiguous(t *testing.T) {
	all := records(20)
	s := NewSession(all, 7)

	var got []catalog.Record
	for p := s.NextPage(); len(p) > 0; p = s.NextPage() {
		got = append(got, p...)
	}
	assert.Equal(t, all, got)
}

func TestEmptyResults(t *testing.T) {
	s := NewSession(nil, 15)
	assert.Empty(t, s.NextPage())
	assert.True(t, s.Exhausted())
	assert.Equal(t, 0, s.Page())
}

func TestSingleResultWithPlaceholder(t *testing.T) {
	s := NewSession(catalog.InjectPlaceholder(records(1)), 15)
	page := s.NextPage()
	assert.Len(t, page, 2)
	assert.Len(t, catalog.Displayable(page), 1)
}

func TestDefaultPageSize(t *testing.T) {
	s := NewSession(records(40), 0)
	assert.Equal(t, DefaultPageSize, s.PageSize())
	assert.Len(t, s.NextPage(), DefaultPageSize)
}

func TestShouldLoad(t *testing.T) {
	tests := []struct {
		name     string
		position int
		maximum  int
		want     bool
	}{
		{"content fits", 0, 0, true},
		{"top", 0, 100, false},
		{"exactly threshold", 90, 100, false},
		{"past threshold", 91, 100, true},
		{"bottom", 100, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultPolicy.ShouldLoad(tt.position, tt.maximum))
		})
	}
}
