package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectPlaceholder(t *testing.T) {
	one := []Record{{"id": "a", "title": "Alpha"}}
	got := InjectPlaceholder(one)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID())
	assert.True(t, IsPlaceholder(got[1]))
	assert.Equal(t, "", got[1].Title())

	assert.Empty(t, InjectPlaceholder(nil))

	two := []Record{{"id": "a"}, {"id": "b"}}
	assert.Len(t, InjectPlaceholder(two), 2)
}

func TestDisplayable(t *testing.T) {
	recs := []Record{{"id": "a"}, Placeholder(), {"id": "b"}}
	got := Displayable(recs)
	assert.Len(t, got, 2)
	assert.Equal(t, "b", got[1].ID())
}

func TestField(t *testing.T) {
	r := Record{
		"id":       "x",
		"tags":     []any{"Puzzle", "Arcade"},
		"names":    []string{"a", "b"},
		"votes":    float64(12),
		"missing":  nil,
		"platform": "Flash",
	}

	tests := []struct {
		field string
		want  string
	}{
		{"id", "x"},
		{"tags", "Puzzle, Arcade"},
		{"names", "a, b"},
		{"votes", "12"},
		{"missing", ""},
		{"nope", ""},
		{"platform", "Flash"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Field(tt.field))
		})
	}
}

func TestShortDescription(t *testing.T) {
	short := Record{"originalDescription": "tiny"}
	assert.Equal(t, "tiny", short.ShortDescription())

	long := Record{"originalDescription": strings.Repeat("é", DescriptionCutoff+5)}
	got := long.ShortDescription()
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("é", DescriptionCutoff)+"...", got)
}

func TestKeys(t *testing.T) {
	r := Record{"tags": nil, "title": "T", "developer": "D", "id": "1"}
	assert.Equal(t, []string{"id", "title", "developer", "tags"}, r.Keys())
}

func TestSameGame(t *testing.T) {
	tests := []struct {
		name string
		a, b Record
		want bool
	}{
		{"same id different fields", Record{"id": "1", "title": "A"}, Record{"id": "1", "title": "B"}, true},
		{"different id", Record{"id": "1"}, Record{"id": "2"}, false},
		{"no id equal", Record{"title": "A"}, Record{"title": "A"}, true},
		{"no id differs", Record{"title": "A"}, Record{"title": "B"}, false},
		{"one id missing", Record{"id": "1", "title": "A"}, Record{"title": "A"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameGame(tt.a, tt.b))
		})
	}
}

func TestPlatformClass(t *testing.T) {
	assert.Equal(t, "flash", PlatformClass("Flash"))
	assert.Equal(t, "html5", PlatformClass("HTML5"))
	assert.Equal(t, "other", PlatformClass("Shockwave"))
	assert.Equal(t, "other", PlatformClass(""))
}
