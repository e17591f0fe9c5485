package catalog

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"
)

// PlaceholderID is the id of the inert record appended to single-result searches.
const PlaceholderID = "fake_entry"

// DescriptionCutoff is the number of characters shown in list views.
const DescriptionCutoff = 300

// Record is a game as returned by the catalog: an opaque set of fields that
// always carries at least "id" and "title".
type Record map[string]any

// Placeholder returns a fresh placeholder record.
func Placeholder() Record {
	return Record{"id": PlaceholderID, "title": "", "originalDescription": ""}
}

// IsPlaceholder reports whether r is the synthetic single-result filler.
func IsPlaceholder(r Record) bool {
	return r.ID() == PlaceholderID
}

// InjectPlaceholder appends a placeholder when results holds exactly one record.
// Any other length is returned unchanged.
func InjectPlaceholder(results []Record) []Record {
	if len(results) != 1 {
		return results
	}
	return append(results, Placeholder())
}

// Displayable drops placeholder records.
func Displayable(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if !IsPlaceholder(r) {
			out = append(out, r)
		}
	}
	return out
}

// ID returns the stable identifier.
func (r Record) ID() string {
	return r.Field("id")
}

// Title returns the display title.
func (r Record) Title() string {
	return r.Field("title")
}

// Platform returns the platform name, e.g. "Flash" or "HTML5".
func (r Record) Platform() string {
	return r.Field("platform")
}

// Description returns the full original description.
func (r Record) Description() string {
	return r.Field("originalDescription")
}

// ShortDescription returns the description cut to DescriptionCutoff characters.
func (r Record) ShortDescription() string {
	d := r.Description()
	if utf8.RuneCountInString(d) <= DescriptionCutoff {
		return d
	}
	return string([]rune(d)[:DescriptionCutoff]) + "..."
}

// Field renders a field as text. String lists are joined with ", ".
func (r Record) Field(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// Keys returns the field names in a stable order: id and title first, the rest sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for _, k := range []string{"id", "title"} {
		if _, ok := r[k]; ok {
			keys = append(keys, k)
		}
	}
	rest := make([]string, 0, len(r))
	for k := range r {
		if k != "id" && k != "title" {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// SameGame reports whether a and b identify the same game. Records that both
// carry an id are compared by id; otherwise every field must match.
func SameGame(a, b Record) bool {
	ida, idb := a.ID(), b.ID()
	if ida != "" && idb != "" {
		return ida == idb
	}
	return reflect.DeepEqual(a, b)
}

// PlatformClass buckets a platform into "flash", "html5" or "other".
func PlatformClass(platform string) string {
	switch strings.ToLower(platform) {
	case "flash":
		return "flash"
	case "html5":
		return "html5"
	default:
		return "other"
	}
}
