package records

import (
	"fmt"
	"slices"
	"strings"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/query"
)

// Search keeps the records where any of fields contains term, ignoring case.
// An empty term keeps everything. For paging and structured filters use
// query.Engine.
func Search(list []Record, term string, fields []string) []Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(list)
	}
	var out []Record
	for _, r := range list {
		for _, f := range fields {
			v, ok := r.Field(f)
			if ok && strings.Contains(strings.ToLower(query.Stringify(v)), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Filter keeps the records matching every criterion. Empty criteria are
// ignored. An array field matches when it contains the value, a string value
// matches by case-insensitive substring, anything else by equality.
func Filter(list []Record, criteria map[string]any) []Record {
	var out []Record
	for _, r := range list {
		if matchesAll(r, criteria) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(r Record, criteria map[string]any) bool {
	for field, want := range criteria {
		if want == nil || want == "" {
			continue
		}
		got, ok := r.Field(field)
		if !ok || got == nil {
			return false
		}
		if !matches(got, want) {
			return false
		}
	}
	return true
}

func matches(got, want any) bool {
	if items, ok := got.([]any); ok {
		for _, it := range items {
			if equal(it, want) {
				return true
			}
		}
		return false
	}
	if ws, ok := want.(string); ok {
		return strings.Contains(strings.ToLower(query.Stringify(got)), strings.ToLower(ws))
	}
	return equal(got, want)
}

func equal(a, b any) bool {
	if fa, ok := query.ToNumber(a); ok {
		if fb, ok := query.ToNumber(b); ok {
			return fa == fb
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Sort returns a copy of list ordered by field. Missing values sort last.
func Sort(list []Record, field string, desc bool, typ query.ValueType) []Record {
	out := slices.Clone(list)
	dir := query.Asc
	if desc {
		dir = query.Desc
	}
	query.SortBy(out, query.Sort{Field: field, Direction: dir, Type: typ})
	return out
}
