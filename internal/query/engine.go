package query

import (
	"slices"
	"strings"
	"sync"
)

const defaultSuggestions = 5

// Engine searches a snapshot of records. It never modifies the slice it was
// given; UpdateData swaps the snapshot.
type Engine[T Fielder] struct {
	mu   sync.RWMutex
	data []T
	cfg  Config
}

func New[T Fielder](data []T, cfg Config) *Engine[T] {
	return &Engine[T]{data: data, cfg: cfg}
}

func (e *Engine[T]) UpdateData(data []T) {
	e.mu.Lock()
	e.data = data
	e.mu.Unlock()
}

func (e *Engine[T]) snapshot() []T {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.data
}

// Search applies, in order, the text term, the filters, the sort and the page.
// sort and page are optional.
func (e *Engine[T]) Search(term string, filters []Filter, sort *Sort, page *Page) Result[T] {
	items := e.match(e.snapshot(), term)
	items = ApplyFilters(items, filters)
	if sort != nil && sort.Field != "" {
		SortBy(items, *sort)
	}

	res := Result[T]{
		TotalCount: len(items),
		SearchTerm: term,
		Filters:    filters,
		Sort:       sort,
	}
	if res.Filters == nil {
		res.Filters = []Filter{}
	}
	if page != nil && page.PageSize > 0 {
		var info PageInfo
		items, info = Paginate(items, *page)
		res.Pagination = &info
	}
	res.Data = items
	return res
}

func (e *Engine[T]) match(items []T, term string) []T {
	term = strings.TrimSpace(term)
	if term == "" || len(e.cfg.SearchableFields) == 0 {
		return slices.Clone(items)
	}
	if !e.cfg.CaseSensitive {
		term = strings.ToLower(term)
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if e.hit(it, term) {
			out = append(out, it)
		}
	}
	return out
}

func (e *Engine[T]) hit(it T, term string) bool {
	for _, field := range e.cfg.SearchableFields {
		v, ok := it.Field(field)
		if !ok || v == nil {
			continue
		}
		values := []any{v}
		if list, ok := v.([]any); ok {
			values = list
		}
		for _, el := range values {
			s := Stringify(el)
			if !e.cfg.CaseSensitive {
				s = strings.ToLower(s)
			}
			if e.cfg.ExactMatch && s == term || !e.cfg.ExactMatch && strings.Contains(s, term) {
				return true
			}
		}
	}
	return false
}

// Suggestions returns up to max words from the searchable fields that start
// with term without being equal to it, ignoring case, in order of first
// occurrence.
func (e *Engine[T]) Suggestions(term string, max int) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []string{}
	}
	if max <= 0 {
		max = defaultSuggestions
	}
	seen := map[string]bool{}
	out := []string{}
	for _, it := range e.snapshot() {
		for _, field := range e.cfg.SearchableFields {
			v, ok := it.Field(field)
			if !ok {
				continue
			}
			values := []any{v}
			if list, ok := v.([]any); ok {
				values = list
			}
			for _, el := range values {
				s, ok := el.(string)
				if !ok {
					continue
				}
				for _, word := range strings.Fields(s) {
					lw := strings.ToLower(word)
					if lw == term || !strings.HasPrefix(lw, term) || seen[lw] {
						continue
					}
					seen[lw] = true
					out = append(out, word)
					if len(out) == max {
						return out
					}
				}
			}
		}
	}
	return out
}

// SortBy stably sorts items in place. Missing or nil values go last in both
// directions.
func SortBy[T Fielder](items []T, s Sort) {
	// Field may be costly; resolve each key once.
	type keyed struct {
		item T
		v    any
		ok   bool
	}
	ks := make([]keyed, len(items))
	for i, it := range items {
		v, ok := it.Field(s.Field)
		ks[i] = keyed{item: it, v: v, ok: ok && v != nil}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case !a.ok && !b.ok:
			return 0
		case !a.ok:
			return 1
		case !b.ok:
			return -1
		}
		c := Compare(a.v, b.v, s.Type)
		if s.Direction == Desc {
			return -c
		}
		return c
	})
	for i := range ks {
		items[i] = ks[i].item
	}
}

// Paginate slices items to the requested page. Pages are 1-based; a page
// below 1 is treated as 1 and a page past the end is empty.
func Paginate[T any](items []T, p Page) ([]T, PageInfo) {
	if p.Page < 1 {
		p.Page = 1
	}
	info := PageInfo{Page: p.Page, PageSize: p.PageSize}
	if p.PageSize <= 0 {
		info.TotalPages = 1
		return items, info
	}
	info.TotalPages = (len(items) + p.PageSize - 1) / p.PageSize
	start := (p.Page - 1) * p.PageSize
	if start >= len(items) {
		return []T{}, info
	}
	end := min(start+p.PageSize, len(items))
	return items[start:end], info
}
