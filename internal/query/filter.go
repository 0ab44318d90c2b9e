package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidFilter = errors.New("invalid filter")

// ApplyFilters keeps the items that satisfy every filter.
func ApplyFilters[T Fielder](items []T, filters []Filter) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matchesAll(it, filters) {
			out = append(out, it)
		}
	}
	return out
}

func matchesAll[T Fielder](it T, filters []Filter) bool {
	for _, f := range filters {
		v, ok := it.Field(f.Field)
		if !ok {
			v = nil
		}
		if !Matches(v, f) {
			return false
		}
	}
	return true
}

// Matches reports whether a field value satisfies f. A nil value only
// satisfies an equals filter whose value is nil. For array values the filter
// holds when any element satisfies it.
func Matches(v any, f Filter) bool {
	if v == nil {
		return f.Operator == OpEquals && f.Value == nil
	}
	if f.Value == nil {
		return false
	}
	if items, ok := v.([]any); ok {
		return slices.ContainsFunc(items, func(e any) bool { return e != nil && matchOne(e, f) })
	}
	return matchOne(v, f)
}

func matchOne(v any, f Filter) bool {
	typ := f.Type
	if typ == "" {
		typ = InferType(v)
	}
	switch f.Operator {
	case OpEquals:
		return equals(v, f.Value, typ)
	case OpContains:
		return strings.Contains(lower(v), lower(f.Value))
	case OpStartsWith:
		return strings.HasPrefix(lower(v), lower(f.Value))
	case OpEndsWith:
		return strings.HasSuffix(lower(v), lower(f.Value))
	case OpGT:
		return Compare(v, f.Value, typ) > 0
	case OpLT:
		return Compare(v, f.Value, typ) < 0
	case OpGTE:
		return Compare(v, f.Value, typ) >= 0
	case OpLTE:
		return Compare(v, f.Value, typ) <= 0
	case OpIn:
		list, ok := toList(f.Value)
		if !ok {
			return equals(v, f.Value, typ)
		}
		return slices.ContainsFunc(list, func(w any) bool { return equals(v, w, typ) })
	case OpBetween:
		list, ok := toList(f.Value)
		if !ok || len(list) != 2 {
			return false
		}
		return Compare(v, list[0], typ) >= 0 && Compare(v, list[1], typ) <= 0
	}
	return false
}

func equals(v, want any, typ ValueType) bool {
	if typ == TypeString {
		return strings.EqualFold(Stringify(v), Stringify(want))
	}
	return Compare(v, want, typ) == 0
}

func lower(v any) string { return strings.ToLower(Stringify(v)) }

// ParseFilter reads "field:operator:value[:type]". Values of in and between
// are comma separated.
func ParseFilter(s string) (Filter, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 3 || parts[0] == "" {
		return Filter{}, fmt.Errorf("%w: %q, want field:operator:value[:type]", ErrInvalidFilter, s)
	}
	f := Filter{Field: parts[0], Operator: Operator(parts[1])}
	if !slices.Contains(Operators, f.Operator) {
		return Filter{}, fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, parts[1])
	}

	value := parts[2]
	if i := strings.LastIndex(value, ":"); i >= 0 {
		switch t := ValueType(value[i+1:]); t {
		case TypeString, TypeNumber, TypeDate, TypeBoolean:
			f.Type = t
			value = value[:i]
		}
	}

	switch f.Operator {
	case OpIn, OpBetween:
		items := strings.Split(value, ",")
		list := make([]any, len(items))
		for i, it := range items {
			list[i] = strings.TrimSpace(it)
		}
		if f.Operator == OpBetween && len(list) != 2 {
			return Filter{}, fmt.Errorf("%w: between needs two values, got %q", ErrInvalidFilter, value)
		}
		f.Value = list
	default:
		f.Value = value
	}
	return f, nil
}
