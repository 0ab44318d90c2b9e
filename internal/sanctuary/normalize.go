package sanctuary

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/query"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
)

var timeType = reflect.TypeOf(time.Time{})

type fieldInfo struct {
	path []string
	typ  reflect.Type
}

// normKey folds "Donor Name", "donor_name" and "donorName" to one form.
func normKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func indexFields(t reflect.Type, prefix []string, out map[string]fieldInfo) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			indexFields(f.Type, prefix, out)
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		path := append(append([]string(nil), prefix...), name)
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && ft != timeType && len(prefix) == 0 {
			indexFields(ft, path, out)
			continue
		}
		out[normKey(strings.Join(path, ""))] = fieldInfo{path: path, typ: ft}
	}
}

// Normalize maps flat, string-valued rows such as CSV imports onto the field
// names and value kinds of resource. Column names are matched ignoring case,
// spaces and punctuation, so exported headers ("Location Barn") map back to
// their fields ("location.barn"). Empty cells are dropped. Values that are
// not strings, and columns that match no field, are kept as they are.
func Normalize(resource string, r records.Record) records.Record {
	def, ok := registry[resource]
	if !ok {
		return r
	}
	index := map[string]fieldInfo{}
	indexFields(reflect.TypeOf(def.newValue()).Elem(), nil, index)

	out := records.Record{}
	for k, v := range r {
		info, known := index[normKey(k)]
		if !known {
			out[k] = v
			continue
		}
		s, isString := v.(string)
		if !isString {
			setPath(out, info.path, v)
			continue
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		setPath(out, info.path, convert(s, info.typ))
	}
	return out
}

func convert(s string, t reflect.Type) any {
	switch t.Kind() {
	case reflect.Bool:
		if b, ok := query.ToBool(s); ok {
			return b
		}
	case reflect.Int, reflect.Int64, reflect.Float64, reflect.Float32:
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	case reflect.Slice:
		if strings.HasPrefix(strings.TrimSpace(s), "[") {
			var list []any
			if err := json.Unmarshal([]byte(s), &list); err == nil {
				return list
			}
		}
		if t.Elem().Kind() == reflect.String {
			parts := strings.Split(s, ";")
			list := make([]any, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					list = append(list, p)
				}
			}
			return list
		}
	case reflect.Struct:
		if t == timeType {
			if ts, ok := query.ToTime(s); ok {
				return ts
			}
			if ts, err := time.Parse("Jan 2, 2006", s); err == nil {
				return ts
			}
			if ts, err := time.Parse("January 2, 2006", s); err == nil {
				return ts
			}
			if ts, err := time.Parse("1/2/2006", s); err == nil {
				return ts
			}
		}
	}
	return s
}

func setPath(m map[string]any, path []string, v any) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}
