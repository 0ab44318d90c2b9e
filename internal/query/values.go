package query

import (
	"cmp"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// isoLayout matches the millisecond ISO form used when dates are written out.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// ToTime reads v as a point in time. Strings are parsed with RFC 3339, SQL and
// date-only layouts; numbers are Unix epoch milliseconds.
func ToTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
		return time.Time{}, false
	case bool, nil:
		return time.Time{}, false
	}
	if f, ok := ToNumber(v); ok {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Time{}, false
}

// ToNumber reads v as a float64. Numeric strings are accepted.
func ToNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// ToBool reads v as a boolean. "true"/"yes"/"1" and their opposites are
// accepted as strings.
func ToBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
		return false, false
	}
	if f, ok := ToNumber(v); ok {
		return f != 0, true
	}
	return false, false
}

// Stringify renders v the way search and text operators see it.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.UTC().Format(isoLayout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.UTC().Format(isoLayout)
	case fmt.Stringer:
		return t.String()
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
	if f, ok := ToNumber(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// InferType guesses the comparison type from a field value.
func InferType(v any) ValueType {
	switch v.(type) {
	case bool:
		return TypeBoolean
	case time.Time, *time.Time:
		return TypeDate
	case string, nil:
		return TypeString
	}
	if _, ok := ToNumber(v); ok {
		return TypeNumber
	}
	return TypeString
}

// Compare orders a and b under typ: numerically for numbers, by epoch
// milliseconds for dates, false before true for booleans, otherwise
// lexicographically on the stringified values. When either side cannot be
// read as typ the string comparison is used. An empty typ is inferred from a.
func Compare(a, b any, typ ValueType) int {
	if typ == "" {
		typ = InferType(a)
	}
	switch typ {
	case TypeNumber:
		fa, okA := ToNumber(a)
		fb, okB := ToNumber(b)
		if okA && okB {
			return cmp.Compare(fa, fb)
		}
	case TypeDate:
		ta, okA := ToTime(a)
		tb, okB := ToTime(b)
		if okA && okB {
			return cmp.Compare(ta.UnixMilli(), tb.UnixMilli())
		}
	case TypeBoolean:
		ba, okA := ToBool(a)
		bb, okB := ToBool(b)
		if okA && okB {
			return cmp.Compare(boolInt(ba), boolInt(bb))
		}
	}
	return strings.Compare(Stringify(a), Stringify(b))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// toList flattens any slice value into []any.
func toList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
