// Package tabular converts record slices to and from CSV and JSON.
package tabular

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/query"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
)

type BoolFormat string

const (
	BoolTrueFalse BoolFormat = "truefalse"
	BoolYesNo     BoolFormat = "yesno"
	BoolOneZero   BoolFormat = "onezero"
)

type DateFormat string

const (
	DateISO    DateFormat = "iso"
	DateShort  DateFormat = "short"
	DateMedium DateFormat = "medium"
	DateLong   DateFormat = "long"
)

var dateLayouts = map[DateFormat]string{
	DateShort:  "1/2/2006",
	DateMedium: "Jan 2, 2006",
	DateLong:   "January 2, 2006",
}

// ExportOptions controls column selection and value rendering. Leave Fields
// empty only when column order does not matter: the columns are then derived
// from whatever paths the records happen to contain.
type ExportOptions struct {
	Fields        []string
	Headers       map[string]string
	OmitHeaders   bool
	BooleanFormat BoolFormat
	DateFormat    DateFormat
	Filename      string
}

// DiscoverFields returns the sorted union of every dotted path found in list.
// Arrays and dates are leaves.
func DiscoverFields(list []records.Record) []string {
	seen := map[string]bool{}
	for _, r := range list {
		collectPaths(map[string]any(r), "", seen)
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func collectPaths(m map[string]any, prefix string, seen map[string]bool) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			collectPaths(nested, path, seen)
			continue
		}
		seen[path] = true
	}
}

// HeaderFor returns the override for field, or the field with every dot
// segment title-cased, e.g. "location.barn" becomes "Location Barn".
func HeaderFor(field string, overrides map[string]string) string {
	if h, ok := overrides[field]; ok {
		return h
	}
	parts := strings.Split(field, ".")
	for i, p := range parts {
		if r, size := utf8.DecodeRuneInString(p); r != utf8.RuneError {
			parts[i] = string(unicode.ToUpper(r)) + p[size:]
		}
	}
	return strings.Join(parts, " ")
}

// FormatValue renders one cell.
func FormatValue(v any, opts ExportOptions) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		return formatBool(t, opts.BooleanFormat)
	case time.Time:
		return formatDate(t, opts.DateFormat)
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t, opts.DateFormat)
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = FormatValue(e, opts)
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
	return query.Stringify(v)
}

func formatBool(b bool, f BoolFormat) string {
	switch f {
	case BoolYesNo:
		if b {
			return "yes"
		}
		return "no"
	case BoolOneZero:
		if b {
			return "1"
		}
		return "0"
	}
	if b {
		return "true"
	}
	return "false"
}

func formatDate(t time.Time, f DateFormat) string {
	if layout, ok := dateLayouts[f]; ok {
		return t.Format(layout)
	}
	return query.Stringify(t)
}

// GenerateCSV renders list as comma-separated text with "\n" line endings.
// Cells containing a comma, quote or newline, or starting with a space or
// tab, are quoted so the whitespace survives a re-import.
func GenerateCSV(list []records.Record, opts ExportOptions) (string, error) {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = DiscoverFields(list)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if !opts.OmitHeaders {
		header := make([]string, len(fields))
		for i, f := range fields {
			header[i] = HeaderFor(f, opts.Headers)
		}
		if err := w.Write(header); err != nil {
			return "", fmt.Errorf("write csv header: %w", err)
		}
	}
	row := make([]string, len(fields))
	for _, r := range list {
		for i, f := range fields {
			v, _ := r.Field(f)
			row[i] = FormatValue(v, opts)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row %s: %w", r.ID(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// GenerateJSON pretty-prints v with a two-space indent.
func GenerateJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return b, nil
}

// Project keeps only fields of each record. Nested paths are flattened to
// their dotted name.
func Project(list []records.Record, fields []string) []records.Record {
	if len(fields) == 0 {
		return list
	}
	out := make([]records.Record, len(list))
	for i, r := range list {
		p := records.Record{}
		for _, f := range fields {
			if v, ok := r.Field(f); ok {
				p[f] = v
			}
		}
		out[i] = p
	}
	return out
}
