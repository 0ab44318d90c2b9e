package tabular

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
)

// CSVOptions configures ParseCSV. The zero value reads comma-separated text
// with a header row and skips blank lines.
type CSVOptions struct {
	Delimiter rune
	NoHeader  bool
	// KeepEmptyLines reports blank lines as rows instead of skipping them.
	KeepEmptyLines bool
	// Fields names the columns by position when NoHeader is set. Without it
	// columns are named column1, column2, ...
	Fields []string
}

// RowError describes a rejected row. Row is the 1-based line on which the row
// starts, or 0 for a document-level failure.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult is the outcome of a parse. Partial success is normal.
type ImportResult struct {
	Data         []records.Record `json:"data"`
	Errors       []RowError       `json:"errors"`
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	ErrorCount   int              `json:"errorCount"`
}

func (r *ImportResult) fail(row int, format string, args ...any) {
	r.Errors = append(r.Errors, RowError{Row: row, Message: fmt.Sprintf(format, args...)})
}

func (r *ImportResult) finish() ImportResult {
	r.SuccessCount = len(r.Data)
	r.ErrorCount = len(r.Errors)
	return *r
}

func newResult() *ImportResult {
	return &ImportResult{Data: []records.Record{}, Errors: []RowError{}}
}

// ParseCSV reads text into records. Quoted cells may span lines. A row whose
// column count differs from the header is reported and skipped.
func ParseCSV(text string, opts CSVOptions) ImportResult {
	res := newResult()

	r := csv.NewReader(strings.NewReader(text))
	if opts.Delimiter != 0 {
		r.Comma = opts.Delimiter
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var header []string
	if opts.NoHeader {
		header = opts.Fields
	}
	lastLine := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			res.TotalRows++
			res.fail(perr.StartLine, "malformed row: %v", perr.Err)
			lastLine = perr.Line
			continue
		}
		if err != nil {
			res.fail(0, "read csv: %v", err)
			break
		}

		start, _ := r.FieldPos(0)
		end, _ := r.FieldPos(len(row) - 1)
		end += strings.Count(row[len(row)-1], "\n")

		if opts.KeepEmptyLines {
			blank := header
			if blank == nil && opts.NoHeader {
				blank = positional(1)
			}
			for line := lastLine + 1; blank != nil && line < start; line++ {
				res.TotalRows++
				addRow(res, blank, []string{""}, line)
			}
		}
		lastLine = end

		if header == nil && !opts.NoHeader {
			header = make([]string, len(row))
			for i, h := range row {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		res.TotalRows++
		if header == nil {
			addRow(res, positional(len(row)), row, start)
			continue
		}
		addRow(res, header, row, start)
	}
	return res.finish()
}

func positional(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("column%d", i+1)
	}
	return out
}

func addRow(res *ImportResult, header, values []string, line int) {
	if len(values) != len(header) {
		res.fail(line, "expected %d columns, got %d", len(header), len(values))
		return
	}
	rec := records.Record{}
	for i, h := range header {
		rec[h] = values[i]
	}
	res.Data = append(res.Data, rec)
}

// ParseJSON reads a JSON array of objects, or a single object which is
// treated as a one-element array. A document that does not parse yields one
// error for row 0.
func ParseJSON(text string) ImportResult {
	res := newResult()

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		res.fail(0, "invalid JSON: %v", err)
		return res.finish()
	}
	items, ok := doc.([]any)
	if !ok {
		items = []any{doc}
	}
	for i, it := range items {
		res.TotalRows++
		obj, ok := it.(map[string]any)
		if !ok {
			res.fail(i+1, "expected an object, got %T", it)
			continue
		}
		res.Data = append(res.Data, records.Record(obj))
	}
	return res.finish()
}
