package sanctuary

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/tabular"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/metrics"
)

// ImportReport is the outcome of loading parsed rows into a resource.
type ImportReport struct {
	TotalRows    int                `json:"totalRows"`
	SuccessCount int                `json:"successCount"`
	ErrorCount   int                `json:"errorCount"`
	Errors       []tabular.RowError `json:"errors"`
	Data         []records.Record   `json:"data"`
	DryRun       bool               `json:"dryRun,omitempty"`
}

// Import normalizes and validates every parsed row of resource and creates
// the valid ones, unless dryRun is set. Parse errors are carried over;
// validation and save errors use the 1-based position of the parsed record.
func Import(ctx context.Context, store *records.Store, resource string, parsed tabular.ImportResult, dryRun bool) ImportReport {
	rep := ImportReport{
		TotalRows: parsed.TotalRows,
		Errors:    append([]tabular.RowError{}, parsed.Errors...),
		Data:      []records.Record{},
		DryRun:    dryRun,
	}
	metrics.ImportRows.WithLabelValues("parse_error").Add(float64(len(parsed.Errors)))
	for i, row := range parsed.Data {
		rec := Normalize(resource, row)
		if errs := Validate(resource, rec); len(errs) > 0 {
			rep.Errors = append(rep.Errors, tabular.RowError{Row: i + 1, Message: fmt.Sprintf("record %d: %s", i+1, JoinErrors(errs))})
			metrics.ImportRows.WithLabelValues("invalid").Inc()
			continue
		}
		if dryRun {
			rep.Data = append(rep.Data, rec)
			continue
		}
		created, err := store.Create(ctx, resource, rec)
		if err != nil {
			rep.Errors = append(rep.Errors, tabular.RowError{Row: i + 1, Message: err.Error()})
			metrics.ImportRows.WithLabelValues("failed").Inc()
			continue
		}
		metrics.ImportRows.WithLabelValues("ok").Inc()
		rep.Data = append(rep.Data, created)
	}
	rep.SuccessCount = len(rep.Data)
	rep.ErrorCount = len(rep.Errors)
	return rep
}

// JoinErrors renders a validation map as "field message; field message",
// ordered by field.
func JoinErrors(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + " " + errs[f]
	}
	return strings.Join(parts, "; ")
}
