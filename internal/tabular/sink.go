package tabular

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/metrics"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json"; anything else is an error.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	case "":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// Artifact is a rendered export ready for delivery.
type Artifact struct {
	Name        string
	ContentType string
	Body        []byte
}

// Export renders list in format. JSON exports honour opts.Fields by
// projecting each record to the selected paths.
func Export(list []records.Record, format Format, opts ExportOptions) (Artifact, error) {
	switch format {
	case FormatJSON:
		body, err := GenerateJSON(Project(list, opts.Fields))
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Name: filename(opts.Filename, "export.json"), ContentType: "application/json", Body: body}, nil
	case FormatCSV, "":
		body, err := GenerateCSV(list, opts)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Name: filename(opts.Filename, "export.csv"), ContentType: "text/csv; charset=utf-8", Body: []byte(body)}, nil
	}
	return Artifact{}, fmt.Errorf("unsupported format %q", format)
}

func filename(name, def string) string {
	if name == "" {
		return def
	}
	return filepath.Base(name)
}

// Sink receives finished exports.
type Sink interface {
	// Deliver stores body under name and returns where it ended up.
	Deliver(ctx context.Context, name, contentType string, body io.Reader, size int64) (string, error)
	Kind() string
}

// Deliver hands a to sink and counts the job.
func Deliver(ctx context.Context, sink Sink, format Format, a Artifact) (string, error) {
	loc, err := sink.Deliver(ctx, a.Name, a.ContentType, bytes.NewReader(a.Body), int64(len(a.Body)))
	if err != nil {
		return "", fmt.Errorf("deliver %s to %s: %w", a.Name, sink.Kind(), err)
	}
	metrics.ExportJobs.WithLabelValues(string(format), sink.Kind()).Inc()
	return loc, nil
}

// DirSink writes exports into a local directory.
type DirSink struct {
	Dir string
}

func (d DirSink) Kind() string { return "dir" }

func (d DirSink) Deliver(_ context.Context, name, _ string, body io.Reader, _ int64) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(d.Dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
