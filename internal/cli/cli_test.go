package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/kv"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/sanctuary"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/tabular"
)

type harness struct {
	store *records.Store
	out   *bytes.Buffer
	env   *env
}

// newHarness wires the commands to one in-memory store that outlives each
// invocation.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store: records.NewStore(kv.NewMemoryStore(), sanctuary.StoreOptions()...),
		out:   &bytes.Buffer{},
	}
	h.env = &env{
		in:  strings.NewReader(""),
		out: h.out,
		open: func(context.Context) (*records.Store, func() error, error) {
			return h.store, func() error { return nil }, nil
		},
	}
	return h
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	h.out.Reset()
	h.env.globals = GlobalFlags{}
	err := run(h.env, "test", args)
	return h.out.String(), err
}

func (h *harness) seed(t *testing.T) {
	t.Helper()
	_, err := sanctuary.Seed(context.Background(), h.store)
	require.NoError(t, err)
}

func TestVersionFlag(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "sanctuaryctl test\n", out)
}

func TestSubcommandsRecognized(t *testing.T) {
	for _, args := range [][]string{
		{"search", "animals"},
		{"export", "faqs", "--format", "json"},
		{"backup"},
		{"seed"},
		{"stats"},
	} {
		h := newHarness(t)
		_, err := h.run(t, args...)
		assert.NoError(t, err, args)
	}
}

func TestUnknownResource(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "search", "dragons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown resource "dragons"`)
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out, err := h.run(t, "search", "animals", "-f", "species:in:pig,goat", "--sort", "name")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Found 2 records in animals", lines[0])
	assert.Contains(t, lines[1], "1. Daisy")
	assert.Contains(t, lines[2], "2. Wilbur")

	out, err = h.run(t, "--json", "search", "donations", "--sort", "amount", "--desc", "--page-size", "2", "--page", "2")
	require.NoError(t, err)
	var res struct {
		Data       []map[string]any `json:"data"`
		TotalCount int              `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 3, res.TotalCount)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Anonymous", res.Data[0]["donorName"])

	out, err = h.run(t, "search", "faqs", "-q", "nothing-matches-this")
	require.NoError(t, err)
	assert.Equal(t, "No faqs found\n", out)

	_, err = h.run(t, "search", "animals", "-f", "weight")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	out, err := h.run(t, "export", "animals", "--field", "name", "--field", "location.barn", "--sort", "name", "-q", "rescue")
	require.NoError(t, err)
	assert.Equal(t, "Name,Location Barn\nBella,North\nClucky,\nDaisy,\n", out)

	path := filepath.Join(t.TempDir(), "faqs.json")
	_, err = h.run(t, "export", "faqs", "--format", "json", "--field", "question", "-f", "published:equals:true:boolean", "-o", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"question":"Can I visit the sanctuary?"},{"question":"How can I sponsor an animal?"}]`, string(b))
}

func TestExportStore(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	dir := t.TempDir()
	h.env.sink = func(context.Context) (tabular.Sink, error) { return tabular.DirSink{Dir: dir}, nil }

	out, err := h.run(t, "export", "events", "--store")
	require.NoError(t, err)
	assert.Equal(t, "Exported 2 events to "+filepath.Join(dir, "events.csv")+"\n", out)
	assert.FileExists(t, filepath.Join(dir, "events.csv"))
}

func TestImport(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "volunteers.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Email,Skills\nAva,ava@example.org,cooking; driving\nNo Mail,,\n"), 0o644))

	out, err := h.run(t, "import", "volunteers", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Validated 1 of 2 rows into volunteers")
	assert.Contains(t, out, "row 2: record 2: email is required")
	assert.Empty(t, h.store.GetAll(context.Background(), sanctuary.Volunteers))

	_, err = h.run(t, "import", "volunteers", path)
	require.NoError(t, err)
	got := h.store.GetAll(context.Background(), sanctuary.Volunteers)
	require.Len(t, got, 1)
	assert.Equal(t, []any{"cooking", "driving"}, got[0]["skills"])
}

func TestImportStdinJSONAllRejected(t *testing.T) {
	h := newHarness(t)
	h.env.in = strings.NewReader(`[{"title":"no start date"}]`)

	out, err := h.run(t, "--json", "import", "events", "-", "--format", "json")
	require.Error(t, err)
	var rep sanctuary.ImportReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 1, rep.ErrorCount)
	assert.Equal(t, "record 1: startDate is required", rep.Errors[0].Message)
}

func TestBackupRestore(t *testing.T) {
	src := newHarness(t)
	src.seed(t)
	path := filepath.Join(t.TempDir(), "backup.json")
	_, err := src.run(t, "backup", "-o", path)
	require.NoError(t, err)

	dst := newHarness(t)
	out, err := dst.run(t, "restore", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored backup")
	assert.Len(t, dst.store.GetAll(context.Background(), sanctuary.Donations), 3)
	assert.Equal(t, 3, dst.store.Metadata(context.Background())[sanctuary.Donations].Created)
}

func TestSeedAndStats(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 4 animals\n")

	out, err = h.run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to seed")

	out, err = h.run(t, "--json", "stats")
	require.NoError(t, err)
	var rows []statsRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, len(sanctuary.Resources()))
	assert.Equal(t, "animals", rows[0].Resource)
	assert.Equal(t, 4, rows[0].Count)
	assert.Equal(t, 4, rows[0].Created)

	out, err = h.run(t, "stats")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "RESOURCE"))
	assert.Contains(t, out, "events")
}
