package tabular

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
)

func sample() []records.Record {
	return []records.Record{
		{"id": "animals_1_a", "name": "Bella", "adopted": false, "age": float64(7),
			"tags": []any{"gentle", "senior"}, "location": map[string]any{"barn": "North", "stall": float64(3)},
			"arrivalDate": time.Date(2021, 3, 1, 14, 0, 0, 0, time.UTC)},
		{"id": "animals_2_b", "name": `Wilbur "the pig", Jr.`, "adopted": true,
			"bio": "line one\nline two", "location": map[string]any{"barn": "South"}},
	}
}

func TestDiscoverFields(t *testing.T) {
	assert.Equal(t, []string{
		"adopted", "age", "arrivalDate", "bio", "id", "location.barn", "location.stall", "name", "tags",
	}, DiscoverFields(sample()))
}

func TestHeaderFor(t *testing.T) {
	assert.Equal(t, "Location Barn", HeaderFor("location.barn", nil))
	assert.Equal(t, "ArrivalDate", HeaderFor("arrivalDate", nil))
	assert.Equal(t, "Émotion État", HeaderFor("émotion.état", nil))
	assert.Equal(t, "Über", HeaderFor("über", nil))
	assert.Equal(t, "A  B", HeaderFor("a..b", nil))
	assert.Equal(t, "Arrived", HeaderFor("arrivalDate", map[string]string{"arrivalDate": "Arrived"}))
}

func TestFormatValue(t *testing.T) {
	when := time.Date(2024, 7, 4, 9, 5, 0, 0, time.UTC)
	cases := []struct {
		name string
		v    any
		opts ExportOptions
		want string
	}{
		{"nil", nil, ExportOptions{}, ""},
		{"bool default", true, ExportOptions{}, "true"},
		{"bool yes/no", false, ExportOptions{BooleanFormat: BoolYesNo}, "no"},
		{"bool 1/0", true, ExportOptions{BooleanFormat: BoolOneZero}, "1"},
		{"date iso", when, ExportOptions{}, "2024-07-04T09:05:00.000Z"},
		{"date short", when, ExportOptions{DateFormat: DateShort}, "7/4/2024"},
		{"date medium", when, ExportOptions{DateFormat: DateMedium}, "Jul 4, 2024"},
		{"date long", when, ExportOptions{DateFormat: DateLong}, "July 4, 2024"},
		{"array", []any{"a", float64(2), true}, ExportOptions{}, "a; 2; true"},
		{"object", map[string]any{"k": "v"}, ExportOptions{}, `{"k":"v"}`},
		{"number", 12.5, ExportOptions{}, "12.5"},
		{"integer", float64(1200000), ExportOptions{}, "1200000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatValue(tc.v, tc.opts))
		})
	}
}

func TestGenerateCSV_QuotesAndSelectsFields(t *testing.T) {
	out, err := GenerateCSV(sample(), ExportOptions{
		Fields:        []string{"name", "adopted", "location.barn", "bio"},
		BooleanFormat: BoolYesNo,
	})
	require.NoError(t, err)
	want := "Name,Adopted,Location Barn,Bio\n" +
		"Bella,no,North,\n" +
		`"Wilbur ""the pig"", Jr.",yes,South,"line one` + "\nline two\""
	assert.Equal(t, want, out)

	out, err = GenerateCSV(sample()[:1], ExportOptions{Fields: []string{"name"}, OmitHeaders: true})
	require.NoError(t, err)
	assert.Equal(t, "Bella", out)
}

func TestGenerateCSV_LeadingSpaceIsQuotedAndKept(t *testing.T) {
	list := []records.Record{{"id": "a1", "name": " Bella", "note": "\tindented"}}
	out, err := GenerateCSV(list, ExportOptions{Fields: []string{"name", "note"}})
	require.NoError(t, err)
	assert.Equal(t, "Name,Note\n\" Bella\",\"\tindented\"", out)

	res := ParseCSV(out, CSVOptions{})
	require.Empty(t, res.Errors)
	assert.Equal(t, " Bella", res.Data[0]["Name"])
	assert.Equal(t, "\tindented", res.Data[0]["Note"])
}

func TestCSVRoundTrip(t *testing.T) {
	fields := []string{"id", "name", "bio", "tags", "adopted", "arrivalDate", "location.barn"}
	opts := ExportOptions{Fields: fields, DateFormat: DateMedium}
	text, err := GenerateCSV(sample(), opts)
	require.NoError(t, err)

	res := ParseCSV(text, CSVOptions{})
	require.Empty(t, res.Errors)
	require.Len(t, res.Data, 2)
	for i, src := range sample() {
		for _, f := range fields {
			v, _ := src.Field(f)
			assert.Equal(t, FormatValue(v, opts), res.Data[i][HeaderFor(f, nil)], "row %d field %s", i, f)
		}
	}
}

func TestParseCSV_MalformedRow(t *testing.T) {
	text := "name,species,age\nBella,cow,7\nWilbur,pig\nDaisy,cow,12\n"
	res := ParseCSV(text, CSVOptions{})

	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Equal(t, 2, res.SuccessCount)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Message, "expected 3 columns, got 2")
	for _, r := range res.Data {
		assert.NotEqual(t, "Wilbur", r["name"])
	}
}

func TestParseCSV_DelimiterAndHeaderless(t *testing.T) {
	res := ParseCSV("Bella;cow\nWilbur;pig", CSVOptions{Delimiter: ';', NoHeader: true})
	require.Len(t, res.Data, 2)
	assert.Equal(t, records.Record{"column1": "Wilbur", "column2": "pig"}, res.Data[1])

	res = ParseCSV("Bella;cow", CSVOptions{Delimiter: ';', NoHeader: true, Fields: []string{"name", "species"}})
	require.Len(t, res.Data, 1)
	assert.Equal(t, "cow", res.Data[0]["species"])
}

func TestParseCSV_BlankLines(t *testing.T) {
	text := "name,species\nBella,cow\n\nWilbur,pig\n"

	skipped := ParseCSV(text, CSVOptions{})
	assert.Equal(t, 2, skipped.TotalRows)
	assert.Zero(t, skipped.ErrorCount)

	kept := ParseCSV(text, CSVOptions{KeepEmptyLines: true})
	assert.Equal(t, 3, kept.TotalRows)
	assert.Equal(t, 2, kept.SuccessCount)
	require.Len(t, kept.Errors, 1)
	assert.Equal(t, 3, kept.Errors[0].Row)
}

func TestParseCSV_QuotedNewline(t *testing.T) {
	res := ParseCSV("name,bio\nBella,\"calm\nand kind\"\nWilbur,loud", CSVOptions{KeepEmptyLines: true})
	require.Empty(t, res.Errors)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "calm\nand kind", res.Data[0]["bio"])
	assert.Equal(t, "Wilbur", res.Data[1]["name"])
}

func TestParseJSON(t *testing.T) {
	res := ParseJSON(`{"name":"Bella"}`)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Bella", res.Data[0]["name"])

	res = ParseJSON(`[{"name":"A"}, 3, {"name":"B"}]`)
	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 2, res.SuccessCount)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)

	res = ParseJSON(`{broken`)
	assert.Empty(t, res.Data)
	assert.Zero(t, res.TotalRows)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].Row)
}

func TestExportToDirSink(t *testing.T) {
	dir := t.TempDir()
	a, err := Export(sample(), FormatJSON, ExportOptions{Fields: []string{"name"}})
	require.NoError(t, err)
	assert.Equal(t, "export.json", a.Name)
	assert.True(t, strings.HasPrefix(string(a.Body), "[\n  {\n    \"name\""))

	loc, err := Deliver(context.Background(), DirSink{Dir: dir}, FormatJSON, a)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export.json"), loc)
	b, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, a.Body, b)

	a, err = Export(sample(), FormatCSV, ExportOptions{Filename: "../../animals.csv"})
	require.NoError(t, err)
	assert.Equal(t, "animals.csv", a.Name)
}
