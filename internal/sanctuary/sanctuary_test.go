package sanctuary

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/kv"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/query"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/tabular"
)

func TestRegistryCoversEveryResource(t *testing.T) {
	schemas := Schemas()
	for _, name := range Resources() {
		assert.True(t, IsResource(name))
		assert.NotEmpty(t, Searchable(name), name)
		assert.Contains(t, schemas[name].DateFields, "createdAt", name)
	}
	assert.False(t, IsResource("metadata"))
	assert.Contains(t, schemas[Animals].NestedDateFields["notes"], "createdAt")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		resource string
		rec      records.Record
		want     map[string]string
	}{
		{"valid animal", Animals, records.Record{"name": "Bella", "species": "cow"}, map[string]string{}},
		{"missing required", Animals, records.Record{"name": "Bella"}, map[string]string{"species": "is required"}},
		{"bad enum", Animals, records.Record{"name": "B", "species": "cow", "status": "lost"},
			map[string]string{"status": "must be one of: resident, available, adopted, sponsored, memorial"}},
		{"bad date", Animals, records.Record{"name": "B", "species": "cow", "arrivalDate": "soon"},
			map[string]string{"arrivalDate": "must be a valid date"}},
		{"date only accepted", Animals, records.Record{"name": "B", "species": "cow", "arrivalDate": "2024-01-02"}, map[string]string{}},
		{"nested note", Animals, records.Record{"name": "B", "species": "cow", "notes": []any{map[string]any{"author": "x"}}},
			map[string]string{"notes[0].text": "is required"}},
		{"wrong type", Donations, records.Record{"donorName": "J", "amount": "lots"}, map[string]string{"amount": "must be a number"}},
		{"email and amount", Donations, records.Record{"donorName": "J", "amount": float64(-5), "email": "nope"},
			map[string]string{"amount": "must be greater than 0", "email": "must be a valid email address"}},
		{"event end before start", Events, records.Record{"title": "T", "startDate": "2024-05-02", "endDate": "2024-05-01"},
			map[string]string{"endDate": "must not be before startDate"}},
		{"event needs start", Events, records.Record{"title": "T"}, map[string]string{"startDate": "is required"}},
		{"unknown resource", "dragons", records.Record{}, map[string]string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(tc.resource, tc.rec))
		})
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	rec := records.Record{"name": "B", "species": "cow", "arrivalDate": "2024-01-02"}
	Validate(Animals, rec)
	assert.Equal(t, "2024-01-02", rec["arrivalDate"])
}

func TestSeedFillsEmptyResourcesOnce(t *testing.T) {
	ctx := context.Background()
	store := records.NewStore(kv.NewMemoryStore(), StoreOptions()...)

	created, err := Seed(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 4, created[Animals])
	assert.Equal(t, 2, created[Events])

	animals := store.GetAll(ctx, Animals)
	require.Len(t, animals, 4)
	assert.Equal(t, "Bella", animals[0]["name"])
	assert.IsType(t, time.Time{}, animals[0]["arrivalDate"])
	for _, a := range animals {
		assert.Empty(t, Validate(Animals, a), a["name"])
	}

	again, err := Seed(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, store.GetAll(ctx, Animals), 4)
}

func TestTypedValuesWorkWithQueryEngine(t *testing.T) {
	ctx := context.Background()
	store := records.NewStore(kv.NewMemoryStore(), StoreOptions()...)
	_, err := Seed(ctx, store)
	require.NoError(t, err)

	animals := records.NewCollection[Animal](store, Animals).All(ctx)
	require.Len(t, animals, 4)

	e := query.New(animals, query.Config{SearchableFields: Searchable(Animals)})
	res := e.Search("rescue", []query.Filter{{Field: "weight", Operator: query.OpGT, Value: 100}},
		&query.Sort{Field: "name", Direction: query.Asc}, nil)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Bella", res.Data[0].Name)

	barn, ok := animals[1].Field("location.barn")
	require.True(t, ok)
	assert.Equal(t, "South", barn)
}

func TestNormalizeMapsExportedColumns(t *testing.T) {
	row := records.Record{
		"Donor Name": "Jordan Lee",
		"Amount":     "50",
		"Recurring":  "yes",
		"Date":       "Feb 1, 2024",
		"Email":      "",
		"Extra":      "kept",
	}
	got := Normalize(Donations, row)
	assert.Equal(t, "Jordan Lee", got["donorName"])
	assert.Equal(t, float64(50), got["amount"])
	assert.Equal(t, true, got["recurring"])
	assert.True(t, got["date"].(time.Time).Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.NotContains(t, got, "email")
	assert.Equal(t, "kept", got["Extra"])
	assert.Empty(t, Validate(Donations, got))
}

func TestNormalizeNestedAndLists(t *testing.T) {
	got := Normalize(Animals, records.Record{
		"Name":          "Bella",
		"species":       "cow",
		"Location Barn": "North",
		"Tags":          "senior; rescue",
		"Weight":        "540.5",
		"sponsorable":   true,
	})
	assert.Equal(t, map[string]any{"barn": "North"}, got["location"])
	assert.Equal(t, []any{"senior", "rescue"}, got["tags"])
	assert.Equal(t, 540.5, got["weight"])
	assert.Equal(t, true, got["sponsorable"])
	assert.Empty(t, Validate(Animals, got))
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	store := records.NewStore(kv.NewMemoryStore(), StoreOptions()...)
	parsed := tabular.ParseCSV("Title,Start Date,Capacity\nOpen day,2024-04-20,80\nNo date,,10\nBroken\n", tabular.CSVOptions{})
	require.Equal(t, 3, parsed.TotalRows)

	dry := Import(ctx, store, Events, parsed, true)
	assert.True(t, dry.DryRun)
	assert.Equal(t, 1, dry.SuccessCount)
	assert.Empty(t, store.GetAll(ctx, Events))

	rep := Import(ctx, store, Events, parsed, false)
	assert.Equal(t, 3, rep.TotalRows)
	assert.Equal(t, 1, rep.SuccessCount)
	require.Equal(t, 2, rep.ErrorCount)
	assert.Equal(t, 4, rep.Errors[0].Row)
	assert.Equal(t, tabular.RowError{Row: 2, Message: "record 2: startDate is required"}, rep.Errors[1])

	got := store.GetAll(ctx, Events)
	require.Len(t, got, 1)
	assert.Equal(t, float64(80), got[0]["capacity"])
	start, ok := got[0]["startDate"].(time.Time)
	require.True(t, ok)
	assert.True(t, start.Equal(time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)))
}

func TestJoinErrors(t *testing.T) {
	assert.Equal(t, "amount must be greater than 0; donorName is required",
		JoinErrors(map[string]string{"donorName": "is required", "amount": "must be greater than 0"}))
}
