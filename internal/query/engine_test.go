package query

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc map[string]any

func (d doc) Field(path string) (any, bool) {
	var cur any = map[string]any(d)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func ids(items []doc) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it["id"].(string)
	}
	return out
}

func animals() []doc {
	return []doc{
		{"id": "a1", "name": "Bella", "species": "cow", "age": float64(7), "adopted": false,
			"tags": []any{"gentle", "senior"}, "location": map[string]any{"barn": "North"},
			"arrivalDate": time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"id": "a2", "name": "Wilbur", "species": "pig", "age": float64(3), "adopted": true,
			"tags": []any{"playful"}, "location": map[string]any{"barn": "South"},
			"arrivalDate": time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"id": "a3", "name": "Daisy Mae", "species": "cow", "age": float64(12), "adopted": false,
			"tags": []any{"senior"}, "location": map[string]any{"barn": "North"},
			"arrivalDate": time.Date(2019, 11, 20, 0, 0, 0, 0, time.UTC)},
		{"id": "a4", "name": "Clucky", "species": "chicken", "adopted": false,
			"location": map[string]any{"barn": "Coop"}},
	}
}

func newEngine(data []doc) *Engine[doc] {
	return New(data, Config{SearchableFields: []string{"name", "species", "tags", "location.barn"}})
}

func TestSearch_TextIsCaseInsensitiveAcrossFields(t *testing.T) {
	e := newEngine(animals())

	assert.Equal(t, []string{"a1", "a3"}, ids(e.Search("COW", nil, nil, nil).Data))
	assert.Equal(t, []string{"a1", "a3"}, ids(e.Search("north", nil, nil, nil).Data), "dotted path")
	assert.Equal(t, []string{"a2"}, ids(e.Search("play", nil, nil, nil).Data), "array elements")
}

func TestSearch_ExactAndCaseSensitive(t *testing.T) {
	e := New(animals(), Config{SearchableFields: []string{"name"}, ExactMatch: true})
	assert.Empty(t, e.Search("Daisy", nil, nil, nil).Data)
	assert.Equal(t, []string{"a3"}, ids(e.Search("daisy mae", nil, nil, nil).Data))

	cs := New(animals(), Config{SearchableFields: []string{"name"}, CaseSensitive: true})
	assert.Empty(t, cs.Search("bella", nil, nil, nil).Data)
	assert.Equal(t, []string{"a1"}, ids(cs.Search("Bella", nil, nil, nil).Data))
}

func TestSearch_EmptyTermKeepsEverythingInOrder(t *testing.T) {
	e := newEngine(animals())
	for _, term := range []string{"", "   "} {
		res := e.Search(term, nil, nil, nil)
		assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, ids(res.Data))
		assert.Equal(t, 4, res.TotalCount)
		assert.Nil(t, res.Pagination)
	}
}

func TestFilters_Operators(t *testing.T) {
	data := animals()
	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"equals string ignores case", Filter{Field: "species", Operator: OpEquals, Value: "COW"}, []string{"a1", "a3"}},
		{"equals boolean", Filter{Field: "adopted", Operator: OpEquals, Value: "true", Type: TypeBoolean}, []string{"a2"}},
		{"contains", Filter{Field: "name", Operator: OpContains, Value: "ai"}, []string{"a3"}},
		{"startsWith", Filter{Field: "name", Operator: OpStartsWith, Value: "w"}, []string{"a2"}},
		{"endsWith", Filter{Field: "name", Operator: OpEndsWith, Value: "LA"}, []string{"a1"}},
		{"gt number from string value", Filter{Field: "age", Operator: OpGT, Value: "5", Type: TypeNumber}, []string{"a1", "a3"}},
		{"lte inferred number", Filter{Field: "age", Operator: OpLTE, Value: float64(7)}, []string{"a1", "a2"}},
		{"lt date", Filter{Field: "arrivalDate", Operator: OpLT, Value: "2021-01-01", Type: TypeDate}, []string{"a3"}},
		{"gte date inferred", Filter{Field: "arrivalDate", Operator: OpGTE, Value: "2021-03-01"}, []string{"a1", "a2"}},
		{"in", Filter{Field: "species", Operator: OpIn, Value: []string{"pig", "chicken"}}, []string{"a2", "a4"}},
		{"between", Filter{Field: "age", Operator: OpBetween, Value: []any{3, 7}, Type: TypeNumber}, []string{"a1", "a2"}},
		{"array membership", Filter{Field: "tags", Operator: OpEquals, Value: "senior"}, []string{"a1", "a3"}},
		{"nested", Filter{Field: "location.barn", Operator: OpEquals, Value: "coop"}, []string{"a4"}},
		{"missing field equals nil", Filter{Field: "age", Operator: OpEquals, Value: nil}, []string{"a4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(ApplyFilters(data, []Filter{tc.filter})))
		})
	}
}

func TestFilters_NilValueFailsEveryOtherOperator(t *testing.T) {
	for _, op := range Operators {
		f := Filter{Field: "missing", Operator: op, Value: "x"}
		assert.False(t, Matches(nil, f), string(op))
	}
	assert.True(t, Matches(nil, Filter{Operator: OpEquals}))
}

func TestFilters_AreANDComposed(t *testing.T) {
	data := animals()
	fs := []Filter{
		{Field: "species", Operator: OpEquals, Value: "cow"},
		{Field: "age", Operator: OpGT, Value: 8, Type: TypeNumber},
		{Field: "adopted", Operator: OpEquals, Value: false},
	}
	all := ApplyFilters(data, fs)

	// equals the intersection of each filter on its own
	want := map[string]bool{}
	for _, d := range data {
		want[d["id"].(string)] = true
	}
	for _, f := range fs {
		single := map[string]bool{}
		for _, id := range ids(ApplyFilters(data, []Filter{f})) {
			single[id] = true
		}
		for id := range want {
			if !single[id] {
				delete(want, id)
			}
		}
	}
	require.Len(t, all, len(want))
	for _, id := range ids(all) {
		assert.True(t, want[id])
	}
	assert.Subset(t, ids(ApplyFilters(data, fs[:1])), ids(all))
}

func TestSort_StableWithMissingValuesLast(t *testing.T) {
	data := animals()
	e := newEngine(data)

	asc := e.Search("", nil, &Sort{Field: "age", Direction: Asc}, nil)
	assert.Equal(t, []string{"a2", "a1", "a3", "a4"}, ids(asc.Data))

	desc := e.Search("", nil, &Sort{Field: "age", Direction: Desc}, nil)
	assert.Equal(t, []string{"a3", "a1", "a2", "a4"}, ids(desc.Data))

	bySpecies := e.Search("", nil, &Sort{Field: "species", Direction: Asc}, nil)
	assert.Equal(t, []string{"a4", "a1", "a3", "a2"}, ids(bySpecies.Data), "ties keep input order")

	// source slice untouched
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, ids(data))
}

type countingDoc struct {
	doc
	calls *int
}

func (c countingDoc) Field(path string) (any, bool) {
	*c.calls++
	return c.doc.Field(path)
}

func TestSortBy_ResolvesEachKeyOnce(t *testing.T) {
	calls := 0
	var items []countingDoc
	for i := 50; i > 0; i-- {
		items = append(items, countingDoc{doc: doc{"id": fmt.Sprint(i), "n": i}, calls: &calls})
	}
	SortBy(items, Sort{Field: "n", Direction: Asc})

	assert.Equal(t, len(items), calls)
	assert.Equal(t, 1, items[0].doc["n"])
	assert.Equal(t, 50, items[49].doc["n"])
}

func TestSearch_ThenPaginate(t *testing.T) {
	var data []doc
	for i := 25; i >= 1; i-- {
		data = append(data, doc{"id": fmt.Sprintf("r%02d", i), "name": fmt.Sprintf("Animal %02d", i)})
	}
	e := New(data, Config{SearchableFields: []string{"name"}})

	res := e.Search("a", nil, &Sort{Field: "name", Direction: Asc}, &Page{Page: 2, PageSize: 10})
	require.Len(t, res.Data, 10)
	assert.Equal(t, 25, res.TotalCount)
	require.NotNil(t, res.Pagination)
	assert.Equal(t, PageInfo{Page: 2, PageSize: 10, TotalPages: 3}, *res.Pagination)
	assert.Equal(t, "r11", res.Data[0]["id"])
	assert.Equal(t, "r20", res.Data[9]["id"])
}

func TestPaginate_PagesReconstructTheResult(t *testing.T) {
	var items []int
	for i := range 23 {
		items = append(items, i)
	}
	for _, size := range []int{1, 4, 7, 23, 50} {
		_, info := Paginate(items, Page{Page: 1, PageSize: size})
		var joined []int
		for p := 1; p <= info.TotalPages; p++ {
			page, _ := Paginate(items, Page{Page: p, PageSize: size})
			joined = append(joined, page...)
		}
		assert.Equal(t, items, joined, "pageSize %d", size)
	}

	past, _ := Paginate(items, Page{Page: 9, PageSize: 10})
	assert.Empty(t, past)
	first, info := Paginate(items, Page{Page: 0, PageSize: 5})
	assert.Equal(t, 1, info.Page)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, first)
}

func TestSuggestions(t *testing.T) {
	data := []doc{
		{"id": "1", "name": "Daisy the Dairy cow", "tags": []any{"daring"}},
		{"id": "2", "name": "daisy Dairy", "tags": []any{"Dapper", "da"}},
	}
	e := New(data, Config{SearchableFields: []string{"name", "tags"}})

	assert.Equal(t, []string{"Daisy", "Dairy", "daring", "Dapper"}, e.Suggestions("DA", 10))
	assert.Equal(t, []string{"Daisy", "Dairy"}, e.Suggestions("da", 2))
	assert.Empty(t, e.Suggestions("", 5))
	assert.Empty(t, e.Suggestions("daisy", 5), "exact word is not a suggestion")
}

func TestUpdateData(t *testing.T) {
	e := newEngine(animals())
	e.UpdateData([]doc{{"id": "z", "name": "Zed"}})
	assert.Equal(t, []string{"z"}, ids(e.Search("", nil, nil, nil).Data))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("age:between:2,9:number")
	require.NoError(t, err)
	assert.Equal(t, Filter{Field: "age", Operator: OpBetween, Value: []any{"2", "9"}, Type: TypeNumber}, f)

	f, err = ParseFilter("createdAt:gte:2024-01-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T10:00:00Z", f.Value)
	assert.Empty(t, f.Type)

	_, err = ParseFilter("name:like:x")
	assert.ErrorIs(t, err, ErrInvalidFilter)
	_, err = ParseFilter("name")
	assert.ErrorIs(t, err, ErrInvalidFilter)
	_, err = ParseFilter("age:between:1")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestValueHelpers(t *testing.T) {
	ts, ok := ToTime("2024-05-01")
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	ts, ok = ToTime(float64(1700000000000))
	require.True(t, ok)
	assert.Equal(t, int64(1700000000000), ts.UnixMilli())

	_, ok = ToTime("not a date")
	assert.False(t, ok)

	assert.Equal(t, "2024-05-01T00:00:00.000Z", Stringify(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "3.5", Stringify(3.5))
	assert.Equal(t, -1, Compare(false, true, TypeBoolean))
	assert.Equal(t, 1, Compare("10", "9", TypeNumber))
	assert.Equal(t, -1, Compare("10", "9", TypeString))
	assert.Equal(t, TypeDate, InferType(time.Now()))
}
