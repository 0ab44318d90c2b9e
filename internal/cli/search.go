package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/query"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/sanctuary"
)

// run applies the query flags to every record of resource.
func (q QueryFlags) run(list []records.Record, resource string, page *query.Page) (query.Result[records.Record], error) {
	cfg := query.Config{SearchableFields: sanctuary.Searchable(resource), ExactMatch: q.Exact}
	if len(q.Fields) > 0 {
		cfg.SearchableFields = q.Fields
	}
	var filters []query.Filter
	for _, raw := range q.Filters {
		f, err := query.ParseFilter(raw)
		if err != nil {
			return query.Result[records.Record]{}, err
		}
		filters = append(filters, f)
	}
	var sort *query.Sort
	if q.Sort != "" {
		sort = &query.Sort{Field: q.Sort, Direction: query.Asc, Type: query.ValueType(q.SortType)}
		if q.Desc {
			sort.Direction = query.Desc
		}
	}
	return query.New(list, cfg).Search(q.Query, filters, sort, page), nil
}

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(_ []string) error {
	if err := checkResource(c.Args.Resource); err != nil {
		return err
	}
	ctx := context.Background()
	store, closeStore, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return c.executeWithStore(ctx, store)
}

func (c *SearchCommand) executeWithStore(ctx context.Context, store *records.Store) error {
	var page *query.Page
	if c.PageSize > 0 {
		page = &query.Page{Page: c.Page, PageSize: c.PageSize}
	}
	res, err := c.Query.run(store.GetAll(ctx, c.Args.Resource), c.Args.Resource, page)
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return printJSON(c.env.out, res)
	}
	return c.printHuman(res)
}

func (c *SearchCommand) printHuman(res query.Result[records.Record]) error {
	out := c.env.out
	if res.TotalCount == 0 {
		fmt.Fprintf(out, "No %s found\n", c.Args.Resource)
		return nil
	}
	word := "records"
	if res.TotalCount == 1 {
		word = "record"
	}
	fmt.Fprintf(out, "Found %d %s in %s", res.TotalCount, word, c.Args.Resource)
	if p := res.Pagination; p != nil && p.TotalPages > 1 {
		fmt.Fprintf(out, " (page %d of %d)", p.Page, p.TotalPages)
	}
	fmt.Fprintln(out)

	offset := 0
	if p := res.Pagination; p != nil {
		offset = (p.Page - 1) * p.PageSize
	}
	for i, r := range res.Data {
		fmt.Fprintf(out, "%3d. %-32s %s\n", offset+i+1, label(r), r.ID())
	}
	return nil
}

var labelFields = []string{"name", "title", "question", "donorName"}

// label picks the field a person would recognize a record by.
func label(r records.Record) string {
	for _, f := range labelFields {
		if s, ok := r[f].(string); ok && s != "" {
			return s
		}
	}
	return r.ID()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
