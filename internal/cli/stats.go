package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/sanctuary"
)

// Execute implements the go-flags Commander interface for SeedCommand.
func (c *SeedCommand) Execute(_ []string) error {
	ctx := context.Background()
	store, closeStore, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return c.executeWithStore(ctx, store)
}

func (c *SeedCommand) executeWithStore(ctx context.Context, store *records.Store) error {
	created, err := sanctuary.Seed(ctx, store)
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return printJSON(c.env.out, created)
	}
	if len(created) == 0 {
		fmt.Fprintln(c.env.out, "Nothing to seed; every resource already has records")
		return nil
	}
	for _, name := range sanctuary.Resources() {
		if n := created[name]; n > 0 {
			fmt.Fprintf(c.env.out, "Seeded %d %s\n", n, name)
		}
	}
	return nil
}

type statsRow struct {
	Resource string `json:"resource"`
	Count    int    `json:"count"`
	records.ResourceStats
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(_ []string) error {
	ctx := context.Background()
	store, closeStore, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return c.executeWithStore(ctx, store)
}

func (c *StatsCommand) executeWithStore(ctx context.Context, store *records.Store) error {
	md := store.Metadata(ctx)
	rows := []statsRow{}
	for _, name := range store.KnownResources(ctx) {
		rows = append(rows, statsRow{Resource: name, Count: len(store.GetAll(ctx, name)), ResourceStats: md[name]})
	}
	if c.env.globals.JSON {
		return printJSON(c.env.out, rows)
	}

	out := c.env.out
	fmt.Fprintf(out, "%-22s %7s %8s %8s %8s  %s\n", "RESOURCE", "RECORDS", "CREATED", "UPDATED", "DELETED", "LAST MODIFIED")
	for _, r := range rows {
		last := "-"
		if !r.LastModified.IsZero() {
			last = r.LastModified.Local().Format(time.DateTime)
		}
		fmt.Fprintf(out, "%-22s %7d %8d %8d %8d  %s\n", r.Resource, r.Count, r.Created, r.Updated, r.Deleted, last)
	}
	return nil
}
