package cli

import (
	"context"
	"fmt"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/tabular"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(_ []string) error {
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

func (c *ExportCommand) executeWithStore(ctx context.Context, store *records.Store) error {
	format, err := tabular.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	res, err := c.Query.run(store.GetAll(ctx, c.Args.Resource), c.Args.Resource, nil)
	if err != nil {
		return err
	}
	a, err := tabular.Export(res.Data, format, tabular.ExportOptions{
		Fields:        c.Fields,
		OmitHeaders:   c.NoHeader,
		BooleanFormat: tabular.BoolFormat(c.Bool),
		DateFormat:    tabular.DateFormat(c.Date),
		Filename:      fmt.Sprintf("%s.%s", c.Args.Resource, format),
	})
	if err != nil {
		return err
	}

	if c.Store {
		sink, err := c.env.exportSink(ctx)
		if err != nil {
			return err
		}
		loc, err := tabular.Deliver(ctx, sink, format, a)
		if err != nil {
			return err
		}
		if c.env.globals.JSON {
			return printJSON(c.env.out, map[string]any{"location": loc, "records": len(res.Data), "size": len(a.Body)})
		}
		fmt.Fprintf(c.env.out, "Exported %d %s to %s\n", len(res.Data), c.Args.Resource, loc)
		return nil
	}

	w, err := c.env.output(c.Output)
	if err != nil {
		return err
	}
	body := a.Body
	if format == tabular.FormatCSV && c.Output == "" {
		body = append(body, '\n')
	}
	if _, err := w.Write(body); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Execute implements the go-flags Commander interface for BackupCommand.
func (c *BackupCommand) Execute(_ []string) error {
	ctx := context.Background()
	store, closeStore, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return c.executeWithStore(ctx, store)
}

func (c *BackupCommand) executeWithStore(ctx context.Context, store *records.Store) error {
	doc, err := store.ExportData(ctx)
	if err != nil {
		return err
	}
	w, err := c.env.output(c.Output)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(doc, '\n')); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
