package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/sanctuary"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/tabular"
)

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(_ []string) error {
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

func (c *ImportCommand) format() (tabular.Format, error) {
	if c.Format != "" {
		return tabular.ParseFormat(c.Format)
	}
	if strings.EqualFold(filepath.Ext(c.Args.File), ".json") {
		return tabular.FormatJSON, nil
	}
	return tabular.FormatCSV, nil
}

func (c *ImportCommand) executeWithStore(ctx context.Context, store *records.Store) error {
	format, err := c.format()
	if err != nil {
		return err
	}
	text, err := c.readAll(c.Args.File)
	if err != nil {
		return err
	}

	var parsed tabular.ImportResult
	if format == tabular.FormatJSON {
		parsed = tabular.ParseJSON(text)
	} else {
		opts := tabular.CSVOptions{NoHeader: c.NoHeader, Fields: c.Fields}
		if d := c.Delimiter; d != "" {
			if d == `\t` {
				d = "\t"
			}
			opts.Delimiter, _ = utf8.DecodeRuneInString(d)
		}
		parsed = tabular.ParseCSV(text, opts)
	}

	rep := sanctuary.Import(ctx, store, c.Args.Resource, parsed, c.DryRun)
	if c.env.globals.JSON {
		if err := printJSON(c.env.out, rep); err != nil {
			return err
		}
	} else {
		verb := "Imported"
		if rep.DryRun {
			verb = "Validated"
		}
		fmt.Fprintf(c.env.out, "%s %d of %d rows into %s\n", verb, rep.SuccessCount, rep.TotalRows, c.Args.Resource)
		for _, e := range rep.Errors {
			fmt.Fprintf(c.env.out, "  row %d: %s\n", e.Row, e.Message)
		}
	}
	if rep.SuccessCount == 0 && rep.ErrorCount > 0 {
		return fmt.Errorf("import failed: %d rows rejected", rep.ErrorCount)
	}
	return nil
}

func (c *ImportCommand) readAll(path string) (string, error) {
	r, err := c.env.input(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	return string(b), err
}

// Execute implements the go-flags Commander interface for RestoreCommand.
func (c *RestoreCommand) Execute(_ []string) error {
	ctx := context.Background()
	store, closeStore, err := c.env.store(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return c.executeWithStore(ctx, store)
}

func (c *RestoreCommand) executeWithStore(ctx context.Context, store *records.Store) error {
	r, err := c.env.input(c.Args.File)
	if err != nil {
		return err
	}
	defer r.Close()
	doc, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err := store.ImportData(ctx, doc); err != nil {
		return err
	}
	fmt.Fprintf(c.env.out, "Restored backup from %s\n", c.Args.File)
	return nil
}
