// Package cli implements sanctuaryctl, the operator command line for the
// record store.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	goflags "github.com/jessevdk/go-flags"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/app"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/config"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/sanctuary"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/tabular"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/logger"
)

// env is shared by every subcommand. open and sink are replaced in tests.
type env struct {
	globals GlobalFlags
	in      io.Reader
	out     io.Writer
	open    func(ctx context.Context) (*records.Store, func() error, error)
	sink    func(ctx context.Context) (tabular.Sink, error)
}

func (e *env) config() (*config.Config, error) {
	cfg, err := config.Load(e.globals.Config)
	if err != nil {
		return nil, err
	}
	if e.globals.Verbose {
		logger.Init("debug")
	} else {
		logger.Init(cfg.Log.Level)
	}
	return cfg, nil
}

func (e *env) store(ctx context.Context) (*records.Store, func() error, error) {
	if e.open != nil {
		return e.open(ctx)
	}
	cfg, err := e.config()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Storage.Backend == config.BackendMemory {
		logger.Warnf("STORAGE_BACKEND is memory; nothing this command writes will persist")
	}
	store, backend, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, backend.Close, nil
}

func (e *env) exportSink(ctx context.Context) (tabular.Sink, error) {
	if e.sink != nil {
		return e.sink(ctx)
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	s, err := app.ExportSink(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("no export storage configured (set MINIO_ENDPOINT or EXPORT_DIR)")
	}
	return s, nil
}

// input opens path for reading; "-" is the command's stdin.
func (e *env) input(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(e.in), nil
	}
	return os.Open(path)
}

// output returns a writer for path, or stdout when path is empty.
func (e *env) output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{e.out}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func checkResource(name string) error {
	if !sanctuary.IsResource(name) {
		return fmt.Errorf("unknown resource %q (one of: %s)", name, strings.Join(sanctuary.Resources(), ", "))
	}
	return nil
}

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Search  *SearchCommand
	Export  *ExportCommand
	Import  *ImportCommand
	Backup  *BackupCommand
	Restore *RestoreCommand
	Seed    *SeedCommand
	Stats   *StatsCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(e *env) (*goflags.Parser, *commands) {
	parser := goflags.NewParser(&e.globals, goflags.Default)
	parser.Name = "sanctuaryctl"
	parser.LongDescription = "Operate the Harmony Farm admin record store: search, export, import, back up and restore."

	cmds := &commands{
		Search:  &SearchCommand{env: e},
		Export:  &ExportCommand{env: e},
		Import:  &ImportCommand{env: e},
		Backup:  &BackupCommand{env: e},
		Restore: &RestoreCommand{env: e},
		Seed:    &SeedCommand{env: e},
		Stats:   &StatsCommand{env: e},
	}

	parser.AddCommand("search", "Search records", "Search, filter, sort and page the records of a resource.", cmds.Search)
	parser.AddCommand("export", "Export records as CSV or JSON", "Export the records of a resource matching a query as CSV or JSON.", cmds.Export)
	parser.AddCommand("import", "Import CSV or JSON rows", "Validate and create records from a CSV or JSON file.", cmds.Import)
	parser.AddCommand("backup", "Write a full backup", "Write every resource and the metadata table as one JSON document.", cmds.Backup)
	parser.AddCommand("restore", "Restore a full backup", "Load a backup document written by backup or the admin API.", cmds.Restore)
	parser.AddCommand("seed", "Load demo data", "Load the demo dataset into every resource that is still empty.", cmds.Seed)
	parser.AddCommand("stats", "Show record counts", "Show record counts and change counters per resource.", cmds.Stats)

	return parser, cmds
}

// Run is the entry point for sanctuaryctl using os.Args.
func Run(version string) error {
	return RunWithArgs(version, os.Args[1:])
}

// RunWithArgs parses args and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	e := &env{in: os.Stdin, out: os.Stdout}
	return run(e, version, args)
}

func run(e *env, version string, args []string) error {
	// go-flags requires a subcommand; --version is valid without one.
	for _, arg := range args {
		if arg == "--version" {
			fmt.Fprintf(e.out, "sanctuaryctl %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	// Keep stdout for command output.
	logger.SetOutput(os.Stderr)

	parser, _ := buildParser(e)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}
