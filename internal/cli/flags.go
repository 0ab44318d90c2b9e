package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file (YAML, JSON or TOML)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging on stderr"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// QueryFlags select and order records for search and export.
type QueryFlags struct {
	Query    string   `short:"q" long:"query" description:"Free-text search term"`
	Fields   []string `long:"search-field" description:"Restrict free-text search to a field (repeatable)"`
	Filters  []string `short:"f" long:"filter" description:"Filter as field:operator:value[:type] (repeatable)"`
	Sort     string   `long:"sort" description:"Sort by field"`
	Desc     bool     `long:"desc" description:"Sort descending"`
	SortType string   `long:"sort-type" description:"Compare sort values as string | number | date | boolean"`
	Exact    bool     `long:"exact" description:"Match the search term against whole values"`
}

type resourceArg struct {
	Resource string `positional-arg-name:"resource" description:"Resource name, e.g. animals"`
}

// SearchCommand lists records matching a query.
type SearchCommand struct {
	Query    QueryFlags  `group:"Query Options"`
	Page     int         `long:"page" description:"Page number" default:"1"`
	PageSize int         `long:"page-size" description:"Records per page; 0 lists all" default:"20"`
	Args     resourceArg `positional-args:"yes" required:"yes"`

	env *env
}

// ExportCommand writes matching records as CSV or JSON.
type ExportCommand struct {
	Query    QueryFlags  `group:"Query Options"`
	Format   string      `long:"format" description:"csv | json" default:"csv"`
	Fields   []string    `long:"field" description:"Column to export, dotted for nested values (repeatable)"`
	NoHeader bool        `long:"no-header" description:"Omit the CSV header row"`
	Bool     string      `long:"bool" description:"Boolean rendering: truefalse | yesno | onezero"`
	Date     string      `long:"date" description:"Date rendering: iso | short | medium | long"`
	Output   string      `short:"o" long:"output" description:"Write to file instead of stdout"`
	Store    bool        `long:"store" description:"Deliver to the configured export storage"`
	Args     resourceArg `positional-args:"yes" required:"yes"`

	env *env
}

// ImportCommand loads CSV or JSON rows into a resource.
type ImportCommand struct {
	Format    string   `long:"format" description:"csv | json; inferred from the file extension when empty"`
	Delimiter string   `long:"delimiter" description:"CSV field delimiter" default:","`
	NoHeader  bool     `long:"no-header" description:"CSV has no header row"`
	Fields    []string `long:"field" description:"Column names for headerless CSV (repeatable)"`
	DryRun    bool     `long:"dry-run" description:"Validate without saving"`
	Args      struct {
		Resource string `positional-arg-name:"resource"`
		File     string `positional-arg-name:"file" description:"Input file, - for stdin"`
	} `positional-args:"yes" required:"yes"`

	env *env
}

// BackupCommand writes the full backup document.
type BackupCommand struct {
	Output string `short:"o" long:"output" description:"Write to file instead of stdout"`

	env *env
}

// RestoreCommand loads a backup document.
type RestoreCommand struct {
	Args struct {
		File string `positional-arg-name:"file" description:"Backup file, - for stdin"`
	} `positional-args:"yes" required:"yes"`

	env *env
}

// SeedCommand loads the demo dataset into empty resources.
type SeedCommand struct {
	env *env
}

// StatsCommand prints record counts and change counters.
type StatsCommand struct {
	env *env
}
