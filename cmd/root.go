// Package cmd implements the CLI command structure for the planner.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/huaducdat/daily-task-planner/internal/config"
	"github.com/huaducdat/daily-task-planner/internal/logging"
	"github.com/huaducdat/daily-task-planner/internal/planner"
	"github.com/huaducdat/daily-task-planner/internal/script"
	"github.com/huaducdat/daily-task-planner/internal/store"
	"github.com/huaducdat/daily-task-planner/internal/task"
	"github.com/huaducdat/daily-task-planner/internal/ui"
	"github.com/huaducdat/daily-task-planner/internal/view"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams carries the process I/O so commands can be driven from tests.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the planner CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, std streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	fs.SetOutput(std.err)
	fs.Usage = func() {
		printUsage(fs, std.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, std.out)
		return nil
	}
	if *showVersion {
		return versionCommand(std.out)
	}

	// No subcommand means the interactive planner.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cws.Config, remainingArgs, std)
	case "ls":
		return lsCommand(cws.Config, remainingArgs, std)
	case "replay":
		return replayCommand(ctx, cws.Config, remainingArgs, std)
	case "config":
		return configCommand(cws, remainingArgs, std)
	case "doctor":
		return doctorCommand(cws, remainingArgs, std)
	case "version":
		return versionCommand(std.out)
	case "help":
		printUsage(fs, std.out)
		return nil
	default:
		fmt.Fprintf(std.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, std.err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newLogger builds the logger from config. Output goes to the configured log
// file when there is one, otherwise to fallback. The returned func closes the
// file.
func newLogger(cfg *config.Config, fallback io.Writer) (*log.Logger, func() error, error) {
	noop := func() error { return nil }
	if cfg.LogFile == "" {
		if fallback == nil {
			return logging.Discard(), noop, nil
		}
		return logging.NewFromConfig(fallback, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller), noop, nil
	}
	f, err := logging.OpenLogFile(cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	// A file always gets timestamps; it is read after the fact.
	return logging.NewFromConfig(f, cfg.LogLevel, cfg.LogFormat, true, cfg.LogCaller), f.Close, nil
}

// newClock returns the system clock in the configured zone, or a clock
// pinned to day when it is set.
func newClock(cfg *config.Config, day string) (task.Clock, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if day != "" {
		clock, err := task.FixedDay(day, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid -today %q: use YYYY-MM-DD", day)
		}
		return clock, nil
	}
	return task.SystemClock{Location: loc}, nil
}

// newPlanner wires a store, validator and planner from config.
func newPlanner(cfg *config.Config, clock task.Clock, logger *log.Logger) *planner.Planner {
	var s *store.Store
	if cfg.Seed {
		s = store.NewSeeded()
	} else {
		s = store.New()
	}
	return planner.New(s, task.NewValidator(clock),
		planner.WithLogger(logger),
		planner.WithFilter(cfg.Filter()),
		planner.WithDefaultCategory(cfg.Category()),
	)
}

// tuiCommand runs the interactive planner.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("planner tui", flag.ContinueOnError)
	fs.SetOutput(std.err)
	noAlt := fs.Bool("no-alt-screen", false, "Draw inline instead of using the alternate screen")
	today := fs.String("today", "", "Pin today to YYYY-MM-DD")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	// Logging to the terminal would corrupt the screen.
	logger, closeLog, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()

	clock, err := newClock(cfg, *today)
	if err != nil {
		return err
	}
	p := newPlanner(cfg, clock, logger)
	logger.Debug("tui started", "filter", p.Filter(), "page_size", cfg.PageSize)

	return ui.RunTUI(ctx, p,
		ui.WithPageSize(cfg.PageSize),
		ui.WithAltScreen(!*noAlt),
	)
}

// listReport is the -json form of a listing.
type listReport struct {
	Today    string          `json:"today"`
	Filter   view.FilterMode `json:"filter"`
	Summary  view.Summary    `json:"summary"`
	Tasks    []task.Task     `json:"tasks"`
	Outcomes []outcomeReport `json:"outcomes,omitempty"`
	Counts   map[string]int  `json:"counts,omitempty"`
}

type outcomeReport struct {
	Line   int         `json:"line"`
	Op     script.Op   `json:"op"`
	ID     string      `json:"id,omitempty"`
	Status string      `json:"status"`
	Task   *task.Task  `json:"task,omitempty"`
	Codes  []task.Code `json:"codes,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func newListReport(p *planner.Planner) listReport {
	v := p.View()
	tasks := v.Tasks
	if tasks == nil {
		tasks = []task.Task{}
	}
	return listReport{
		Today:   v.Today,
		Filter:  v.Filter,
		Summary: v.Summary,
		Tasks:   tasks,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printView writes the summary, the filter and the task table.
func printView(w io.Writer, p *planner.Planner) {
	v := p.View()
	fmt.Fprintln(w, ui.RenderSummary(v.Summary))
	fmt.Fprintf(w, "Show: %s\n\n", v.Filter)
	fmt.Fprint(w, ui.RenderTable(v.Tasks, p.Validator().Today()))
}

// lsCommand prints the starting task list through a filter.
func lsCommand(cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("planner ls", flag.ContinueOnError)
	fs.SetOutput(std.err)
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	today := fs.String("today", "", "Pin today to YYYY-MM-DD")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}

	logger, closeLog, err := newLogger(cfg, std.err)
	if err != nil {
		return err
	}
	defer closeLog()

	clock, err := newClock(cfg, *today)
	if err != nil {
		return err
	}
	p := newPlanner(cfg, clock, logger)
	if len(remaining) == 1 {
		mode, err := view.ParseFilterMode(remaining[0])
		if err != nil {
			return err
		}
		if err := p.OnFilterChanged(mode); err != nil {
			return err
		}
	}

	if *asJSON {
		return writeJSON(std.out, newListReport(p))
	}
	printView(std.out, p)
	return nil
}

// replayCommand applies a script of intents to a fresh planner.
func replayCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("planner replay", flag.ContinueOnError)
	fs.SetOutput(std.err)
	asJSON := fs.Bool("json", false, "Print JSON instead of text")
	today := fs.String("today", "", "Pin today to YYYY-MM-DD")
	strict := fs.Bool("strict", false, "Fail when any event is rejected or fails")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("replay needs exactly one script file (use - for stdin)")
	}

	var r io.Reader
	if path := fs.Arg(0); path == "-" {
		r = std.in
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		r = f
	}

	events, err := script.Parse(r)
	if err != nil {
		return fmt.Errorf("parsing script: %w", err)
	}

	logger, closeLog, err := newLogger(cfg, std.err)
	if err != nil {
		return err
	}
	defer closeLog()

	clock, err := newClock(cfg, *today)
	if err != nil {
		return err
	}
	p := newPlanner(cfg, clock, logger)

	outcomes, err := script.Apply(ctx, p, events)
	if err != nil {
		return err
	}
	counts := script.Counts(outcomes)

	if *asJSON {
		report := newListReport(p)
		report.Counts = make(map[string]int, len(counts))
		for status, n := range counts {
			report.Counts[string(status)] = n
		}
		report.Outcomes = make([]outcomeReport, len(outcomes))
		for i, o := range outcomes {
			report.Outcomes[i] = outcomeReport{
				Line:   o.Event.Line,
				Op:     o.Event.Op,
				ID:     o.Event.ID,
				Status: string(o.Status),
				Task:   o.Task,
				Codes:  o.Codes,
			}
			if o.Err != nil {
				report.Outcomes[i].Error = o.Err.Error()
			}
		}
		if err := writeJSON(std.out, report); err != nil {
			return err
		}
	} else {
		for _, o := range outcomes {
			fmt.Fprintln(std.out, o.String())
		}
		fmt.Fprintf(std.out, "\n%d ok, %d rejected, %d failed\n\n",
			counts[script.StatusOK], counts[script.StatusRejected], counts[script.StatusFailed])
		printView(std.out, p)
	}

	if *strict {
		if bad := counts[script.StatusRejected] + counts[script.StatusFailed]; bad > 0 {
			return fmt.Errorf("%d of %d events were not applied", bad, len(outcomes))
		}
	}
	return nil
}

// configCommand prints the effective configuration or an example file.
func configCommand(cws *config.ConfigWithSources, args []string, std streams) error {
	if len(args) > 0 {
		switch args[0] {
		case "example":
			fmt.Fprint(std.out, config.ExampleConfig())
			return nil
		default:
			return fmt.Errorf("unknown config subcommand: %s", args[0])
		}
	}

	width := 0
	entries := cws.Entries()
	for _, e := range entries {
		width = max(width, len(e.Key))
	}
	for _, e := range entries {
		value := e.Value
		if value == "" {
			value = `""`
		}
		fmt.Fprintf(std.out, "%-*s = %-12s (%s)\n", width, e.Key, value, e.Source)
	}

	fmt.Fprintln(std.out)
	if len(cws.Files) == 0 {
		fmt.Fprintln(std.out, "No config files found.")
		return nil
	}
	active := cws.GetConfigFile()
	fmt.Fprintln(std.out, "Files:")
	for _, f := range cws.Files {
		if f == active {
			fmt.Fprintf(std.out, "  %s (active)\n", f)
		} else {
			fmt.Fprintf(std.out, "  %s\n", f)
		}
	}
	return nil
}

// doctorCommand checks config, schemas and the seed fixture.
func doctorCommand(cws *config.ConfigWithSources, args []string, std streams) error {
	fs := flag.NewFlagSet("planner doctor", flag.ContinueOnError)
	fs.SetOutput(std.err)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := std.out
	cfg := cws.Config
	fmt.Fprintln(w, "Planner Doctor")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "  ✅ No config files (defaults)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(w, "  ✅ Loaded %s\n", f)
	}
	if loc, err := cfg.Location(); err != nil {
		fmt.Fprintf(w, "  ❌ Timezone: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "  ✅ Today: %s (%s)\n", task.FormatDate(task.SystemClock{Location: loc}.Now()), loc)
	}
	if cfg.LogFile != "" {
		if f, err := logging.OpenLogFile(cfg.LogFile); err != nil {
			fmt.Fprintf(w, "  ❌ Log file: %v\n", err)
			allOK = false
		} else {
			f.Close()
			fmt.Fprintf(w, "  ✅ Log file: %s\n", cfg.LogFile)
		}
	}
	if *verbose {
		for _, e := range cws.Entries() {
			fmt.Fprintf(w, "     %s = %s (%s)\n", e.Key, e.Value, e.Source)
		}
	}
	fmt.Fprintln(w)

	// Schemas
	fmt.Fprintln(w, "Schemas:")
	compiler, err := task.NewCompiler()
	if err == nil {
		_, err = compiler.Compile(task.SchemaURL)
	}
	taskSchemaOK := err == nil
	if err != nil {
		fmt.Fprintf(w, "  ❌ task: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ task")
	}
	if _, err := script.CompileSchema(); err != nil {
		fmt.Fprintf(w, "  ❌ script: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ script")
	}
	fmt.Fprintln(w)

	// Seed fixture
	fmt.Fprintln(w, "Seed tasks:")
	if taskSchemaOK {
		seedOK := true
		for _, t := range store.SeedTasks() {
			if problems := checkSeedTask(t); len(problems) > 0 {
				fmt.Fprintf(w, "  ❌ %s: %s\n", t.ID, strings.Join(problems, "; "))
				seedOK = false
				allOK = false
			} else if *verbose {
				fmt.Fprintf(w, "  ✅ %s %q\n", t.ID, t.Title)
			}
		}
		if !*verbose && seedOK {
			fmt.Fprintf(w, "  ✅ %d tasks\n", len(store.SeedTasks()))
		}
	} else {
		fmt.Fprintln(w, "  ⚠️  skipped (task schema unavailable)")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return errors.New("doctor checks failed")
}

// checkSeedTask reports structural problems with a fixture task. The
// past-date rule is not applied; fixtures keep fixed dates.
func checkSeedTask(t task.Task) []string {
	var problems []string
	data, err := json.Marshal(t)
	if err != nil {
		return []string{err.Error()}
	}
	if _, err := task.DecodeCandidate(data); err != nil {
		problems = append(problems, err.Error())
	}
	if !t.Category.Valid() {
		problems = append(problems, fmt.Sprintf("invalid category %q", t.Category))
	}
	if _, err := task.ParseDate(t.DueDate, time.UTC); err != nil {
		problems = append(problems, fmt.Sprintf("invalid due date %q", t.DueDate))
	}
	return problems
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "planner version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Planner - A daily task planner for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  planner [options] [command] [command options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui             Launch the interactive planner (default command)")
	fmt.Fprintln(w, "  ls [filter]     Print the starting task list (All|Completed|Incomplete)")
	fmt.Fprintln(w, "  replay <file|-> Apply a JSON Lines script of intents and print the result")
	fmt.Fprintln(w, "  config          Show effective configuration and where each value came from")
	fmt.Fprintln(w, "  config example  Print an example planner.toml")
	fmt.Fprintln(w, "  doctor          Check config, schemas, and seed tasks")
	fmt.Fprintln(w, "  version         Show version information")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tui Options (use with 'tui' command):")
	fmt.Fprintln(w, "  -no-alt-screen")
	fmt.Fprintln(w, "        Draw inline instead of using the alternate screen")
	fmt.Fprintln(w, "  -today string")
	fmt.Fprintln(w, "        Pin today to YYYY-MM-DD")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -json    Print JSON instead of a table")
	fmt.Fprintln(w, "  -today string")
	fmt.Fprintln(w, "        Pin today to YYYY-MM-DD")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replay Options (use with 'replay' command):")
	fmt.Fprintln(w, "  -json    Print JSON instead of text")
	fmt.Fprintln(w, "  -strict  Fail when any event is rejected or fails")
	fmt.Fprintln(w, "  -today string")
	fmt.Fprintln(w, "        Pin today to YYYY-MM-DD")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options (use with 'doctor' command):")
	fmt.Fprintln(w, "  -v    Show every check")
}
