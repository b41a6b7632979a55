package config

import (
	"flag"
)

// flagValues holds parsed global flags until the other layers are loaded.
type flagValues struct {
	set map[string]bool

	logLevel      string
	logFormat     string
	logFile       string
	logTimestamps bool
	logCaller     bool
	filter        string
	category      string
	pageSize      int
	seed          bool
	timezone      string
	envFile       string
}

// flagToSource maps flag names to source field names.
var flagToSource = map[string]string{
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-file":       "log_file",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"filter":         "default_filter",
	"category":       "default_category",
	"page-size":      "page_size",
	"seed":           "seed",
	"timezone":       "timezone",
}

// parseFlags defines the global flags on fs and parses args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) (*flagValues, error) {
	if fs == nil {
		fs = flag.NewFlagSet("planner", flag.ContinueOnError)
	}
	fv := &flagValues{set: make(map[string]bool)}

	// Logging
	fs.StringVar(&fv.logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&fv.logFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.StringVar(&fv.logFile, "log-file", cfg.LogFile, "Append logs to this file (tui logs nowhere without it)")
	fs.BoolVar(&fv.logTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&fv.logCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	// Planner
	fs.StringVar(&fv.filter, "filter", cfg.DefaultFilter, "Initial filter (All, Completed, Incomplete)")
	fs.StringVar(&fv.category, "category", cfg.DefaultCategory, "Default category for new tasks (Work, Personal, Study)")
	fs.IntVar(&fv.pageSize, "page-size", cfg.PageSize, "Rows per page")
	fs.BoolVar(&fv.seed, "seed", cfg.Seed, "Start with the sample tasks")
	fs.StringVar(&fv.timezone, "timezone", cfg.Timezone, "IANA time zone used for \"today\" (default local)")
	fs.StringVar(&fv.envFile, "env-file", DefaultEnvFile, "Read PLANNER_* variables from this file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Track which flags were set
	fs.Visit(func(f *flag.Flag) {
		fv.set[f.Name] = true
	})
	return fv, nil
}

// apply copies explicitly set flags into cfg and updates source tracking.
func (fv *flagValues) apply(cfg *Config, sources map[string]ConfigSource) {
	if fv.set["log-level"] {
		cfg.LogLevel = fv.logLevel
	}
	if fv.set["log-format"] {
		cfg.LogFormat = fv.logFormat
	}
	if fv.set["log-file"] {
		cfg.LogFile = fv.logFile
	}
	if fv.set["log-timestamps"] {
		cfg.LogTimestamps = fv.logTimestamps
	}
	if fv.set["log-caller"] {
		cfg.LogCaller = fv.logCaller
	}
	if fv.set["filter"] {
		cfg.DefaultFilter = fv.filter
	}
	if fv.set["category"] {
		cfg.DefaultCategory = fv.category
	}
	if fv.set["page-size"] {
		cfg.PageSize = fv.pageSize
	}
	if fv.set["seed"] {
		cfg.Seed = fv.seed
	}
	if fv.set["timezone"] {
		cfg.Timezone = fv.timezone
	}

	for name := range fv.set {
		if field, ok := flagToSource[name]; ok {
			sources[field] = SourceFlag
		}
	}
}
