package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/huaducdat/daily-task-planner/internal/logging"
	"github.com/huaducdat/daily-task-planner/internal/task"
	"github.com/huaducdat/daily-task-planner/internal/view"
)

// LoadWithSources loads configuration from every layer, parses args into fs
// and tracks the source of each value. Arguments left after the global flags
// are available from fs.Args().
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// Flags are parsed first so -env-file is known, but applied last.
	flags, err := parseFlags(cfg, fs, args)
	if err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	var files []string

	// 2. User config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. .env file and 5. environment
	envFile, explicit := resolveEnvFile(flags)
	dotenv, err := readDotEnv(envFile, explicit)
	if err != nil {
		return nil, err
	}
	if dotenv != nil {
		files = append(files, envFile)
	}
	cfg.EnvFile = envFile
	if err := loadFromEnv(cfg, newEnvLookup(dotenv), sources); err != nil {
		return nil, err
	}

	// 6. CLI flags (they override everything)
	flags.apply(cfg, sources)

	// 7. Compute derived values and check the result
	finalizeConfig(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// loadConfigFile decodes a TOML file over cfg and marks every key it
// defines with source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig normalizes values after all layers are applied.
func finalizeConfig(cfg *Config) {
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.LogFile = expandPath(strings.TrimSpace(cfg.LogFile))
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)

	if mode, err := view.ParseFilterMode(cfg.DefaultFilter); err == nil {
		cfg.DefaultFilter = string(mode)
	}
	if cat, err := task.ParseCategory(cfg.DefaultCategory); err == nil {
		cfg.DefaultCategory = string(cat)
	}
}

// Validate checks that every value is usable. All problems are reported.
func Validate(cfg *Config) error {
	var errs []error
	if !logging.ValidLevel(cfg.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", cfg.LogLevel))
	}
	if !logging.ValidFormat(cfg.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format: unknown format %q (expected text, json or logfmt)", cfg.LogFormat))
	}
	if _, err := view.ParseFilterMode(cfg.DefaultFilter); err != nil {
		errs = append(errs, fmt.Errorf("default_filter: %w", err))
	}
	if _, err := task.ParseCategory(cfg.DefaultCategory); err != nil {
		errs = append(errs, fmt.Errorf("default_category: %w", err))
	}
	if cfg.PageSize < 1 {
		errs = append(errs, fmt.Errorf("page_size: must be at least 1, got %d", cfg.PageSize))
	}
	if _, err := cfg.Location(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// envFileFromEnvironment returns PLANNER_ENV_FILE when set.
func envFileFromEnvironment() string {
	return strings.TrimSpace(os.Getenv("PLANNER_ENV_FILE"))
}
