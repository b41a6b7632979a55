package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envLookup resolves a variable and reports which layer supplied it.
type envLookup func(key string) (string, ConfigSource, bool)

// newEnvLookup prefers the process environment and falls back to values
// read from a .env file.
func newEnvLookup(dotenv map[string]string) envLookup {
	return func(key string) (string, ConfigSource, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, SourceEnv, true
		}
		if v, ok := dotenv[key]; ok && v != "" {
			return v, SourceDotEnv, true
		}
		return "", "", false
	}
}

// resolveEnvFile picks the .env path: flag, then PLANNER_ENV_FILE, then the
// default. explicit is false only for the default.
func resolveEnvFile(flags *flagValues) (path string, explicit bool) {
	if flags != nil && flags.set["env-file"] {
		return expandPath(flags.envFile), true
	}
	if v := envFileFromEnvironment(); v != "" {
		return expandPath(v), true
	}
	return DefaultEnvFile, false
}

// readDotEnv reads a .env file without touching the process environment.
// A missing default file is not an error.
func readDotEnv(path string, explicit bool) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return values, nil
}

// loadFromEnv overrides config from PLANNER_* variables.
func loadFromEnv(cfg *Config, lookup envLookup, sources map[string]ConfigSource) error {
	str := func(key, field string, target *string) {
		if v, src, ok := lookup(key); ok {
			*target = v
			sources[field] = src
		}
	}
	boolean := func(key, field string, target *bool) {
		if v, src, ok := lookup(key); ok {
			*target = boolFromString(v)
			sources[field] = src
		}
	}

	str("PLANNER_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("PLANNER_LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("PLANNER_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("PLANNER_LOG_CALLER", "log_caller", &cfg.LogCaller)
	str("PLANNER_LOG_FILE", "log_file", &cfg.LogFile)
	str("PLANNER_FILTER", "default_filter", &cfg.DefaultFilter)
	str("PLANNER_CATEGORY", "default_category", &cfg.DefaultCategory)
	boolean("PLANNER_SEED", "seed", &cfg.Seed)
	str("PLANNER_TIMEZONE", "timezone", &cfg.Timezone)

	if v, src, ok := lookup("PLANNER_PAGE_SIZE"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PLANNER_PAGE_SIZE: %q is not an integer", v)
		}
		cfg.PageSize = n
		sources["page_size"] = src
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
