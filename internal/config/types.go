package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/huaducdat/daily-task-planner/internal/task"
	"github.com/huaducdat/daily-task-planner/internal/view"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceDotEnv   ConfigSource = "env file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultFilter    = string(view.FilterAll)
	DefaultCategory  = string(task.CategoryWork)
	DefaultPageSize  = view.DefaultPageSize
	DefaultSeed      = true
	DefaultEnvFile   = ".env"
)

// Config holds the full configuration for the planner.
type Config struct {
	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"`

	// Planner
	DefaultFilter   string `toml:"default_filter"`
	DefaultCategory string `toml:"default_category"`
	PageSize        int    `toml:"page_size"`
	Seed            bool   `toml:"seed"`
	Timezone        string `toml:"timezone"`

	// EnvFile is the .env path; flag and environment only.
	EnvFile string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_file",
		"default_filter",
		"default_category",
		"page_size",
		"seed",
		"timezone",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
	cfg.LogFile = ""
	cfg.DefaultFilter = DefaultFilter
	cfg.DefaultCategory = DefaultCategory
	cfg.PageSize = DefaultPageSize
	cfg.Seed = DefaultSeed
	cfg.Timezone = ""
}

// Filter returns the configured start filter.
func (c *Config) Filter() view.FilterMode {
	mode, err := view.ParseFilterMode(c.DefaultFilter)
	if err != nil {
		return view.FilterAll
	}
	return mode
}

// Category returns the category new tasks default to.
func (c *Config) Category() task.Category {
	cat, err := task.ParseCategory(c.DefaultCategory)
	if err != nil {
		return task.CategoryWork
	}
	return cat
}

// Location resolves Timezone. Empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Value returns the display form of a field from configFields.
func (c *Config) Value(field string) string {
	switch field {
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	case "log_file":
		return c.LogFile
	case "default_filter":
		return c.DefaultFilter
	case "default_category":
		return c.DefaultCategory
	case "page_size":
		return strconv.Itoa(c.PageSize)
	case "seed":
		return strconv.FormatBool(c.Seed)
	case "timezone":
		return c.Timezone
	}
	return ""
}
