package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/huaducdat/daily-task-planner/internal/task"
	"github.com/huaducdat/daily-task-planner/internal/view"
)

var plannerEnv = []string{
	"PLANNER_LOG_LEVEL",
	"PLANNER_LOG_FORMAT",
	"PLANNER_LOG_TIMESTAMPS",
	"PLANNER_LOG_CALLER",
	"PLANNER_LOG_FILE",
	"PLANNER_FILTER",
	"PLANNER_CATEGORY",
	"PLANNER_PAGE_SIZE",
	"PLANNER_SEED",
	"PLANNER_TIMEZONE",
	"PLANNER_ENV_FILE",
}

// isolate points the home and config directories at empty temp dirs, clears
// PLANNER_* variables and moves into a fresh project dir, which it returns.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, k := range plannerEnv {
		t.Setenv(k, "")
	}
	chdir(t, project)
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cws, err := LoadWithSources(nil, nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.LogLevel != DefaultLogLevel || cfg.LogFormat != DefaultLogFormat {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Filter() != view.FilterAll {
		t.Errorf("Filter: got %s", cfg.Filter())
	}
	if cfg.Category() != task.CategoryWork {
		t.Errorf("Category: got %s", cfg.Category())
	}
	if cfg.PageSize != DefaultPageSize || !cfg.Seed {
		t.Errorf("page size %d, seed %v", cfg.PageSize, cfg.Seed)
	}
	if loc, err := cfg.Location(); err != nil || loc.String() != "Local" {
		t.Errorf("Location: got %v, %v", loc, err)
	}
	if len(cws.Files) != 0 || cws.GetConfigFile() != "" {
		t.Errorf("no files expected, got %v", cws.Files)
	}
	for _, e := range cws.Entries() {
		if e.Source != SourceDefault {
			t.Errorf("%s: source %s, want default", e.Key, e.Source)
		}
	}
}

func TestLoadConfigFiles(t *testing.T) {
	home, _ := isolate(t)
	userFile := filepath.Join(home, ".planner", "planner.toml")
	writeFile(t, userFile, `
log_level = "debug"
page_size = 8
default_category = "personal"
`)
	writeFile(t, "planner.toml", `
page_size = 3
default_filter = "incomplete"
`)

	cws, err := LoadWithSources(nil, nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.LogLevel != "debug" || cws.Sources["log_level"] != SourceUserFile {
		t.Errorf("log_level: %q from %s", cfg.LogLevel, cws.Sources["log_level"])
	}
	if cfg.PageSize != 3 || cws.Sources["page_size"] != SourceProjFile {
		t.Errorf("page_size: %d from %s", cfg.PageSize, cws.Sources["page_size"])
	}
	if cfg.DefaultCategory != "Personal" {
		t.Errorf("category not canonicalized: %q", cfg.DefaultCategory)
	}
	if cfg.DefaultFilter != "Incomplete" || cws.Sources["default_filter"] != SourceProjFile {
		t.Errorf("default_filter: %q from %s", cfg.DefaultFilter, cws.Sources["default_filter"])
	}
	if cws.Sources["seed"] != SourceDefault {
		t.Errorf("seed: source %s", cws.Sources["seed"])
	}
	if len(cws.Files) != 2 || cws.Files[0] != userFile {
		t.Errorf("Files: got %v", cws.Files)
	}
	if got := cws.GetConfigFile(); got != "planner.toml" {
		t.Errorf("GetConfigFile: got %q", got)
	}
}

func TestLoadConfigFileUnknownKeys(t *testing.T) {
	isolate(t)
	writeFile(t, ".planner.toml", "max_iterations = 3\npage_size = 2\n")

	_, err := LoadWithSources(nil, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown keys: max_iterations") {
		t.Fatalf("got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PLANNER_LOG_FORMAT", "JSON")
	t.Setenv("PLANNER_PAGE_SIZE", "12")
	t.Setenv("PLANNER_SEED", "off")
	t.Setenv("PLANNER_TIMEZONE", "UTC")
	writeFile(t, "planner.toml", "page_size = 3\n")

	cws, err := LoadWithSources(nil, nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q", cfg.LogFormat)
	}
	if cfg.PageSize != 12 || cws.Sources["page_size"] != SourceEnv {
		t.Errorf("page_size: %d from %s", cfg.PageSize, cws.Sources["page_size"])
	}
	if cfg.Seed {
		t.Error("Seed should be false")
	}
	if loc, _ := cfg.Location(); loc.String() != "UTC" {
		t.Errorf("Location: got %v", loc)
	}
}

func TestLoadFromEnvBadPageSize(t *testing.T) {
	isolate(t)
	t.Setenv("PLANNER_PAGE_SIZE", "many")

	_, err := LoadWithSources(nil, nil)
	if err == nil || !strings.Contains(err.Error(), "PLANNER_PAGE_SIZE") {
		t.Fatalf("got %v", err)
	}
}

func TestDotEnv(t *testing.T) {
	t.Run("default file fills unset variables", func(t *testing.T) {
		isolate(t)
		writeFile(t, ".env", "PLANNER_CATEGORY=Study\nPLANNER_LOG_LEVEL=warn\n")
		t.Setenv("PLANNER_LOG_LEVEL", "error")

		cws, err := LoadWithSources(nil, nil)
		if err != nil {
			t.Fatalf("LoadWithSources: %v", err)
		}
		if cws.Config.DefaultCategory != "Study" || cws.Sources["default_category"] != SourceDotEnv {
			t.Errorf("category: %q from %s", cws.Config.DefaultCategory, cws.Sources["default_category"])
		}
		if cws.Config.LogLevel != "error" || cws.Sources["log_level"] != SourceEnv {
			t.Errorf("environment should win over .env: %q from %s", cws.Config.LogLevel, cws.Sources["log_level"])
		}
		if os.Getenv("PLANNER_CATEGORY") != "" {
			t.Error(".env must not modify the process environment")
		}
	})

	t.Run("missing default file is ignored", func(t *testing.T) {
		isolate(t)
		if _, err := LoadWithSources(nil, nil); err != nil {
			t.Fatalf("LoadWithSources: %v", err)
		}
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		isolate(t)
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		_, err := LoadWithSources(fs, []string{"-env-file", "nope.env"})
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("got %v, want not-exist error", err)
		}
	})

	t.Run("file named by PLANNER_ENV_FILE", func(t *testing.T) {
		isolate(t)
		writeFile(t, "conf/planner.env", "PLANNER_PAGE_SIZE=9\n")
		t.Setenv("PLANNER_ENV_FILE", "conf/planner.env")

		cws, err := LoadWithSources(nil, nil)
		if err != nil {
			t.Fatalf("LoadWithSources: %v", err)
		}
		if cws.Config.PageSize != 9 || cws.Config.EnvFile != "conf/planner.env" {
			t.Errorf("page size %d, env file %q", cws.Config.PageSize, cws.Config.EnvFile)
		}
	})
}

func TestParseFlags(t *testing.T) {
	isolate(t)
	t.Setenv("PLANNER_FILTER", "Completed")
	writeFile(t, "planner.toml", "page_size = 3\nlog_caller = true\n")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"-page-size", "7",
		"-filter", "incomplete",
		"-seed=false",
		"-log-caller=false",
		"ls", "extra",
	}
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.PageSize != 7 || cws.Sources["page_size"] != SourceFlag {
		t.Errorf("page_size: %d from %s", cfg.PageSize, cws.Sources["page_size"])
	}
	if cfg.Filter() != view.FilterIncomplete || cws.Sources["default_filter"] != SourceFlag {
		t.Errorf("filter: %s from %s", cfg.Filter(), cws.Sources["default_filter"])
	}
	if cfg.Seed || cfg.LogCaller {
		t.Errorf("seed %v, log caller %v", cfg.Seed, cfg.LogCaller)
	}
	if got := strings.Join(fs.Args(), " "); got != "ls extra" {
		t.Errorf("remaining args: got %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{"defaults", func(*Config) {}, nil},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, []string{"log_level"}},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, []string{"log_format"}},
		{"bad filter", func(c *Config) { c.DefaultFilter = "Overdue" }, []string{"default_filter"}},
		{"bad category", func(c *Config) { c.DefaultCategory = "Chores" }, []string{"default_category"}},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, []string{"page_size"}},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, []string{"timezone"}},
		{"all reported", func(c *Config) {
			c.LogLevel = "loud"
			c.PageSize = -1
		}, []string{"log_level", "page_size"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.mutate(cfg)

			err := Validate(cfg)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %s", err, want)
				}
			}
		})
	}
}

func TestExampleConfigLoads(t *testing.T) {
	isolate(t)
	writeFile(t, "planner.toml", ExampleConfig())

	cws, err := LoadWithSources(nil, nil)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cws.Sources["page_size"] != SourceProjFile {
		t.Errorf("page_size source: %s", cws.Sources["page_size"])
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	type pathCase struct {
		input string
		want  string
	}
	tests := []pathCase{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}
	if runtime.GOOS == "windows" {
		t.Setenv("PLANNER_TEST_HOME", home)
		tests = append(tests,
			pathCase{`~\test`, filepath.Join(home, "test")},
			pathCase{`%PLANNER_TEST_HOME%\logs`, filepath.Join(home, "logs")},
		)
	} else {
		t.Setenv("PLANNER_TEST_DIR", "/var/tmp")
		tests = append(tests,
			pathCase{`~\test`, `~\test`},
			pathCase{"$PLANNER_TEST_DIR/planner.log", "/var/tmp/planner.log"},
		)
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := boolFromString(tt.input)
			if got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
