package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{"planner.toml", ".planner.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.planner/planner.toml first, then the OS-specific config directory.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".planner", "planner.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "planner", "planner.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// GetConfigFile returns the config file that supplied values last, so the
// project file wins over the user file. Empty when no file was read.
func (cws *ConfigWithSources) GetConfigFile() string {
	for i := len(cws.Files) - 1; i >= 0; i-- {
		f := cws.Files[i]
		if filepath.Ext(f) == ".toml" {
			return f
		}
	}
	return ""
}

// Entry is one resolved setting.
type Entry struct {
	Key    string
	Value  string
	Source ConfigSource
}

// Entries lists every setting with its value and source in a stable order.
func (cws *ConfigWithSources) Entries() []Entry {
	fields := configFields()
	out := make([]Entry, 0, len(fields))
	for _, field := range fields {
		src, ok := cws.Sources[field]
		if !ok {
			src = SourceDefault
		}
		out = append(out, Entry{Key: field, Value: cws.Config.Value(field), Source: src})
	}
	return out
}
