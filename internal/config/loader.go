package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	appDirName = "grove"
	configFile = "config.toml"
)

// testConfigPathOverride lets tests redirect ConfigPath() without touching
// the real home directory.
var testConfigPathOverride string

// SetTestConfigPath overrides ConfigPath() for the duration of a test.
func SetTestConfigPath(path string) { testConfigPathOverride = path }

// ResetTestConfigPath clears an override set by SetTestConfigPath.
func ResetTestConfigPath() { testConfigPathOverride = "" }

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path. If path is empty, uses
// ConfigPath() (<config>/grove/config.toml, spec §6).
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	for i := range cfg.Projects.List {
		cfg.Projects.List[i].Path = ExpandPath(cfg.Projects.List[i].Path)
		if _, err := os.Stat(cfg.Projects.List[i].Path); os.IsNotExist(err) {
			slog.Warn("project path not found", "name", cfg.Projects.List[i].Name, "path", cfg.Projects.List[i].Path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns <config>/grove/config.toml, honoring XDG_CONFIG_HOME
// (spec §6: "Standard XDG_* honored for path resolution").
func ConfigPath() string {
	if testConfigPathOverride != "" {
		return testConfigPathOverride
	}
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFile)
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// stateDir returns <state>/grove, honoring XDG_STATE_HOME, for
// sidebar-width.txt and the zellij capture log directory (spec §6).
func stateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appDirName)
}

// SidebarWidthPath returns <state>/grove/sidebar-width.txt.
func SidebarWidthPath() string {
	dir := stateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "sidebar-width.txt")
}

// ZellijCaptureDir returns <state>/grove/zellij-capture, where the zellij
// backend logs pane output per session (spec §6).
func ZellijCaptureDir() string {
	dir := stateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "zellij-capture")
}
