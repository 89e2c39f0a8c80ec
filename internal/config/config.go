// Package config loads and saves Grove's on-disk configuration: the
// multiplexer choice and the project list (spec §6), plus a small UI and
// keymap section. Format is TOML rather than the teacher's JSON (see
// DESIGN.md).
package config

// Config is the root configuration structure.
type Config struct {
	Multiplexer MultiplexerConfig `toml:"multiplexer"`
	Projects    ProjectsConfig    `toml:"projects"`
	Keymap      KeymapConfig      `toml:"keymap"`
	UI          UIConfig          `toml:"ui"`
}

// MultiplexerConfig selects and configures the terminal multiplexer backend.
type MultiplexerConfig struct {
	Kind string `toml:"kind"` // "tmux" or "zellij"
}

// ProjectsConfig holds the configured project list (spec §6: "multiplexer
// and project list").
type ProjectsConfig struct {
	List []ProjectConfig `toml:"list"`
}

// ProjectConfig represents a single project Grove discovers workspaces in.
type ProjectConfig struct {
	Name string `toml:"name"` // display name
	Path string `toml:"path"` // repo root, supports ~ expansion
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `toml:"overrides"`
}

// UIConfig configures sidebar layout defaults.
type UIConfig struct {
	ShowSidebar             bool `toml:"show_sidebar"`
	SidebarPercent          int  `toml:"sidebar_percent"`
	SkipPermissionsDefault  bool `toml:"skip_permissions_default"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Multiplexer: MultiplexerConfig{Kind: "tmux"},
		Projects:    ProjectsConfig{},
		Keymap:      KeymapConfig{Overrides: make(map[string]string)},
		UI: UIConfig{
			ShowSidebar:    true,
			SidebarPercent: 25,
		},
	}
}

// Validate checks the configuration for errors, correcting what it can.
func (c *Config) Validate() error {
	switch c.Multiplexer.Kind {
	case "tmux", "zellij":
	default:
		c.Multiplexer.Kind = "tmux"
	}
	if c.UI.SidebarPercent <= 0 || c.UI.SidebarPercent >= 100 {
		c.UI.SidebarPercent = 25
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	return nil
}
