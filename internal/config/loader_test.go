package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Multiplexer.Kind != "tmux" {
		t.Errorf("got multiplexer %q, want 'tmux'", cfg.Multiplexer.Kind)
	}
	if !cfg.UI.ShowSidebar {
		t.Error("sidebar should be shown by default")
	}
	if cfg.UI.SidebarPercent != 25 {
		t.Errorf("got sidebar percent %d, want 25", cfg.UI.SidebarPercent)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Errorf("should not error on missing file: %v", err)
	}
	if cfg == nil {
		t.Error("should return default config")
	}
}

func TestLoadFrom_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := []byte(`
multiplexer.kind = "zellij"

[ui]
show_sidebar = false
sidebar_percent = 40
`)

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Multiplexer.Kind != "zellij" {
		t.Errorf("got multiplexer %q, want 'zellij'", cfg.Multiplexer.Kind)
	}
	if cfg.UI.ShowSidebar {
		t.Error("show_sidebar should be false")
	}
	if cfg.UI.SidebarPercent != 40 {
		t.Errorf("got sidebar percent %d, want 40", cfg.UI.SidebarPercent)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte(`not = [valid`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("should error on invalid TOML")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input  string
		expect string
	}{
		{"~/.claude", filepath.Join(home, ".claude")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tc := range tests {
		got := ExpandPath(tc.input)
		if got != tc.expect {
			t.Errorf("ExpandPath(%q) = %q, want %q", tc.input, got, tc.expect)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Multiplexer.Kind = "bogus"
	cfg.UI.SidebarPercent = -5

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	if cfg.Multiplexer.Kind != "tmux" {
		t.Errorf("got multiplexer %q, want 'tmux' after validation", cfg.Multiplexer.Kind)
	}
	if cfg.UI.SidebarPercent != 25 {
		t.Errorf("got sidebar percent %d, want 25 after validation", cfg.UI.SidebarPercent)
	}
}

func TestLoadFrom_ProjectsList(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	testProjectDir := filepath.Join(dir, "myproject")
	if err := os.MkdirAll(testProjectDir, 0755); err != nil {
		t.Fatal(err)
	}

	content := []byte(`
[[projects.list]]
name = "My Project"
path = "` + testProjectDir + `"

[[projects.list]]
name = "Tilde Project"
path = "~/code/test"
`)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if len(cfg.Projects.List) != 2 {
		t.Errorf("got %d projects, want 2", len(cfg.Projects.List))
	}

	if cfg.Projects.List[0].Name != "My Project" {
		t.Errorf("got name %q, want 'My Project'", cfg.Projects.List[0].Name)
	}
	if cfg.Projects.List[0].Path != testProjectDir {
		t.Errorf("got path %q, want %q", cfg.Projects.List[0].Path, testProjectDir)
	}

	home, _ := os.UserHomeDir()
	expectedPath := filepath.Join(home, "code/test")
	if cfg.Projects.List[1].Path != expectedPath {
		t.Errorf("got path %q, want %q (tilde expanded)", cfg.Projects.List[1].Path, expectedPath)
	}
}

func TestLoadFrom_EmptyProjectsList(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	content := []byte(`multiplexer.kind = "tmux"` + "\n")

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if len(cfg.Projects.List) != 0 {
		t.Errorf("got %d projects, want 0", len(cfg.Projects.List))
	}
}

func TestConfigPath_HonorsXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigPath()
	want := filepath.Join(dir, "grove", "config.toml")
	if got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}
