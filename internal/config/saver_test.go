package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestSave_WritesMultiplexerAndProjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	cfg.Multiplexer.Kind = "zellij"
	cfg.Projects.List = []ProjectConfig{{Name: "demo", Path: "/tmp/demo"}}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var got Config
	if _, err := toml.DecodeFile(path, &got); err != nil {
		t.Fatalf("decode saved config: %v", err)
	}

	if got.Multiplexer.Kind != "zellij" {
		t.Errorf("got multiplexer %q, want 'zellij'", got.Multiplexer.Kind)
	}
	if len(got.Projects.List) != 1 || got.Projects.List[0].Name != "demo" {
		t.Errorf("got projects %+v, want one project named 'demo'", got.Projects.List)
	}
}

func TestSave_WorksWithNoExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing-parent", "config.toml")

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
}

func TestSave_AtomicRenameLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	if err := Save(Default()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("expected temp file to be renamed away, stat err = %v", err)
	}
}
