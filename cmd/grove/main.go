// Command grove is the entrypoint for the Grove TUI (spec §6): load config,
// bootstrap discovery, and drive the controller's Bubble Tea program.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/groveterm/grove/internal/clipboardio"
	"github.com/groveterm/grove/internal/config"
	"github.com/groveterm/grove/internal/controller"
	"github.com/groveterm/grove/internal/discovery"
	"github.com/groveterm/grove/internal/eventlog"
	"github.com/groveterm/grove/internal/gitlifecycle"
	"github.com/groveterm/grove/internal/multiplex"
	"github.com/groveterm/grove/internal/multiplex/tmux"
	"github.com/groveterm/grove/internal/multiplex/zellij"
	"github.com/groveterm/grove/internal/orchestrator"
	"github.com/groveterm/grove/internal/probe"
)

// Version is set at build time via ldflags.
var Version = ""

var (
	configPath  = flag.String("config", "", "path to config file")
	projectRoot = flag.String("project", ".", "project root directory")
	debugFlag   = flag.Bool("debug", false, "enable debug logging")
	versionFlag = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	// Unset TMUX so Grove's own tmux sessions are independent of any outer
	// tmux session the terminal may already be running inside.
	_ = os.Unsetenv("TMUX")

	if *versionFlag {
		fmt.Printf("grove version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logFile, err := openLogFile()
	var logWriter = io.Discard
	if err == nil {
		logWriter = logFile
		defer logFile.Close()
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	workDir, err := filepath.Abs(*projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve project root: %v\n", err)
		os.Exit(1)
	}

	projects := buildProjectList(cfg, workDir)

	mplexKind := orchestrator.Tmux
	var mplex multiplex.MultiplexerInput
	if cfg.Multiplexer.Kind == "zellij" {
		mplexKind = orchestrator.Zellij
		mplex = zellij.New(config.ZellijCaptureDir())
	} else {
		mplex = tmux.New()
	}

	gitLocal := make(map[string]gitlifecycle.GitWorkspaceLifecycle, len(projects))
	for _, p := range projects {
		gitLocal[p.Name] = gitlifecycle.New(p.Path)
	}

	probeCoord := probe.NewCoordinator()
	if stop, ok := probeCoord.WatchClaudeAndCodex(logger); ok {
		defer stop()
	}

	deps := controller.Deps{
		Multiplexer:     mplex,
		MultiplexerKind: mplexKind,
		Clipboard:       clipboardio.System{},
		EventLog:        eventlog.New(logger),
		GitLocal:        gitLocal,
		Discovery:       discovery.New(),
		Probe:           probeCoord,
		SidebarPath:     config.SidebarWidthPath(),
		ZellijStateDir:  config.ZellijCaptureDir(),
	}

	model := controller.New(deps, projects, logger)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "grove requires an interactive terminal")
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running grove: %v\n", err)
		os.Exit(1)
	}
}

func buildProjectList(cfg *config.Config, workDir string) []discovery.Project {
	if len(cfg.Projects.List) == 0 {
		return []discovery.Project{{Name: filepath.Base(workDir), Path: workDir}}
	}
	projects := make([]discovery.Project, 0, len(cfg.Projects.List))
	for _, p := range cfg.Projects.List {
		projects = append(projects, discovery.Project{Name: p.Name, Path: p.Path})
	}
	return projects
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// effectiveVersion falls back to build info embedded by `go build` when no
// ldflags version was set.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}
	ver := "devel+" + revision
	if len(ver) > 20 {
		ver = ver[:20]
	}
	if dirty {
		ver += "+dirty"
	}
	return ver
}

// openLogFile opens the debug log file next to config.toml (never stderr:
// it leaks through the TUI).
func openLogFile() (*os.File, error) {
	logPath := filepath.Join(filepath.Dir(config.ConfigPath()), "debug.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: grove [options]\n\n")
		fmt.Fprintf(os.Stderr, "A TUI dashboard for parallel AI coding agent workspaces.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
