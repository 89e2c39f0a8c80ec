// Package controller implements C7: the single reactive tea.Model that owns
// all mutable application state and is the sole mutator (spec §4.7). It
// drives the other core components (capture, status, orchestrator, probe,
// scheduler, interactive) and the thin external collaborators (multiplex,
// clipboardio, eventlog, gitlifecycle, discovery) strictly through their
// contracts.
package controller

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/groveterm/grove/internal/capture"
	"github.com/groveterm/grove/internal/clipboardio"
	"github.com/groveterm/grove/internal/discovery"
	"github.com/groveterm/grove/internal/eventlog"
	"github.com/groveterm/grove/internal/gitlifecycle"
	"github.com/groveterm/grove/internal/interactive"
	"github.com/groveterm/grove/internal/mouse"
	"github.com/groveterm/grove/internal/multiplex"
	"github.com/groveterm/grove/internal/orchestrator"
	"github.com/groveterm/grove/internal/probe"
	"github.com/groveterm/grove/internal/scheduler"
	"github.com/groveterm/grove/internal/workspace"
)

// Deps bundles the collaborators the controller drives through their thin
// contracts. Nothing in Model talks to os/exec, the filesystem, or a
// database directly outside of these.
type Deps struct {
	Multiplexer     multiplex.MultiplexerInput
	MultiplexerKind orchestrator.MultiplexerKind
	Clipboard       clipboardio.ClipboardAccess
	EventLog        eventlog.EventLogger
	GitLocal        map[string]gitlifecycle.GitWorkspaceLifecycle // keyed by project name
	Discovery       *discovery.Discovery
	Probe           *probe.Coordinator
	SidebarPath     string // on-disk location of sidebar-width.txt
	ZellijStateDir  string // directory holding zellij config + capture logs
}

// ToastState mirrors the teacher's statusMsg/statusExpiry/statusIsError
// fields (internal/app/model.go), reused verbatim for the transient status
// bar.
type ToastState struct {
	Message string
	Expiry  time.Time
	IsError bool
}

// Model is the root Bubble Tea model. All fields are private; every mutation
// happens inside Update (or a helper it calls), never from the outside.
type Model struct {
	deps Deps

	width, height int
	ready         bool

	projects   []discovery.Project
	workspaces []*workspace.Workspace
	selected   int
	sidebarPct int // 0..100, persisted to deps.SidebarPath
	showSidebar bool
	activeTab  Tab

	dialog workspace.DialogState

	showKeybindHelp     bool
	showCommandPalette  bool
	commandPaletteInput string

	interactiveTarget *workspace.InteractiveState
	correlator        *interactive.Correlator

	skipPermissionsNextLaunch bool

	lifecycleInFlight bool   // invariant 4: at most one create/delete/merge/update/start/stop task
	lifecycleTraceID  string // correlates this task's log lines (spec §4.7 invariant 4)

	generation scheduler.Generation
	deadline   scheduler.Deadline
	debouncer  scheduler.Debouncer

	tracker *capture.Tracker

	toast ToastState

	discoveryErr string

	// Per-workspace auxiliary state not worth carrying on *Workspace across
	// Msg boundaries (spec §9): last rendered preview/render lines, digests.
	preview map[workspace.WorkspaceKey]previewState

	mouseHandler *mouse.Handler

	logger *slog.Logger
}

type previewState struct {
	RenderLines  string
	CleanedLines string
}

// New constructs a Model from its dependencies and initial discovery
// results. Mirrors the teacher's app.New (internal/app/model.go).
func New(deps Deps, projects []discovery.Project, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(discardWriter{}, nil))
	}
	m := Model{
		deps:        deps,
		projects:    projects,
		showSidebar: true,
		sidebarPct:  readSidebarWidth(deps.SidebarPath, 25),
		tracker:      capture.NewTracker(),
		correlator:   interactive.NewCorrelator(),
		mouseHandler: mouse.NewHandler(),
		logger:       logger,
		preview:      make(map[workspace.WorkspaceKey]previewState),
	}
	return m
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Init starts the first discovery bootstrap and the tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.discoverCmd(), m.tickCmd(100*time.Millisecond))
}

func (m Model) discoverCmd() tea.Cmd {
	projects := m.projects
	d := m.deps.Discovery
	return func() tea.Msg {
		if d == nil {
			return DiscoveryRefreshedMsg{}
		}
		return DiscoveryRefreshedMsg{Results: d.Bootstrap(projects)}
	}
}

func (m Model) tickCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(t time.Time) tea.Msg {
		return TickMsg{At: t}
	})
}

// activeDialog returns the single highest-priority open modal, enforcing
// invariant 1 (modal exclusivity) the same way the teacher's
// Model.activeModal does for its own modal set.
func (m *Model) activeDialog() workspace.DialogKind {
	switch {
	case m.showCommandPalette:
		return workspace.DialogCommandPalette
	case m.showKeybindHelp:
		return workspace.DialogKeybindHelp
	default:
		return m.dialog.Kind
	}
}

// hasModal reports whether any dialog or the command palette/help overlay is
// open. Interactive mode is tracked separately but is mutually exclusive
// with all of these (spec §3's DialogState invariant).
func (m *Model) hasModal() bool {
	return m.activeDialog() != workspace.DialogNone
}

// inInteractive reports whether a live interactive session is attached.
func (m *Model) inInteractive() bool {
	return m.interactiveTarget != nil
}

// selectedWorkspace returns the workspace at the current selection, or nil
// if the list is empty. Enforces invariant 2 (selection in bounds) by
// clamping rather than panicking.
func (m *Model) selectedWorkspace() *workspace.Workspace {
	if len(m.workspaces) == 0 {
		return nil
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(m.workspaces) {
		m.selected = len(m.workspaces) - 1
	}
	return m.workspaces[m.selected]
}

// clampSelection re-establishes invariant 2 after the workspace list
// changes shape (discovery refresh, delete completion).
func (m *Model) clampSelection() {
	if len(m.workspaces) == 0 {
		m.selected = 0
		return
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(m.workspaces) {
		m.selected = len(m.workspaces) - 1
	}
}

// showToast sets a transient status message, mirroring the teacher's
// Model.ShowToast (internal/app/model.go).
func (m *Model) showToast(message string, duration time.Duration, isError bool) {
	m.toast = ToastState{Message: message, Expiry: time.Now().Add(duration), IsError: isError}
}

// clearExpiredToast drops a toast once its expiry has passed.
func (m *Model) clearExpiredToast() {
	if m.toast.Message != "" && time.Now().After(m.toast.Expiry) {
		m.toast = ToastState{}
	}
}

// beginLifecycleTask enforces invariant 4 (lifecycle task exclusivity): it
// returns false (and surfaces a toast) if one is already in flight. The
// trace id it mints is threaded through every log line the task emits, so
// overlapping tasks' lines can be told apart in the event log.
func (m *Model) beginLifecycleTask(verb string) bool {
	if m.lifecycleInFlight {
		m.showToast(verb+" already in progress", 2*time.Second, true)
		return false
	}
	m.lifecycleInFlight = true
	m.lifecycleTraceID = uuid.NewString()
	if m.deps.EventLog != nil {
		m.deps.EventLog.Log(eventlog.Event{Name: "lifecycle.start", Fields: []any{"trace_id", m.lifecycleTraceID, "verb", verb}})
	}
	return true
}

func (m *Model) endLifecycleTask(err error) {
	if m.deps.EventLog != nil {
		m.deps.EventLog.Log(eventlog.Event{Name: "lifecycle.end", Fields: []any{"trace_id", m.lifecycleTraceID, "err", err}})
	}
	m.lifecycleInFlight = false
	m.lifecycleTraceID = ""
}

// findWorkspace locates a workspace by key.
func (m *Model) findWorkspace(key workspace.WorkspaceKey) *workspace.Workspace {
	for _, w := range m.workspaces {
		if w.Key() == key {
			return w
		}
	}
	return nil
}

// ctx is the background context used for Tasks the controller schedules;
// there is no per-request cancellation beyond generation mismatch (spec §5).
func ctx() context.Context { return context.Background() }
