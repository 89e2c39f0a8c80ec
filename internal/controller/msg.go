package controller

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveterm/grove/internal/discovery"
	"github.com/groveterm/grove/internal/multiplex"
	"github.com/groveterm/grove/internal/workspace"
)

// Tab identifies which session a workspace row's preview is currently
// showing: the agent's own session, or the `-git` lazygit/diff session.
type Tab int

const (
	TabAgent Tab = iota
	TabGit
)

// PasteEvent carries a bracketed-paste payload forwarded from the terminal,
// distinct from a single key press.
type PasteEvent struct {
	Text string
}

// ResizeMsg reports a terminal resize (spec §4.7's Resize{w,h}).
type ResizeMsg struct {
	Width, Height int
}

// TickMsg drives the adaptive poll loop; see internal/scheduler.Deadline.
type TickMsg struct {
	At time.Time
}

// WorkspaceStatusCapture is one element of PreviewPollCompletedMsg's
// workspace_status_captures: the raw capture for a non-selected (or
// secondary-tab) workspace, destined only for status reclassification.
type WorkspaceStatusCapture struct {
	Key     workspace.WorkspaceKey
	Session string
	Raw     []byte
	Err     error
}

// PreviewPollCompletedMsg is the Task completion for one poll cycle: the
// selected workspace's live capture (if its session exists), a cursor
// capture when interactive, and a batch of status-only captures for every
// other polled workspace.
type PreviewPollCompletedMsg struct {
	Generation workspace.PollGeneration

	LiveSession string
	LiveRaw     []byte
	LiveErr     error

	CursorSession string
	CursorMeta    multiplex.CursorMetadata
	CursorErr     error

	StatusCaptures []WorkspaceStatusCapture
}

// StartAgentCompletedMsg reports the outcome of launching an agent session.
type StartAgentCompletedMsg struct {
	Key     workspace.WorkspaceKey
	Session string
	Err     error
}

// StopAgentCompletedMsg reports the outcome of stopping an agent session.
type StopAgentCompletedMsg struct {
	Key workspace.WorkspaceKey
	Err error
}

// LazygitLaunchCompletedMsg reports the outcome of launching the `-git`
// preview session.
type LazygitLaunchCompletedMsg struct {
	Key     workspace.WorkspaceKey
	Session string
	Err     error
}

// CreateWorkspaceCompletedMsg reports the outcome of a create-workspace
// lifecycle task.
type CreateWorkspaceCompletedMsg struct {
	Name       string
	Path       string
	Branch     string
	BaseBranch string
	Warnings   []string
	Err        error
}

// DeleteWorkspaceCompletedMsg reports the outcome of a delete-workspace
// lifecycle task.
type DeleteWorkspaceCompletedMsg struct {
	Key      workspace.WorkspaceKey
	Warnings []string
	Err      error
}

// MergeWorkspaceCompletedMsg reports the outcome of a merge-workspace
// lifecycle task.
type MergeWorkspaceCompletedMsg struct {
	Key      workspace.WorkspaceKey
	Warnings []string
	Err      error
}

// UpdateWorkspaceFromBaseCompletedMsg reports the outcome of rebasing/
// merging a workspace onto its base branch.
type UpdateWorkspaceFromBaseCompletedMsg struct {
	Key      workspace.WorkspaceKey
	Ahead    int
	Behind   int
	Warnings []string
	Err      error
}

// DiscoveryRefreshedMsg delivers a fresh Discovery.Bootstrap result,
// requested after every lifecycle completion (spec §4.7: "enqueue a
// discovery refresh").
type DiscoveryRefreshedMsg struct {
	Results []discovery.Result
}

// ClipboardActionCompletedMsg reports the outcome of an Alt-C copy or Alt-V
// paste (spec §4.6), so the controller can toast a failure the same way it
// does for lifecycle tasks.
type ClipboardActionCompletedMsg struct {
	Verb string // "copy" or "paste"
	Err  error
}

// NoopMsg is returned by handlers that have nothing further to schedule.
type NoopMsg struct{}

// Noop is the zero-arg Cmd form of NoopMsg, used where a handler must return
// some tea.Cmd but has no work to enqueue.
func Noop() tea.Cmd {
	return func() tea.Msg { return NoopMsg{} }
}
