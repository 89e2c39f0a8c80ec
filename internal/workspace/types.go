// Package workspace holds the data model shared by every reactive-controller
// component: the Workspace record itself, session naming, output digests, and
// the small pieces of per-session state the interactive channel and poll
// scheduler attach to a workspace.
package workspace

import "time"

// AgentType identifies which AI coding agent a workspace is configured to run.
type AgentType string

const (
	AgentClaude   AgentType = "claude"
	AgentCodex    AgentType = "codex"
	AgentOpenCode AgentType = "opencode"
)

// Status is the classifier's output; see internal/status for the rules that
// produce it.
type Status int

const (
	StatusMain Status = iota
	StatusIdle
	StatusActive
	StatusWaiting
	StatusThinking
	StatusDone
	StatusError
	StatusUnsupported
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusMain:
		return "main"
	case StatusIdle:
		return "idle"
	case StatusActive:
		return "active"
	case StatusWaiting:
		return "waiting"
	case StatusThinking:
		return "thinking"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	case StatusUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// HasLiveSession reports whether this status implies a running multiplexer
// session is backing the workspace. Used by the orchestrator's poll-target
// filter and by the controller's key handlers.
func (s Status) HasLiveSession() bool {
	switch s {
	case StatusIdle, StatusUnsupported:
		return false
	default:
		return true
	}
}

// PullRequest is a minimal record of a PR opened from a workspace branch.
type PullRequest struct {
	URL    string
	Number int
	State  string // "open", "merged", "closed"
}

// Workspace is a git worktree managed by Grove: immutable identity plus
// mutable status/activity fields. See spec §3.
type Workspace struct {
	// Immutable identity.
	Name   string
	Path   string
	Branch string
	IsMain bool

	// Mutable.
	Agent            AgentType
	Status           Status
	SupportedAgent   bool
	IsOrphaned       bool
	LastActivityUnix *int64
	ProjectName      string
	ProjectPath      string
	BaseBranch       string
	PullRequests     []PullRequest
}

// NewWorkspace constructs a Workspace honoring the invariant that a main
// worktree starts life with Status = Main (it may later flip to Active if a
// session appears; see orchestrator.Reconcile).
func NewWorkspace(name, path, branch string, isMain bool) *Workspace {
	w := &Workspace{
		Name:           name,
		Path:           path,
		Branch:         branch,
		IsMain:         isMain,
		SupportedAgent: true,
	}
	if isMain {
		w.Status = StatusMain
	} else {
		w.Status = StatusIdle
	}
	return w
}

// Key returns the (project, name) pair used everywhere as a map key for
// per-workspace auxiliary state (generations, digests, change flags) instead
// of retaining a *Workspace across Msg boundaries. See spec §9.
func (w *Workspace) Key() WorkspaceKey {
	return WorkspaceKey{Project: w.ProjectName, Name: w.Name}
}

// WorkspaceKey is the stable identity used by auxiliary maps.
type WorkspaceKey struct {
	Project string
	Name    string
}

// OutputDigest is a compact fingerprint of one capture, used to detect change
// across polls without retaining the raw bytes. See spec §3.
type OutputDigest struct {
	RawHash     uint64
	RawLen      int
	CleanedHash uint64
}

// CaptureChange is the result of running one capture through the pipeline.
type CaptureChange struct {
	Digest         OutputDigest
	ChangedRaw     bool
	ChangedCleaned bool
	CleanedOutput  string
	RenderOutput   string
}

// InteractiveState is owned by the controller while one session is being
// interacted with directly. At most one instance exists at a time (spec §3).
type InteractiveState struct {
	TargetSession string
	TargetPane    string

	LastKeyTime time.Time

	PaneWidth  int
	PaneHeight int
	CursorRow  int
	CursorCol  int
	CursorVis  bool

	EscapePending bool
	EscapeAt      time.Time

	LastMouseEventAt time.Time

	BracketedPasteEnabled bool
	MouseReportingEnabled bool

	ResizeRetried bool
	LastResizeAt  time.Time
}

// PendingInteractiveInput records one forwarded keystroke awaiting
// correlation with the next observed output change for the same session.
type PendingInteractiveInput struct {
	Seq         uint64
	ForwardedAt time.Time
	Session     string
}

// DialogKind tags the DialogState union (spec §3).
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogLaunch
	DialogCreate
	DialogEdit
	DialogDelete
	DialogMerge
	DialogUpdateFromBase
	DialogProjects
	DialogSettings
	DialogKeybindHelp
	DialogCommandPalette
)

// DialogState is the tagged union of app-level modals. At most one of Kind
// plus interactive mode may be active at a time (modal exclusivity).
type DialogState struct {
	Kind DialogKind

	// Target identifies the workspace the dialog acts on, when applicable
	// (Edit, Delete, Merge, UpdateFromBase, Launch).
	Target WorkspaceKey

	// Free-form input buffers, reused across dialog kinds that need exactly
	// one text field (Create's name, Launch's prompt, the picker's filter).
	Input       string
	InputCursor int

	// Confirm dialogs (Delete) need an explicit yes/no focus instead of text.
	ConfirmFocus int // 0 = confirm, 1 = cancel

	Error string
}

// PollGeneration is the wire type carried by poll tasks and their
// completions; see internal/scheduler.Generation for the counter that
// produces and checks these values.
type PollGeneration = uint64
