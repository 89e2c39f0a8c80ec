// Package multiplex defines the MultiplexerInput collaborator contract
// (§6.1) and runs orchestrator.Plan/Step values against it. Two
// implementations live in multiplex/tmux and multiplex/zellij, each a thin
// os/exec wrapper in the teacher's exec.Command("tmux", ...) style.
package multiplex

import "context"

// CursorMetadata is the parsed form of capture_cursor_metadata's five
// space-separated fields.
type CursorMetadata struct {
	Visible    bool
	Col        int
	Row        int
	PaneWidth  int
	PaneHeight int
}

// MultiplexerInput is the contract the controller core drives the
// multiplexer through (§6.1). Every method may fail with an I/O error;
// the core never shells out directly.
type MultiplexerInput interface {
	// Execute spawns and waits for command, e.g. ["tmux", "kill-session", "-t", s].
	Execute(ctx context.Context, command []string) error

	// CaptureOutput returns the last scrollbackLines of session's pane,
	// including escape sequences when includeEscape is true.
	CaptureOutput(ctx context.Context, session string, scrollbackLines int, includeEscape bool) (string, error)

	// CaptureCursorMetadata returns the session's cursor visibility,
	// position, and pane size.
	CaptureCursorMetadata(ctx context.Context, session string) (CursorMetadata, error)

	// ResizeSession resizes session's pane/window to (w, h).
	ResizeSession(ctx context.Context, session string, w, h int) error

	// PasteBuffer loads text into the multiplexer's paste buffer and
	// pastes it into session.
	PasteBuffer(ctx context.Context, session, text string) error

	// SupportsBackgroundLaunch/SupportsBackgroundSend report whether the
	// controller may package this backend's launches/sends as
	// fire-and-forget Tasks instead of waiting synchronously.
	SupportsBackgroundLaunch() bool
	SupportsBackgroundSend() bool
}
