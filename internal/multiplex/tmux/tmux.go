// Package tmux implements multiplex.MultiplexerInput over the tmux CLI,
// mirroring the teacher's exec.Command("tmux", ...) call style
// (internal/plugins/worktree/interactive.go, tmux.go).
package tmux

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/groveterm/grove/internal/multiplex"
)

// Tmux drives sessions through the tmux binary on PATH.
type Tmux struct{}

// New returns a Tmux backend.
func New() Tmux { return Tmux{} }

func (Tmux) Execute(ctx context.Context, command []string) error {
	if len(command) == 0 {
		return nil
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%s: %w", strings.TrimSpace(stderr.String()), err)
		}
		return err
	}
	return nil
}

func (Tmux) CaptureOutput(ctx context.Context, session string, scrollbackLines int, includeEscape bool) (string, error) {
	args := []string{"capture-pane", "-t", session, "-p", "-S", "-" + strconv.Itoa(scrollbackLines)}
	if includeEscape {
		args = append(args, "-e")
	}
	out, err := exec.CommandContext(ctx, "tmux", args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (Tmux) CaptureCursorMetadata(ctx context.Context, session string) (multiplex.CursorMetadata, error) {
	out, err := exec.CommandContext(ctx, "tmux", "display-message", "-t", session, "-p",
		"#{cursor_flag} #{cursor_x} #{cursor_y} #{pane_width} #{pane_height}").Output()
	if err != nil {
		return multiplex.CursorMetadata{}, err
	}
	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) != 5 {
		return multiplex.CursorMetadata{}, fmt.Errorf("unexpected cursor metadata: %q", out)
	}
	visible, _ := strconv.Atoi(fields[0])
	col, _ := strconv.Atoi(fields[1])
	row, _ := strconv.Atoi(fields[2])
	w, _ := strconv.Atoi(fields[3])
	h, _ := strconv.Atoi(fields[4])
	return multiplex.CursorMetadata{Visible: visible != 0, Col: col, Row: row, PaneWidth: w, PaneHeight: h}, nil
}

func (t Tmux) ResizeSession(ctx context.Context, session string, w, h int) error {
	err := t.Execute(ctx, []string{"tmux", "resize-window", "-t", session, "-x", strconv.Itoa(w), "-y", strconv.Itoa(h)})
	if err == nil {
		return nil
	}
	return t.Execute(ctx, []string{"tmux", "resize-pane", "-t", session, "-x", strconv.Itoa(w), "-y", strconv.Itoa(h)})
}

func (Tmux) PasteBuffer(ctx context.Context, session, text string) error {
	load := exec.CommandContext(ctx, "tmux", "load-buffer", "-")
	load.Stdin = strings.NewReader(text)
	if err := load.Run(); err != nil {
		return err
	}
	return exec.CommandContext(ctx, "tmux", "paste-buffer", "-t", session).Run()
}

func (Tmux) SupportsBackgroundLaunch() bool { return true }
func (Tmux) SupportsBackgroundSend() bool   { return true }

var _ multiplex.MultiplexerInput = Tmux{}
