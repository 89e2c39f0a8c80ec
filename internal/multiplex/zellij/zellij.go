// Package zellij implements multiplex.MultiplexerInput over the zellij CLI.
// Zellij has no tmux-style capture-pane: §4.3's launch plan runs the agent
// under `script` writing to a per-session capture log, which this backend
// tails for CaptureOutput. No teacher or pack example covers Zellij; this
// follows spec.md §4.3/§6.1's prose directly (see DESIGN.md).
package zellij

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/groveterm/grove/internal/multiplex"
)

// Zellij drives sessions through the zellij binary on PATH, reading capture
// output from a per-session log file under logDir.
type Zellij struct {
	LogDir string
}

// New returns a Zellij backend that keeps capture logs under logDir.
func New(logDir string) Zellij {
	return Zellij{LogDir: logDir}
}

func (Zellij) Execute(ctx context.Context, command []string) error {
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

// captureLogPath mirrors orchestrator.ZellijPaths.CaptureLog's naming
// convention: one log file per session under LogDir.
func (z Zellij) captureLogPath(session string) string {
	return filepath.Join(z.LogDir, session+".ansi.log")
}

func (z Zellij) CaptureOutput(ctx context.Context, session string, scrollbackLines int, includeEscape bool) (string, error) {
	data, err := os.ReadFile(z.captureLogPath(session))
	if err != nil {
		return "", err
	}
	text := string(data)
	if !includeEscape {
		text = stripANSIBestEffort(text)
	}
	trailingNewline := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) > scrollbackLines {
		lines = lines[len(lines)-scrollbackLines:]
	}
	out := strings.Join(lines, "\n")
	if trailingNewline {
		out += "\n"
	}
	return out, nil
}

// stripANSIBestEffort removes a SGR/CSI escape sequence's bytes, leaving
// plain text. This is a lightweight pass for the Zellij backend only; the
// authoritative ANSI scanner lives in internal/capture.
func stripANSIBestEffort(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j - 1
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// CaptureCursorMetadata has no tmux-style display-message equivalent in
// zellij; reachability of the session is the only signal available, so
// cursor visibility is reported true whenever the probe succeeds.
func (z Zellij) CaptureCursorMetadata(ctx context.Context, session string) (multiplex.CursorMetadata, error) {
	if err := exec.CommandContext(ctx, "zellij", "list-sessions").Run(); err != nil {
		return multiplex.CursorMetadata{}, err
	}
	return multiplex.CursorMetadata{Visible: true}, nil
}

func (z Zellij) ResizeSession(ctx context.Context, session string, w, h int) error {
	_ = w
	_ = h
	return z.Execute(ctx, []string{"zellij", "action", "resize", "increase"})
}

func (z Zellij) PasteBuffer(ctx context.Context, session, text string) error {
	return z.Execute(ctx, []string{"zellij", "action", "write-chars", text})
}

func (Zellij) SupportsBackgroundLaunch() bool { return true }
func (Zellij) SupportsBackgroundSend() bool   { return false }

var _ multiplex.MultiplexerInput = Zellij{}
