package tmux

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// requireTmux skips the test if no tmux binary is reachable.
func requireTmux(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not available")
	}
}

// withSession creates a throwaway detached tmux session running a shell,
// yields its name to fn, and kills it afterward regardless of outcome.
func withSession(t *testing.T, fn func(session string)) {
	t.Helper()
	requireTmux(t)
	session := "grove-test-" + uuid.NewString()[:8]
	require.NoError(t, exec.Command("tmux", "new-session", "-d", "-s", session, "-x", "80", "-y", "24").Run())
	t.Cleanup(func() {
		_ = exec.Command("tmux", "kill-session", "-t", session).Run()
	})
	fn(session)
}

func TestTmux_ExecuteRunsCommand(t *testing.T) {
	withSession(t, func(session string) {
		tx := New()
		err := tx.Execute(context.Background(), []string{"tmux", "send-keys", "-t", session, "echo hello", "Enter"})
		require.NoError(t, err)
	})
}

func TestTmux_ExecuteWrapsStderr(t *testing.T) {
	requireTmux(t)
	tx := New()
	err := tx.Execute(context.Background(), []string{"tmux", "display-message", "-t", "grove-nonexistent-session-xyz", "-p", "x"})
	require.Error(t, err)
}

func TestTmux_CaptureOutputReturnsPaneText(t *testing.T) {
	withSession(t, func(session string) {
		tx := New()
		require.NoError(t, exec.Command("tmux", "send-keys", "-t", session, "echo grove-marker-123", "Enter").Run())
		time.Sleep(200 * time.Millisecond)

		out, err := tx.CaptureOutput(context.Background(), session, 50, false)
		require.NoError(t, err)
		require.Contains(t, out, "grove-marker-123")
	})
}

func TestTmux_CaptureCursorMetadataParsesFiveFields(t *testing.T) {
	withSession(t, func(session string) {
		tx := New()
		meta, err := tx.CaptureCursorMetadata(context.Background(), session)
		require.NoError(t, err)
		require.Equal(t, 80, meta.PaneWidth)
		require.Equal(t, 24, meta.PaneHeight)
	})
}

func TestTmux_ResizeSession(t *testing.T) {
	withSession(t, func(session string) {
		tx := New()
		err := tx.ResizeSession(context.Background(), session, 100, 30)
		require.NoError(t, err)
	})
}

func TestTmux_PasteBufferDeliversText(t *testing.T) {
	withSession(t, func(session string) {
		tx := New()
		marker := fmt.Sprintf("grove-paste-%s", uuid.NewString()[:8])
		require.NoError(t, tx.PasteBuffer(context.Background(), session, marker))
		time.Sleep(200 * time.Millisecond)

		out, err := tx.CaptureOutput(context.Background(), session, 50, false)
		require.NoError(t, err)
		require.Contains(t, out, marker)
	})
}

func TestTmux_SupportsFlags(t *testing.T) {
	tx := New()
	require.True(t, tx.SupportsBackgroundLaunch())
	require.True(t, tx.SupportsBackgroundSend())
}
