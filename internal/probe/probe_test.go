package probe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/groveterm/grove/internal/workspace"
)

func TestCoordinator_ProbeUnknownAgent(t *testing.T) {
	c := NewCoordinator()
	r := c.Probe(workspace.AgentType("unknown"), "/tmp/whatever")
	require.False(t, r.Found)
}

func TestCoordinator_ProbeCodex_CachesSessionFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	workspacePath := filepath.Join(home, "proj", "worktree")
	require.NoError(t, os.MkdirAll(workspacePath, 0o755))

	sessionsDir := filepath.Join(home, ".codex", "sessions")
	require.NoError(t, os.MkdirAll(sessionsDir, 0o755))
	session := filepath.Join(sessionsDir, "rollout-1.jsonl")
	body := `{"type":"session_meta","payload":{"cwd":"` + workspacePath + `"}}` + "\n" +
		`{"type":"response_item","payload":{"type":"message","role":"assistant"}}` + "\n"
	require.NoError(t, os.WriteFile(session, []byte(body), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(session, past, past))

	c := NewCoordinator()
	r := c.ProbeCodex(workspacePath)
	require.True(t, r.Found)
	require.Equal(t, workspace.StatusWaiting, r.Status)

	// Second call hits the cwd cache and returns the same result.
	r2 := c.ProbeCodex(workspacePath)
	require.Equal(t, r, r2)
}

func TestAgentProber_ImplementsStatusProber(t *testing.T) {
	c := NewCoordinator()
	p := AgentProber{Coordinator: c, Agent: workspace.AgentCodex}
	_, found := p.Status(t.TempDir())
	require.False(t, found)
}
