package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_CollapsesAndTrims(t *testing.T) {
	assert.Equal(t, "feature-auth-v2", Sanitize("feature/auth.v2"))
	assert.Equal(t, "project-one", Sanitize("project.one"))
}

func TestSanitize_EmptyFallsBackToWorkspace(t *testing.T) {
	assert.Equal(t, "workspace", Sanitize("///"))
	assert.Equal(t, "workspace", Sanitize(""))
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{"feature/auth.v2", "a--b", "___", "Already_Fine-1", "///weird***"}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		assert.Equal(t, once, twice, "not idempotent for %q", in)
	}
}

// S4: launch-plan idempotence / deterministic session naming.
func TestAgentSessionName_Deterministic(t *testing.T) {
	got := AgentSessionName("project.one", "feature/auth.v2")
	assert.Equal(t, "grove-ws-project-one-feature-auth-v2", got)
}

func TestAgentSessionName_NoProject(t *testing.T) {
	got := AgentSessionName("", "main")
	assert.Equal(t, "grove-ws-main", got)
}

func TestDerivedSessionNames(t *testing.T) {
	agent := AgentSessionName("proj", "ws")
	assert.Equal(t, "grove-ws-proj-ws-git", GitPreviewSessionName(agent))
	assert.Equal(t, "grove-ws-proj-ws-shell", ShellSessionName(agent))
}

func TestHasSessionPrefix(t *testing.T) {
	assert.True(t, HasSessionPrefix("grove-ws-foo"))
	assert.False(t, HasSessionPrefix("other-session"))
}
