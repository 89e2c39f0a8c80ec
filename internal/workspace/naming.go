package workspace

import "strings"

const sessionPrefix = "grove-ws-"

// Sanitize maps s onto [A-Za-z0-9_-], collapses runs of '-', and trims
// leading/trailing '-'. An empty result falls back to "workspace". Pure and
// idempotent (spec §3, §8 P5): Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	collapsed := collapseDashes(b.String())
	trimmed := strings.Trim(collapsed, "-")
	if trimmed == "" {
		return "workspace"
	}
	return trimmed
}

func collapseDashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevDash := false
	for _, r := range s {
		if r == '-' {
			if prevDash {
				continue
			}
			prevDash = true
		} else {
			prevDash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AgentSessionName returns the deterministic tmux/Zellij session name for a
// workspace, optionally namespaced by project. Pure function of its inputs
// (§8 P5).
func AgentSessionName(project, workspaceName string) string {
	name := sessionPrefix
	if project != "" {
		name += Sanitize(project) + "-"
	}
	return name + Sanitize(workspaceName)
}

// GitPreviewSessionName returns the git-preview session name derived from an
// agent session name.
func GitPreviewSessionName(agentSession string) string {
	return agentSession + "-git"
}

// ShellSessionName returns the ad-hoc shell session name derived from an
// agent session name.
func ShellSessionName(agentSession string) string {
	return agentSession + "-shell"
}

// HasSessionPrefix reports whether name looks like a Grove-managed session,
// for filtering `list-sessions` output. The controller does not call it.
func HasSessionPrefix(name string) bool {
	return strings.HasPrefix(name, sessionPrefix)
}
