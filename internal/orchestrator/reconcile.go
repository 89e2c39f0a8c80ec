package orchestrator

import (
	"sort"

	"github.com/groveterm/grove/internal/status"
	"github.com/groveterm/grove/internal/workspace"
)

// Reconcile implements §4.3's reconciliation rule: for each workspace, if
// its session is among runningSessions it is marked with a live-session
// classification and its orphan flag is cleared; otherwise it is classified
// idle, and flagged orphaned only if it was previously running and is not
// the main workspace. Sessions in runningSessions that match no workspace
// are returned, sorted, as orphaned sessions.
//
// Mutates each workspace's Status and IsOrphaned fields in place.
func Reconcile(workspaces []*workspace.Workspace, runningSessions []string, previouslyRunning map[string]bool) []string {
	running := make(map[string]bool, len(runningSessions))
	for _, s := range runningSessions {
		running[s] = true
	}
	matched := make(map[string]bool, len(workspaces))

	for _, ws := range workspaces {
		session := workspace.AgentSessionName(ws.ProjectName, ws.Name)
		if running[session] {
			ws.Status = status.Classify("", status.Active, ws.IsMain, true, ws.SupportedAgent)
			ws.IsOrphaned = false
			matched[session] = true
			continue
		}
		ws.Status = status.Classify("", status.Idle, ws.IsMain, false, ws.SupportedAgent)
		ws.IsOrphaned = previouslyRunning[ws.Name] && !ws.IsMain
	}

	var orphanedSessions []string
	for s := range running {
		if !matched[s] {
			orphanedSessions = append(orphanedSessions, s)
		}
	}
	sort.Strings(orphanedSessions)
	return orphanedSessions
}

// MultiplexerKind distinguishes the two backends for the poll-target filter.
type MultiplexerKind int

const (
	Tmux MultiplexerKind = iota
	Zellij
)

// PollTargets implements §4.3's poll target list: one target per workspace
// that has a supported agent, is live under the active multiplexer kind, and
// is not the session currently displayed in the live preview.
func PollTargets(workspaces []*workspace.Workspace, kind MultiplexerKind, displayedSession string) []*workspace.Workspace {
	var targets []*workspace.Workspace
	for _, ws := range workspaces {
		if !ws.SupportedAgent {
			continue
		}
		session := workspace.AgentSessionName(ws.ProjectName, ws.Name)
		if session == displayedSession {
			continue
		}
		switch kind {
		case Tmux:
			if !ws.Status.HasLiveSession() {
				continue
			}
		case Zellij:
			if ws.IsMain {
				continue
			}
		}
		targets = append(targets, ws)
	}
	return targets
}
