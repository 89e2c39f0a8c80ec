package controller

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveterm/grove/internal/discovery"
	"github.com/groveterm/grove/internal/eventlog"
	"github.com/groveterm/grove/internal/workspace"
)

// Update is the sole entry point for state mutation (spec §4.7: "the
// controller is the sole owner of mutable state"). Every branch returns a
// new Model value and, at most, one Cmd to schedule — deferred side effects
// never execute inline (invariant 3, one-writer discipline).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.clearExpiredToast()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		return m, nil

	case ResizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case TickMsg:
		return m.handleTick(msg)

	case DiscoveryRefreshedMsg:
		return m.handleDiscoveryRefreshed(msg)

	case PreviewPollCompletedMsg:
		return m.handlePreviewPollCompleted(msg)

	case StartAgentCompletedMsg:
		return m.handleStartAgentCompleted(msg)

	case StopAgentCompletedMsg:
		return m.handleStopAgentCompleted(msg)

	case LazygitLaunchCompletedMsg:
		return m.handleLazygitLaunchCompleted(msg)

	case CreateWorkspaceCompletedMsg:
		return m.handleCreateWorkspaceCompleted(msg)

	case DeleteWorkspaceCompletedMsg:
		return m.handleDeleteWorkspaceCompleted(msg)

	case MergeWorkspaceCompletedMsg:
		return m.handleMergeWorkspaceCompleted(msg)

	case UpdateWorkspaceFromBaseCompletedMsg:
		return m.handleUpdateWorkspaceFromBaseCompleted(msg)

	case ClipboardActionCompletedMsg:
		return m.handleClipboardActionCompleted(msg)

	case NoopMsg:
		return m, nil
	}

	return m, nil
}

func (m *Model) log(name string, fields ...any) {
	if m.deps.EventLog == nil {
		return
	}
	m.deps.EventLog.Log(eventlog.Event{Name: name, Fields: fields})
}

// handleTick recomputes the adaptive poll interval and, once the deadline
// has elapsed, issues the next preview/status poll task (spec §4.5, §4.7).
// The debounce gate (invariant 5: at most one in-flight poll) means a due
// tick that lands while the previous poll is still running doesn't start a
// second one — it just records the request, and handlePreviewPollCompleted
// dispatches the follow-up once the in-flight poll returns.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	interval := m.nextPollInterval()
	adopted, deadline := m.deadline.Propose(msg.At, interval)
	_ = adopted

	var cmds []tea.Cmd
	if !msg.At.Before(deadline) {
		m.deadline.Clear()
		if m.debouncer.TryStart() {
			cmds = append(cmds, m.pollCmd())
		}
	}
	cmds = append(cmds, m.tickCmd(100*time.Millisecond))
	return m, tea.Batch(cmds...)
}

func (m Model) handleDiscoveryRefreshed(msg DiscoveryRefreshedMsg) (tea.Model, tea.Cmd) {
	var workspaces []*workspace.Workspace
	var firstErr string
	for _, r := range msg.Results {
		if r.State == discovery.StateError {
			if firstErr == "" && r.Err != nil {
				firstErr = r.Err.Error()
			}
			continue
		}
		workspaces = append(workspaces, r.Workspaces...)
	}
	m.workspaces = workspaces
	m.discoveryErr = firstErr
	m.clampSelection()
	return m, nil
}
