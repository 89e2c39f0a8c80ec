package controller

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveterm/grove/internal/capture"
	"github.com/groveterm/grove/internal/interactive"
	"github.com/groveterm/grove/internal/probe"
	"github.com/groveterm/grove/internal/status"
	"github.com/groveterm/grove/internal/workspace"
)

// handlePreviewPollCompleted applies one poll cycle's results, implementing
// spec §4.7's completion-handling rule: stale generations are dropped, the
// live capture updates the selected workspace's status and preview, every
// status-only capture reclassifies its workspace (or flips it to orphaned
// idle on a missing-session error), and the cursor capture updates
// interactive state, possibly retrying a resize once.
func (m Model) handlePreviewPollCompleted(msg PreviewPollCompletedMsg) (tea.Model, tea.Cmd) {
	if m.generation.IsStale(msg.Generation) {
		m.log("stale_result_dropped", "generation", msg.Generation)
		m.debouncer.Complete()
		return m, nil
	}

	var cmds []tea.Cmd

	if msg.LiveSession != "" {
		m.applyLiveCapture(msg)
	}

	for _, sc := range msg.StatusCaptures {
		m.applyStatusCapture(sc)
	}

	if msg.CursorSession != "" {
		if cmd := m.applyCursorCapture(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	// A tick landed while this poll was in flight: the debouncer recorded
	// the request rather than racing a second capture, so dispatch the
	// queued follow-up now that the session is free.
	if m.debouncer.Complete() {
		cmds = append(cmds, m.pollCmd())
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) applyLiveCapture(msg PreviewPollCompletedMsg) {
	w := m.workspaceForSession(msg.LiveSession)
	if w == nil {
		return
	}

	if msg.LiveErr != nil {
		if capture.IsMissingSessionError(msg.LiveErr) {
			m.markOrphaned(w, msg.LiveSession)
		}
		return
	}

	render, cleaned := capture.Clean(msg.LiveRaw)
	change := m.tracker.Process(msg.LiveSession, msg.LiveRaw)
	m.preview[w.Key()] = previewState{RenderLines: render, CleanedLines: cleaned}

	activity := status.Idle
	if change.ChangedCleaned || change.ChangedRaw {
		activity = status.Active
	}
	newStatus := status.ClassifyWithOverride(m.prober(w.Agent), w.Path, cleaned, activity, w.IsMain, true, w.SupportedAgent)
	w.Status = newStatus
	w.IsOrphaned = false
}

func (m *Model) applyStatusCapture(sc WorkspaceStatusCapture) {
	w := m.findWorkspace(sc.Key)
	if w == nil {
		return
	}
	if sc.Err != nil {
		if capture.IsMissingSessionError(sc.Err) {
			m.markOrphaned(w, sc.Session)
		}
		return
	}
	_, cleaned := capture.Clean(sc.Raw)
	w.Status = status.ClassifyWithOverride(m.prober(w.Agent), w.Path, cleaned, status.Idle, w.IsMain, true, w.SupportedAgent)
	w.IsOrphaned = false
}

func (m *Model) markOrphaned(w *workspace.Workspace, session string) {
	w.Status = workspace.StatusIdle
	w.IsOrphaned = true
	m.tracker.Forget(session)
	if m.inInteractive() && m.interactiveTarget.TargetSession == session {
		m.exitInteractive()
	}
}

func (m *Model) applyCursorCapture(msg PreviewPollCompletedMsg) tea.Cmd {
	if !m.inInteractive() || m.interactiveTarget.TargetSession != msg.CursorSession {
		return nil
	}
	st := m.interactiveTarget
	if msg.CursorErr != nil {
		if capture.IsMissingSessionError(msg.CursorErr) {
			m.markOrphaned(m.findWorkspace(m.interactiveSelectionKey()), msg.CursorSession)
		}
		return nil
	}

	st.CursorVis = msg.CursorMeta.Visible
	st.CursorCol = msg.CursorMeta.Col
	st.CursorRow = msg.CursorMeta.Row

	targetW, targetH := interactive.TargetSize(m.previewCols(), m.previewRows(), 3)
	if interactive.NeedsResizeRetry(msg.CursorMeta.PaneWidth, msg.CursorMeta.PaneHeight, targetW, targetH, st.ResizeRetried) {
		st.ResizeRetried = true
		st.LastResizeAt = time.Now()
		session := st.TargetSession
		mplex := m.deps.Multiplexer
		return func() tea.Msg {
			if mplex == nil {
				return NoopMsg{}
			}
			_ = mplex.ResizeSession(ctx(), session, targetW, targetH)
			return NoopMsg{}
		}
	}

	st.PaneWidth = msg.CursorMeta.PaneWidth
	st.PaneHeight = msg.CursorMeta.PaneHeight
	return nil
}

// prober adapts the agent-specific probe coordinator to status.Prober for
// agent a, or returns nil if no coordinator is wired (tests).
func (m *Model) prober(agent workspace.AgentType) status.Prober {
	if m.deps.Probe == nil {
		return nil
	}
	return probe.AgentProber{Coordinator: m.deps.Probe, Agent: agent}
}

func (m *Model) workspaceForSession(session string) *workspace.Workspace {
	for _, w := range m.workspaces {
		if workspace.AgentSessionName(w.ProjectName, w.Name) == session ||
			workspace.GitPreviewSessionName(workspace.AgentSessionName(w.ProjectName, w.Name)) == session {
			return w
		}
	}
	return nil
}

func (m *Model) interactiveSelectionKey() workspace.WorkspaceKey {
	if w := m.selectedWorkspace(); w != nil {
		return w.Key()
	}
	return workspace.WorkspaceKey{}
}

// exitInteractive tears down the live interactive session attachment.
func (m *Model) exitInteractive() {
	if m.interactiveTarget == nil {
		return
	}
	m.correlator.Forget(m.interactiveTarget.TargetSession)
	m.interactiveTarget = nil
}

func (m Model) handleStartAgentCompleted(msg StartAgentCompletedMsg) (tea.Model, tea.Cmd) {
	m.endLifecycleTask(msg.Err)
	w := m.findWorkspace(msg.Key)
	if msg.Err != nil {
		m.showToast("start failed: "+msg.Err.Error(), 4*time.Second, true)
		return m, nil
	}
	if w != nil {
		w.Status = status.Classify("", status.Active, w.IsMain, true, w.SupportedAgent)
	}
	m.showToast("agent started", 2*time.Second, false)
	return m, m.discoverCmd()
}

func (m Model) handleStopAgentCompleted(msg StopAgentCompletedMsg) (tea.Model, tea.Cmd) {
	m.endLifecycleTask(msg.Err)
	w := m.findWorkspace(msg.Key)
	if msg.Err != nil {
		m.showToast("stop failed: "+msg.Err.Error(), 4*time.Second, true)
		return m, nil
	}
	if w != nil {
		w.Status = workspace.StatusIdle
		m.tracker.Forget(workspace.AgentSessionName(w.ProjectName, w.Name))
	}
	m.showToast("agent stopped", 2*time.Second, false)
	return m, m.discoverCmd()
}

func (m Model) handleClipboardActionCompleted(msg ClipboardActionCompletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.showToast(msg.Verb+" failed: "+msg.Err.Error(), 3*time.Second, true)
		return m, nil
	}
	verb := "copied"
	if msg.Verb == "paste" {
		verb = "pasted"
	}
	m.showToast(verb, 1*time.Second, false)
	return m, nil
}

func (m Model) handleLazygitLaunchCompleted(msg LazygitLaunchCompletedMsg) (tea.Model, tea.Cmd) {
	m.endLifecycleTask(msg.Err)
	if msg.Err != nil {
		m.showToast("lazygit launch failed: "+msg.Err.Error(), 4*time.Second, true)
		return m, nil
	}
	m.activeTab = TabGit
	return m, nil
}

func (m Model) handleCreateWorkspaceCompleted(msg CreateWorkspaceCompletedMsg) (tea.Model, tea.Cmd) {
	m.endLifecycleTask(msg.Err)
	m.dialog = workspace.DialogState{}
	if msg.Err != nil {
		m.showToast("create failed: "+msg.Err.Error(), 4*time.Second, true)
		return m, nil
	}
	for _, w := range msg.Warnings {
		m.log("lifecycle_warning", "op", "create", "detail", w)
	}
	m.showToast("created "+msg.Name, 2*time.Second, false)
	return m, m.discoverCmd()
}

func (m Model) handleDeleteWorkspaceCompleted(msg DeleteWorkspaceCompletedMsg) (tea.Model, tea.Cmd) {
	m.endLifecycleTask(msg.Err)
	m.dialog = workspace.DialogState{}
	if msg.Err != nil {
		m.showToast("delete failed: "+msg.Err.Error(), 4*time.Second, true)
		return m, nil
	}
	for _, w := range msg.Warnings {
		m.log("lifecycle_warning", "op", "delete", "detail", w)
	}
	m.showToast("deleted "+msg.Key.Name, 2*time.Second, false)
	return m, m.discoverCmd()
}

func (m Model) handleMergeWorkspaceCompleted(msg MergeWorkspaceCompletedMsg) (tea.Model, tea.Cmd) {
	m.endLifecycleTask(msg.Err)
	m.dialog = workspace.DialogState{}
	if msg.Err != nil {
		m.showToast("merge failed: "+msg.Err.Error(), 4*time.Second, true)
		return m, nil
	}
	for _, w := range msg.Warnings {
		m.log("lifecycle_warning", "op", "merge", "detail", w)
	}
	m.showToast("merged "+msg.Key.Name, 2*time.Second, false)
	return m, m.discoverCmd()
}

func (m Model) handleUpdateWorkspaceFromBaseCompleted(msg UpdateWorkspaceFromBaseCompletedMsg) (tea.Model, tea.Cmd) {
	m.endLifecycleTask(msg.Err)
	m.dialog = workspace.DialogState{}
	if msg.Err != nil {
		m.showToast("update failed: "+msg.Err.Error(), 4*time.Second, true)
		return m, nil
	}
	for _, w := range msg.Warnings {
		m.log("lifecycle_warning", "op", "update_from_base", "detail", w)
	}
	m.showToast("updated from base", 2*time.Second, false)
	return m, m.discoverCmd()
}
