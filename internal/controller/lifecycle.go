package controller

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveterm/grove/internal/multiplex"
	"github.com/groveterm/grove/internal/orchestrator"
	"github.com/groveterm/grove/internal/workspace"
)

// startAgentCmd builds and runs the launch plan for w, honoring the
// skip-permissions flag armed by the previous '!' keypress (spec §4.3).
func (m Model) startAgentCmd(w *workspace.Workspace, prompt string) tea.Cmd {
	mplex := m.deps.Multiplexer
	if mplex == nil {
		return nil
	}
	params := orchestrator.LaunchParams{
		Project:         w.ProjectName,
		WorkspaceName:   w.Name,
		WorkspacePath:   w.Path,
		Agent:           w.Agent,
		Prompt:          prompt,
		SkipPermissions: m.skipPermissionsNextLaunch,
		CaptureCols:     m.previewCols(),
		CaptureRows:     m.previewRows(),
	}
	var plan orchestrator.LaunchPlan
	if m.deps.MultiplexerKind == orchestrator.Zellij {
		plan = orchestrator.BuildZellijLaunchPlan(params, m.zellijPaths(w.ProjectName, w.Name))
	} else {
		plan = orchestrator.BuildTmuxLaunchPlan(params)
	}
	key := w.Key()
	return func() tea.Msg {
		err := multiplex.RunLaunchPlan(ctx(), mplex, plan)
		return StartAgentCompletedMsg{Key: key, Session: plan.Session, Err: err}
	}
}

// stopAgentCmd tears down w's agent session plus its git-preview and shell
// sessions (SPEC_FULL.md supplement to §4.3's stop plan).
func (m Model) stopAgentCmd(w *workspace.Workspace) tea.Cmd {
	mplex := m.deps.Multiplexer
	if mplex == nil {
		return nil
	}
	var plan orchestrator.StopPlan
	if m.deps.MultiplexerKind == orchestrator.Zellij {
		plan = orchestrator.BuildZellijKillAllForWorkspacePlan(w.ProjectName, w.Name)
	} else {
		plan = orchestrator.BuildTmuxKillAllForWorkspacePlan(w.ProjectName, w.Name)
	}
	key := w.Key()
	return func() tea.Msg {
		err := multiplex.RunStopPlan(ctx(), mplex, plan)
		return StopAgentCompletedMsg{Key: key, Err: err}
	}
}

// zellijPaths resolves the per-session config/capture-log locations a
// Zellij launch plan needs, rooted at deps.ZellijStateDir (spec §6:
// <state>/grove/zellij-capture/<session>.ansi.log).
func (m Model) zellijPaths(project, workspaceName string) orchestrator.ZellijPaths {
	session := workspace.AgentSessionName(project, workspaceName)
	root := m.deps.ZellijStateDir
	return orchestrator.ZellijPaths{
		ConfigPath: filepath.Join(root, "config"),
		CaptureLog: filepath.Join(root, session+".ansi.log"),
	}
}

// launchLazygitCmd starts (or reattaches to) w's git-preview session running
// lazygit, backing the git diff tab.
func (m Model) launchLazygitCmd(w *workspace.Workspace) tea.Cmd {
	mplex := m.deps.Multiplexer
	if mplex == nil {
		return nil
	}
	agentSession := workspace.AgentSessionName(w.ProjectName, w.Name)
	session := workspace.GitPreviewSessionName(agentSession)
	key := w.Key()
	plan := orchestrator.LaunchPlan{
		Session: session,
		PreLaunch: []orchestrator.Step{
			{Args: []string{"tmux", "new-session", "-d", "-s", session, "-c", w.Path}},
		},
		Launch: orchestrator.Step{Args: []string{"tmux", "send-keys", "-t", session, "lazygit", "Enter"}},
	}
	return func() tea.Msg {
		err := multiplex.RunLaunchPlan(ctx(), mplex, plan)
		return LazygitLaunchCompletedMsg{Key: key, Session: session, Err: err}
	}
}

func (m Model) createWorkspaceCmd(projectName, name, baseBranch string) tea.Cmd {
	lc, ok := m.deps.GitLocal[projectName]
	if !ok {
		return nil
	}
	return func() tea.Msg {
		result, warnings, err := lc.CreateWorkspace(name, baseBranch)
		if err != nil {
			return CreateWorkspaceCompletedMsg{Name: name, Err: err}
		}
		return CreateWorkspaceCompletedMsg{
			Name: name, Path: result.Path, Branch: result.Branch,
			BaseBranch: result.BaseBranch, Warnings: warnings,
		}
	}
}

func (m Model) deleteWorkspaceCmd(w *workspace.Workspace, deleteLocalBranch, deleteRemoteBranch bool) tea.Cmd {
	lc, ok := m.deps.GitLocal[w.ProjectName]
	if !ok {
		return nil
	}
	key := w.Key()
	name, path, branch := w.Name, w.Path, w.Branch
	return func() tea.Msg {
		_, warnings, err := lc.DeleteWorkspace(name, path, branch, deleteLocalBranch, deleteRemoteBranch)
		return DeleteWorkspaceCompletedMsg{Key: key, Warnings: warnings, Err: err}
	}
}

func (m Model) mergeWorkspaceCmd(w *workspace.Workspace) tea.Cmd {
	lc, ok := m.deps.GitLocal[w.ProjectName]
	if !ok {
		return nil
	}
	key := w.Key()
	name, branch := w.Name, w.Branch
	return func() tea.Msg {
		_, warnings, err := lc.MergeWorkspace(name, branch)
		return MergeWorkspaceCompletedMsg{Key: key, Warnings: warnings, Err: err}
	}
}

func (m Model) updateWorkspaceFromBaseCmd(w *workspace.Workspace) tea.Cmd {
	lc, ok := m.deps.GitLocal[w.ProjectName]
	if !ok {
		return nil
	}
	key := w.Key()
	name, path, base := w.Name, w.Path, w.BaseBranch
	return func() tea.Msg {
		result, warnings, err := lc.UpdateWorkspaceFromBase(name, path, base)
		return UpdateWorkspaceFromBaseCompletedMsg{
			Key: key, Ahead: result.Ahead, Behind: result.Behind,
			Warnings: warnings, Err: err,
		}
	}
}

// previewCols/previewRows size the pane a new session is launched at so its
// first capture already matches the preview area (spec §4.3/§4.6).
func (m Model) previewCols() int {
	w := m.width - m.sidebarWidth() - 2
	if w < 1 {
		return 80
	}
	return w
}

func (m Model) previewRows() int {
	h := m.height - 3
	if h < 1 {
		return 24
	}
	return h
}

func (m Model) sidebarWidth() int {
	if !m.showSidebar {
		return 0
	}
	return m.width * m.sidebarPct / 100
}
