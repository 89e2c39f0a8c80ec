package controller

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveterm/grove/internal/interactive"
	"github.com/groveterm/grove/internal/workspace"
)

// handleKey is the single entry point for keyboard input (spec §4.7). Modal
// input takes priority over interactive forwarding, which in turn takes
// priority over the global key bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if handled, model, cmd := m.handleEscape(); handled {
			return model, cmd
		}
	}

	if m.hasModal() {
		return m.handleDialogKey(msg)
	}

	if m.inInteractive() {
		return m.handleInteractiveKey(msg)
	}

	return m.handleGlobalKey(msg)
}

// handleEscape closes the highest-priority open modal, mirroring the
// teacher's Esc-priority switch in handleKeyMsg. Interactive mode's own
// double-escape exit is handled separately inside handleInteractiveKey: a
// lone Esc there arms the exit and is not forwarded to the session.
func (m Model) handleEscape() (bool, tea.Model, tea.Cmd) {
	switch m.activeDialog() {
	case workspace.DialogCommandPalette:
		m.showCommandPalette = false
		m.commandPaletteInput = ""
		return true, m, nil
	case workspace.DialogKeybindHelp:
		m.showKeybindHelp = false
		return true, m, nil
	case workspace.DialogNone:
		return false, m, nil
	default:
		if m.dialog.Input != "" {
			m.dialog.Input = ""
			m.dialog.InputCursor = 0
			return true, m, nil
		}
		m.dialog = workspace.DialogState{}
		return true, m, nil
	}
}

// handleDialogKey processes keystrokes while a dialog, the command palette,
// or the keybind help overlay is open (invariant 1: exactly one is active).
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.activeDialog() {
	case workspace.DialogCommandPalette:
		return m.handleCommandPaletteKey(msg)
	case workspace.DialogKeybindHelp:
		return m, nil
	default:
		return m.handleWorkspaceDialogKey(msg)
	}
}

func (m Model) handleCommandPaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.showCommandPalette = false
		input := m.commandPaletteInput
		m.commandPaletteInput = ""
		return m.runCommand(input)
	case tea.KeyBackspace:
		if n := len(m.commandPaletteInput); n > 0 {
			m.commandPaletteInput = m.commandPaletteInput[:n-1]
		}
		return m, nil
	case tea.KeyRunes:
		m.commandPaletteInput += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

// runCommand is a minimal command-palette dispatcher: typed commands map
// directly to the same actions their key bindings trigger.
func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	switch input {
	case "quit":
		return m, tea.Quit
	case "create":
		m.dialog = workspace.DialogState{Kind: workspace.DialogCreate}
		return m, nil
	}
	return m, nil
}

// handleWorkspaceDialogKey processes the create/edit/delete/merge/
// update-from-base/launch/projects/settings dialogs, all of which share the
// same text-input-plus-confirm shape.
func (m Model) handleWorkspaceDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		m.dialog.ConfirmFocus = 1 - m.dialog.ConfirmFocus
		return m, nil

	case tea.KeyLeft:
		if m.dialog.InputCursor > 0 {
			m.dialog.InputCursor--
		}
		return m, nil

	case tea.KeyRight:
		if m.dialog.InputCursor < len(m.dialog.Input) {
			m.dialog.InputCursor++
		}
		return m, nil

	case tea.KeyEnter:
		return m.confirmDialog()

	case tea.KeyBackspace:
		if m.dialog.InputCursor > 0 {
			i := m.dialog.InputCursor
			m.dialog.Input = m.dialog.Input[:i-1] + m.dialog.Input[i:]
			m.dialog.InputCursor--
		}
		return m, nil

	case tea.KeyRunes:
		i := m.dialog.InputCursor
		m.dialog.Input = m.dialog.Input[:i] + string(msg.Runes) + m.dialog.Input[i:]
		m.dialog.InputCursor += len(msg.Runes)
		return m, nil
	}

	return m, nil
}

// confirmDialog executes the action associated with the current dialog kind
// once the user confirms, enforcing invariant 4 via beginLifecycleTask.
func (m Model) confirmDialog() (tea.Model, tea.Cmd) {
	if m.dialog.ConfirmFocus == 1 {
		m.dialog = workspace.DialogState{}
		return m, nil
	}

	kind := m.dialog.Kind
	target := m.dialog.Target
	input := m.dialog.Input
	w := m.findWorkspace(target)

	switch kind {
	case workspace.DialogLaunch:
		if w == nil || !m.beginLifecycleTask("start") {
			return m, nil
		}
		m.dialog = workspace.DialogState{}
		return m, m.startAgentCmd(w, input)

	case workspace.DialogCreate:
		if !m.beginLifecycleTask("create") {
			return m, nil
		}
		project := ""
		if len(m.projects) > 0 {
			project = m.projects[0].Name
		}
		name := input
		return m, m.createWorkspaceCmd(project, name, "")

	case workspace.DialogDelete:
		if w == nil || !m.beginLifecycleTask("delete") {
			return m, nil
		}
		m.dialog = workspace.DialogState{}
		return m, m.deleteWorkspaceCmd(w, true, false)

	case workspace.DialogMerge:
		if w == nil || !m.beginLifecycleTask("merge") {
			return m, nil
		}
		m.dialog = workspace.DialogState{}
		return m, m.mergeWorkspaceCmd(w)

	case workspace.DialogUpdateFromBase:
		if w == nil || !m.beginLifecycleTask("update") {
			return m, nil
		}
		m.dialog = workspace.DialogState{}
		return m, m.updateWorkspaceFromBaseCmd(w)
	}

	m.dialog = workspace.DialogState{}
	return m, nil
}

// handleInteractiveKey forwards a keystroke to the attached session (spec
// §4.6): double-Escape within the window exits, Ctrl-\ exits immediately,
// everything else is mapped and sent via the multiplexer's paste/send-keys
// path.
func (m Model) handleInteractiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.interactiveTarget

	if interactive.IsExitKey(msg) {
		m.exitInteractive()
		return m, nil
	}

	if msg.Type == tea.KeyEsc {
		outcome := interactive.EvalEscape(st.EscapePending, st.EscapeAt, time.Now())
		if outcome == interactive.EscapeExit {
			m.exitInteractive()
			return m, nil
		}
		st.EscapePending = true
		st.EscapeAt = time.Now()
		return m, nil
	}
	st.EscapePending = false

	switch msg.String() {
	case "alt+c":
		return m, m.copyPreviewToClipboardCmd()
	case "alt+v":
		return m, m.pasteClipboardCmd()
	}

	st.LastKeyTime = time.Now()
	mapped := interactive.MapKey(msg)
	session := st.TargetSession
	mplex := m.deps.Multiplexer
	m.correlator.RecordForward(session, st.LastKeyTime)

	if mplex == nil {
		return m, nil
	}

	return m, func() tea.Msg {
		if mapped.IsLiteral {
			_ = mplex.PasteBuffer(ctx(), session, mapped.Literal)
		} else {
			_ = mplex.Execute(ctx(), []string{"tmux", "send-keys", "-t", session, mapped.Name})
		}
		return NoopMsg{}
	}
}

// copyPreviewToClipboardCmd backs Alt-C (spec §4.6): copies the visible
// preview text for the attached session to the clipboard. Grove tracks no
// mouse text-selection, so this always takes the "no selection exists"
// fallback the spec describes — the whole visible preview.
func (m Model) copyPreviewToClipboardCmd() tea.Cmd {
	clip := m.deps.Clipboard
	if clip == nil || m.interactiveTarget == nil {
		return nil
	}
	w := m.workspaceForSession(m.interactiveTarget.TargetSession)
	text := ""
	if w != nil {
		text = m.preview[w.Key()].CleanedLines
	}
	return func() tea.Msg {
		return ClipboardActionCompletedMsg{Verb: "copy", Err: clip.WriteText(text)}
	}
}

// pasteClipboardCmd backs Alt-V (spec §4.6): reads the clipboard and pastes
// it into the attached session via the multiplexer's paste-buffer path,
// wrapping in bracketed-paste markers only when the session has bracketed
// paste enabled and the payload contains a newline.
func (m Model) pasteClipboardCmd() tea.Cmd {
	clip := m.deps.Clipboard
	mplex := m.deps.Multiplexer
	if clip == nil || mplex == nil || m.interactiveTarget == nil {
		return nil
	}
	session := m.interactiveTarget.TargetSession
	bracketed := m.interactiveTarget.BracketedPasteEnabled
	return func() tea.Msg {
		text, err := clip.ReadText()
		if err != nil {
			return ClipboardActionCompletedMsg{Verb: "paste", Err: err}
		}
		encoded := interactive.EncodePaste(text, bracketed)
		err = mplex.PasteBuffer(ctx(), session, encoded)
		return ClipboardActionCompletedMsg{Verb: "paste", Err: err}
	}
}

// handleGlobalKey processes key bindings active when no modal is open and no
// interactive session is attached.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+d":
		if m.lifecycleInFlight {
			return m, nil
		}
		return m, tea.Quit

	case "?":
		m.showKeybindHelp = !m.showKeybindHelp
		return m, nil

	case ":":
		m.showCommandPalette = true
		m.commandPaletteInput = ""
		return m, nil

	case "\\":
		m.showSidebar = !m.showSidebar
		return m, nil

	case "!":
		m.skipPermissionsNextLaunch = !m.skipPermissionsNextLaunch
		return m, nil

	case "j", "down":
		m.selected++
		m.clampSelection()
		return m, nil

	case "k", "up":
		m.selected--
		m.clampSelection()
		return m, nil

	case "tab":
		if m.activeTab == TabAgent {
			m.activeTab = TabGit
		} else {
			m.activeTab = TabAgent
		}
		return m, nil

	case "s":
		w := m.selectedWorkspace()
		if w == nil || w.Status.HasLiveSession() {
			return m, nil
		}
		m.dialog = workspace.DialogState{Kind: workspace.DialogLaunch, Target: w.Key()}
		return m, nil

	case "x":
		w := m.selectedWorkspace()
		if w == nil || !w.Status.HasLiveSession() {
			return m, nil
		}
		if !m.beginLifecycleTask("stop") {
			return m, nil
		}
		return m, m.stopAgentCmd(w)

	case "g":
		w := m.selectedWorkspace()
		if w == nil {
			return m, nil
		}
		if !m.beginLifecycleTask("lazygit") {
			return m, nil
		}
		return m, m.launchLazygitCmd(w)

	case "n":
		m.dialog = workspace.DialogState{Kind: workspace.DialogCreate}
		return m, nil

	case "D":
		w := m.selectedWorkspace()
		if w == nil || w.IsMain {
			return m, nil
		}
		m.dialog = workspace.DialogState{Kind: workspace.DialogDelete, Target: w.Key()}
		return m, nil

	case "M":
		w := m.selectedWorkspace()
		if w == nil || w.IsMain {
			return m, nil
		}
		m.dialog = workspace.DialogState{Kind: workspace.DialogMerge, Target: w.Key()}
		return m, nil

	case "u":
		w := m.selectedWorkspace()
		if w == nil || w.IsMain {
			return m, nil
		}
		m.dialog = workspace.DialogState{Kind: workspace.DialogUpdateFromBase, Target: w.Key()}
		return m, nil

	case "p":
		m.dialog = workspace.DialogState{Kind: workspace.DialogProjects}
		return m, nil

	case "S":
		m.dialog = workspace.DialogState{Kind: workspace.DialogSettings}
		return m, nil

	case "enter":
		w := m.selectedWorkspace()
		if w == nil || !w.Status.HasLiveSession() {
			return m, nil
		}
		session := workspace.AgentSessionName(w.ProjectName, w.Name)
		if m.activeTab == TabGit {
			session = workspace.GitPreviewSessionName(session)
		}
		targetW, targetH := interactive.TargetSize(m.previewCols(), m.previewRows(), 3)
		m.interactiveTarget = &workspace.InteractiveState{
			TargetSession: session,
			LastKeyTime:   time.Now(),
			PaneWidth:     targetW,
			PaneHeight:    targetH,
		}
		return m, nil
	}

	return m, nil
}
