package controller

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveterm/grove/internal/orchestrator"
	"github.com/groveterm/grove/internal/scheduler"
	"github.com/groveterm/grove/internal/workspace"
)

// nextPollInterval computes the adaptive interval for the currently
// selected workspace (spec §4.5). Only the selected workspace's interval
// governs the global deadline; unselected workspaces get no interval of
// their own and are captured as status-only targets on every pollCmd.
func (m Model) nextPollInterval() time.Duration {
	w := m.selectedWorkspace()
	if w == nil {
		return 2 * time.Second
	}
	var sinceLastKey time.Duration
	interactive := m.inInteractive()
	if interactive {
		sinceLastKey = time.Since(m.interactiveTarget.LastKeyTime)
	}
	return scheduler.Interval(scheduler.Params{
		Status:         w.Status,
		Selected:       true,
		PreviewFocused: m.activeTab == TabAgent,
		Interactive:    interactive,
		SinceLastKey:   sinceLastKey,
		OutputChanging: m.outputChangingForSelected(),
	})
}

func (m Model) outputChangingForSelected() bool {
	w := m.selectedWorkspace()
	if w == nil {
		return false
	}
	return m.preview[w.Key()].RenderLines != ""
}

// pollCmd issues one generation-tagged preview/status poll task (spec §4.5,
// §4.7 invariant 5): at most one in-flight capture for the displayed
// session, plus a batch of cheap status-only captures for every other live
// workspace.
func (m Model) pollCmd() tea.Cmd {
	if m.deps.Multiplexer == nil {
		return nil
	}
	gen := m.generation.Next()
	selected := m.selectedWorkspace()

	var liveSession string
	if selected != nil {
		liveSession = workspace.AgentSessionName(selected.ProjectName, selected.Name)
		if m.activeTab == TabGit {
			liveSession = workspace.GitPreviewSessionName(liveSession)
		}
	}

	interactiveTarget := ""
	if m.inInteractive() {
		interactiveTarget = m.interactiveTarget.TargetSession
	}

	targets := orchestrator.PollTargets(m.workspaces, m.deps.MultiplexerKind, liveSession)
	mplex := m.deps.Multiplexer

	return func() tea.Msg {
		out := PreviewPollCompletedMsg{Generation: gen}

		if liveSession != "" {
			raw, err := mplex.CaptureOutput(ctx(), liveSession, 2000, true)
			out.LiveSession = liveSession
			if err != nil {
				out.LiveErr = err
			} else {
				out.LiveRaw = []byte(raw)
			}
		}

		if interactiveTarget != "" {
			meta, err := mplex.CaptureCursorMetadata(ctx(), interactiveTarget)
			out.CursorSession = interactiveTarget
			out.CursorMeta = meta
			out.CursorErr = err
		}

		for _, w := range targets {
			session := workspace.AgentSessionName(w.ProjectName, w.Name)
			raw, err := mplex.CaptureOutput(ctx(), session, 200, false)
			out.StatusCaptures = append(out.StatusCaptures, WorkspaceStatusCapture{
				Key:     w.Key(),
				Session: session,
				Raw:     []byte(raw),
				Err:     err,
			})
		}

		return out
	}
}
