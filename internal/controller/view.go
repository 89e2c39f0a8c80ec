package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/groveterm/grove/internal/styles"
	"github.com/groveterm/grove/internal/workspace"
)

const (
	headerHeight = 1
	footerHeight = 1
	minWidth     = 60
	minHeight    = 16
)

// View renders the entire application UI, mirroring the teacher's
// Model.View layout (header/content/footer, modal overlays on top).
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d", m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styles.Muted.Render(msg))
	}

	m.clearExpiredToast()
	m.buildSidebarHitMap()

	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent(contentHeight))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	bg := b.String()

	kind := m.activeDialog()
	switch kind {
	case workspace.DialogCommandPalette:
		return overlayDialog(bg, m.renderCommandPalette(), m.width, m.height, kind)
	case workspace.DialogKeybindHelp:
		return overlayDialog(bg, m.renderKeybindHelp(), m.width, m.height, kind)
	case workspace.DialogNone:
		return bg
	default:
		return overlayDialog(bg, m.renderWorkspaceDialog(), m.width, m.height, kind)
	}
}

func (m Model) renderHeader() string {
	title := styles.Title.Render(" Grove")
	tab := "agent"
	if m.activeTab == TabGit {
		tab = "git"
	}
	tabInfo := styles.Muted.Render(" [" + tab + "]")
	clock := styles.Muted.Render(time.Now().Format("15:04:05"))

	left := title + tabInfo
	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(clock)
	if spacing < 0 {
		spacing = 0
	}
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", spacing) + clock)
}

func (m Model) renderContent(height int) string {
	sidebar := ""
	if m.showSidebar {
		sidebar = m.renderSidebar(height)
	}
	preview := m.renderPreview(height)

	if sidebar == "" {
		return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(preview)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, preview)
	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(row)
}

func (m Model) renderSidebar(height int) string {
	width := m.sidebarWidth()
	var rows []string
	for i, w := range m.workspaces {
		dot := lipgloss.NewStyle().Foreground(styles.StatusColor(w.Status)).Render("●")
		label := w.Name
		if w.IsOrphaned {
			label += " (orphaned)"
		}
		avail := width - 3
		if avail > 0 {
			label = runewidth.Truncate(label, avail, "…")
		}
		row := dot + " " + label
		style := styles.SidebarRow
		if i == m.selected {
			style = styles.SidebarRowSelected
		}
		rows = append(rows, style.Width(width).Render(row))
	}
	body := strings.Join(rows, "\n")
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).
		BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(styles.BorderNormal).
		Render(body)
}

func (m Model) renderPreview(height int) string {
	w := m.selectedWorkspace()
	width := m.previewCols()
	if w == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styles.Muted.Render("no workspaces"))
	}
	pv := m.preview[w.Key()]
	body := pv.RenderLines
	if body == "" {
		body = styles.Muted.Render("(no output yet)")
	}
	if m.inInteractive() && m.interactiveTarget.TargetSession == workspace.AgentSessionName(w.ProjectName, w.Name) {
		body += "\n" + styles.Muted.Render("-- interactive: ctrl+\\ to exit --")
	}
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(body)
}

func (m Model) renderFooter() string {
	var status string
	if m.toast.Message != "" {
		style := styles.ToastSuccess
		if m.toast.IsError {
			style = styles.ToastError
		}
		status = style.Render(m.toast.Message)
	} else if m.discoveryErr != "" {
		status = styles.ToastError.Render(m.discoveryErr)
	}

	hints := "j/k move  enter attach  s start  x stop  n new  D delete  M merge  ? help  : cmd  ctrl+c quit"
	hintsStr := styles.Muted.Render(hints)

	spacing := m.width - lipgloss.Width(hintsStr) - lipgloss.Width(status)
	if spacing < 0 {
		spacing = 0
	}
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(hintsStr + strings.Repeat(" ", spacing) + status)
}

func (m Model) renderCommandPalette() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Command"))
	b.WriteString("\n\n")
	b.WriteString("> " + m.commandPaletteInput)
	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("enter run  esc cancel"))
	return styles.ModalBox.Width(50).Render(b.String())
}

// renderKeybindHelp renders the static keybind reference through glamour,
// mirroring the teacher's markdown-rendering approach for rich modal bodies.
func (m Model) renderKeybindHelp() string {
	body := keybindHelpMarkdown
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(56)); err == nil {
		if rendered, err := r.Render(body); err == nil {
			body = rendered
		}
	}
	return styles.ModalBox.Width(60).Render(strings.TrimRight(body, "\n"))
}

const keybindHelpMarkdown = `# Keybindings

**Navigation**
- j/k, up/down — move selection
- tab — switch agent/git tab
- enter — attach interactive session

**Lifecycle**
- s — start agent
- x — stop agent
- n — create workspace
- D — delete workspace
- M — merge workspace
- u — update from base

**Other**
- \\ — toggle sidebar
- ! — toggle skip-permissions
- : — command palette
- ? — toggle this help
- ctrl+c / ctrl+d — quit
`

func (m Model) renderWorkspaceDialog() string {
	var b strings.Builder
	title := dialogTitle(m.dialog.Kind)
	b.WriteString(styles.ModalTitle.Render(title))
	b.WriteString("\n\n")
	if m.dialog.Kind == workspace.DialogLaunch || m.dialog.Kind == workspace.DialogCreate {
		b.WriteString("> " + m.dialog.Input)
		b.WriteString("\n\n")
	}
	if m.dialog.Error != "" {
		b.WriteString(styles.ToastError.Render(m.dialog.Error))
		b.WriteString("\n\n")
	}
	confirmLabel, cancelLabel := " Confirm ", " Cancel "
	confirmStyle, cancelStyle := lipgloss.NewStyle(), lipgloss.NewStyle()
	if m.dialog.ConfirmFocus == 0 {
		confirmStyle = confirmStyle.Reverse(true)
	} else {
		cancelStyle = cancelStyle.Reverse(true)
	}
	b.WriteString(confirmStyle.Render(confirmLabel) + "  " + cancelStyle.Render(cancelLabel))
	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("tab switch  enter confirm  esc cancel"))
	return styles.ModalBox.Width(50).Render(b.String())
}

func dialogTitle(kind workspace.DialogKind) string {
	switch kind {
	case workspace.DialogLaunch:
		return "Start Agent"
	case workspace.DialogCreate:
		return "Create Workspace"
	case workspace.DialogEdit:
		return "Edit Workspace"
	case workspace.DialogDelete:
		return "Delete Workspace"
	case workspace.DialogMerge:
		return "Merge Workspace"
	case workspace.DialogUpdateFromBase:
		return "Update From Base"
	case workspace.DialogProjects:
		return "Projects"
	case workspace.DialogSettings:
		return "Settings"
	default:
		return ""
	}
}
