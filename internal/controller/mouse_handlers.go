package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveterm/grove/internal/mouse"
)

const (
	sidebarRowRegion = "sidebar-row"
	dividerRegion    = "divider"
	previewRegion    = "preview"
)

// handleMouse routes one mouse event by modal priority, mirroring the
// teacher's Update's ModalPalette/ModalHelp/... switch (internal/app/update.go).
// Grove has no per-dialog mouse handling yet: a modal or an attached
// interactive session simply swallows mouse events.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.hasModal() || m.inInteractive() {
		return m, nil
	}

	action := m.mouseHandler.HandleMouse(msg)

	switch action.Type {
	case mouse.ActionClick:
		if action.Region != nil && action.Region.ID == dividerRegion {
			m.mouseHandler.StartDrag(msg.X, msg.Y, dividerRegion, m.sidebarPct)
			return m, nil
		}
		return m.handleMouseClick(action)

	case mouse.ActionDrag:
		return m.handleMouseDrag(action)

	case mouse.ActionDragEnd:
		return m, m.persistSidebarWidthCmd()

	case mouse.ActionScrollUp:
		return m, nil

	case mouse.ActionScrollDown:
		return m, nil
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
		action.Region != nil && action.Region.ID == dividerRegion {
		m.mouseHandler.StartDrag(msg.X, msg.Y, dividerRegion, m.sidebarPct)
	}

	return m, nil
}

func (m Model) handleMouseClick(action mouse.MouseAction) (tea.Model, tea.Cmd) {
	if action.Region == nil {
		return m, nil
	}
	if action.Region.ID == sidebarRowRegion {
		if idx, ok := action.Region.Data.(int); ok {
			m.selected = idx
			m.clampSelection()
		}
	}
	return m, nil
}

func (m Model) handleMouseDrag(action mouse.MouseAction) (tea.Model, tea.Cmd) {
	if !m.mouseHandler.IsDragging() || m.mouseHandler.DragRegion() != dividerRegion || m.width == 0 {
		return m, nil
	}
	deltaPct := action.DragDX * 100 / m.width
	pct := m.mouseHandler.DragStartValue() + deltaPct
	if pct < 10 {
		pct = 10
	}
	if pct > 60 {
		pct = 60
	}
	m.sidebarPct = pct
	return m, nil
}

// persistSidebarWidthCmd writes the current sidebar ratio to disk once a
// divider drag ends, matching the single-integer on-disk format spec §6
// requires for sidebar-width.txt.
func (m Model) persistSidebarWidthCmd() tea.Cmd {
	path := m.deps.SidebarPath
	pct := m.sidebarPct
	return func() tea.Msg {
		if path != "" {
			_ = writeSidebarWidth(path, pct)
		}
		return NoopMsg{}
	}
}

// buildSidebarHitMap repopulates the mouse handler's hit map for the current
// frame; called from the view layer before rendering so clicks in the next
// Update cycle resolve against up-to-date geometry.
func (m *Model) buildSidebarHitMap() {
	m.mouseHandler.HitMap.Clear()
	if !m.showSidebar {
		return
	}
	for i := range m.workspaces {
		m.mouseHandler.HitMap.AddRect(sidebarRowRegion, 0, i+1, m.sidebarWidth(), 1, i)
	}
	m.mouseHandler.HitMap.AddRect(dividerRegion, m.sidebarWidth(), 0, 1, m.height, nil)
	m.mouseHandler.HitMap.AddRect(previewRegion, m.sidebarWidth()+1, 0, m.previewCols(), m.height, nil)
}
