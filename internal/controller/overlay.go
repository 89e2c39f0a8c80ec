package controller

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/groveterm/grove/internal/styles"
	"github.com/groveterm/grove/internal/workspace"
)

// dimStyleFor picks the backdrop dim color for a dialog kind: destructive
// dialogs (Delete) dim toward Danger so the backdrop itself hints at the
// stakes, everything else dims toward the ordinary muted gray.
func dimStyleFor(kind workspace.DialogKind) lipgloss.Style {
	if kind == workspace.DialogDelete {
		return lipgloss.NewStyle().Foreground(styles.Danger).Faint(true)
	}
	return lipgloss.NewStyle().Foreground(styles.TextSubtle)
}

func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

func dimLine(style lipgloss.Style, s string) string {
	return style.Render(ansi.Strip(s))
}

// compositeDialogRow overlays modalLine onto bgLine at modalStartX, dimming
// the background segments on either side with style.
func compositeDialogRow(style lipgloss.Style, bgLine, modalLine string, modalStartX, modalWidth, totalWidth int) string {
	var result strings.Builder

	stripped := ansi.Strip(bgLine)
	bgWidth := ansi.StringWidth(stripped)

	if modalStartX > 0 {
		leftSeg := ansi.Truncate(stripped, modalStartX, "")
		leftWidth := ansi.StringWidth(leftSeg)
		result.WriteString(style.Render(leftSeg))
		if leftWidth < modalStartX {
			result.WriteString(strings.Repeat(" ", modalStartX-leftWidth))
		}
	}

	result.WriteString(modalLine)

	rightStartX := modalStartX + modalWidth
	if rightStartX < totalWidth && bgWidth > rightStartX {
		rightSeg := ansi.Cut(stripped, rightStartX, bgWidth)
		result.WriteString(style.Render(rightSeg))
	}

	return result.String()
}

// overlayDialog centers modal over background, dimming the backdrop with a
// color keyed off kind (see dimStyleFor) so a destructive confirm dialog
// reads differently from the command palette or keybind help at a glance.
func overlayDialog(background, modal string, width, height int, kind workspace.DialogKind) string {
	style := dimStyleFor(kind)

	bgLines := strings.Split(background, "\n")
	modalLines := strings.Split(modal, "\n")

	modalWidth := maxLineWidth(modalLines)
	modalHeight := len(modalLines)
	startX := (width - modalWidth) / 2
	startY := (height - modalHeight) / 2
	if startX < 0 {
		startX = 0
	}
	if startY < 0 {
		startY = 0
	}

	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	result := make([]string, 0, height)
	for y := 0; y < height; y++ {
		bgLine := ""
		if y < len(bgLines) {
			bgLine = bgLines[y]
		}

		modalRowIdx := y - startY
		if modalRowIdx >= 0 && modalRowIdx < modalHeight {
			result = append(result, compositeDialogRow(style, bgLine, modalLines[modalRowIdx], startX, modalWidth, width))
		} else {
			result = append(result, dimLine(style, bgLine))
		}
	}

	return strings.Join(result, "\n")
}
