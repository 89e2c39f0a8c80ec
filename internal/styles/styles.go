// Package styles holds Grove's fixed lipgloss palette and named styles for
// the controller's view layer. Grove has no theme-switching system (unlike
// the teacher's internal/styles, which carried a full community-theme
// registry) — one palette, styled the teacher's way.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/groveterm/grove/internal/workspace"
)

var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#3B82F6")
	Accent    = lipgloss.Color("#F59E0B")

	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Danger  = lipgloss.Color("#EF4444")

	TextPrimary = lipgloss.Color("#F9FAFB")
	TextMuted   = lipgloss.Color("#9CA3AF")
	TextSubtle  = lipgloss.Color("#4B5563")

	BgTertiary   = lipgloss.Color("#374151")
	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)

	Header = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary).Background(lipgloss.Color("#1F2937"))
	Footer = lipgloss.NewStyle().Foreground(TextMuted)

	KeyHint = lipgloss.NewStyle().Foreground(TextMuted).Background(BgTertiary).Padding(0, 1)

	SidebarRow         = lipgloss.NewStyle().Padding(0, 1)
	SidebarRowSelected = lipgloss.NewStyle().Padding(0, 1).Foreground(TextPrimary).Background(lipgloss.Color("#1F2937")).Bold(true)

	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderActive).
			Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(Primary)

	ToastSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(Success).Padding(0, 1)
	ToastError   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(Danger).Padding(0, 1)
)

// StatusColor returns the dot color used to render a workspace's status in
// the sidebar, mirroring the teacher's StatusCompleted/StatusBlocked/etc.
// family but keyed off workspace.Status directly instead of a per-plugin
// status string.
func StatusColor(s workspace.Status) lipgloss.Color {
	switch s {
	case workspace.StatusMain:
		return Secondary
	case workspace.StatusActive, workspace.StatusThinking:
		return Accent
	case workspace.StatusWaiting:
		return Warning
	case workspace.StatusDone:
		return Success
	case workspace.StatusError:
		return Danger
	case workspace.StatusUnsupported, workspace.StatusUnknown:
		return TextSubtle
	default:
		return TextMuted
	}
}
