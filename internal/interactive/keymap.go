// Package interactive implements C6: translating terminal key/mouse/paste
// events into multiplexer send-keys calls while a workspace's live session is
// being driven directly, plus the bookkeeping (resize verification,
// input/output correlation) that keeps that channel honest. See §4.6.
package interactive

import tea "github.com/charmbracelet/bubbletea"

// MappedKey is what a key event becomes on the wire to the multiplexer.
type MappedKey struct {
	Name      string // tmux/Zellij key name, e.g. "Enter", "C-a"
	Literal   string // literal text to forward, when Name is empty
	IsLiteral bool
}

// MapKey translates a bubbletea key message to the multiplexer's send-keys
// vocabulary. Named keys (arrows, function keys, control combinations) map to
// their tmux/Zellij name; everything else is forwarded as literal text.
func MapKey(msg tea.KeyMsg) MappedKey {
	switch msg.String() {
	case "shift+up":
		return literal("\x1b[1;2A")
	case "shift+down":
		return literal("\x1b[1;2B")
	case "shift+right":
		return literal("\x1b[1;2C")
	case "shift+left":
		return literal("\x1b[1;2D")
	case "ctrl+up":
		return literal("\x1b[1;5A")
	case "ctrl+down":
		return literal("\x1b[1;5B")
	case "ctrl+right":
		return literal("\x1b[1;5C")
	case "ctrl+left":
		return literal("\x1b[1;5D")
	case "alt+up":
		return literal("\x1b[1;3A")
	case "alt+down":
		return literal("\x1b[1;3B")
	case "alt+right":
		return literal("\x1b[1;3C")
	case "alt+left":
		return literal("\x1b[1;3D")
	case "shift+tab":
		return literal("\x1b[Z")
	}

	switch msg.Type {
	case tea.KeyEnter:
		return named("Enter")
	case tea.KeyBackspace:
		return named("BSpace")
	case tea.KeyDelete:
		return named("DC")
	case tea.KeyTab:
		return named("Tab")
	case tea.KeySpace:
		return named("Space")
	case tea.KeyUp:
		return named("Up")
	case tea.KeyDown:
		return named("Down")
	case tea.KeyLeft:
		return named("Left")
	case tea.KeyRight:
		return named("Right")
	case tea.KeyHome:
		return named("Home")
	case tea.KeyEnd:
		return named("End")
	case tea.KeyPgUp:
		return named("PPage")
	case tea.KeyPgDown:
		return named("NPage")
	case tea.KeyInsert:
		return named("IC")
	case tea.KeyEscape:
		return named("Escape")
	case tea.KeyCtrlA:
		return named("C-a")
	case tea.KeyCtrlB:
		return named("C-b")
	case tea.KeyCtrlC:
		return named("C-c")
	case tea.KeyCtrlD:
		return named("C-d")
	case tea.KeyCtrlE:
		return named("C-e")
	case tea.KeyCtrlF:
		return named("C-f")
	case tea.KeyCtrlG:
		return named("C-g")
	case tea.KeyCtrlH:
		return named("C-h")
	case tea.KeyCtrlJ:
		return named("C-j")
	case tea.KeyCtrlK:
		return named("C-k")
	case tea.KeyCtrlL:
		return named("C-l")
	case tea.KeyCtrlN:
		return named("C-n")
	case tea.KeyCtrlO:
		return named("C-o")
	case tea.KeyCtrlP:
		return named("C-p")
	case tea.KeyCtrlQ:
		return named("C-q")
	case tea.KeyCtrlR:
		return named("C-r")
	case tea.KeyCtrlS:
		return named("C-s")
	case tea.KeyCtrlT:
		return named("C-t")
	case tea.KeyCtrlU:
		return named("C-u")
	case tea.KeyCtrlV:
		return named("C-v")
	case tea.KeyCtrlW:
		return named("C-w")
	case tea.KeyCtrlX:
		return named("C-x")
	case tea.KeyCtrlY:
		return named("C-y")
	case tea.KeyCtrlZ:
		return named("C-z")
	case tea.KeyF1:
		return named("F1")
	case tea.KeyF2:
		return named("F2")
	case tea.KeyF3:
		return named("F3")
	case tea.KeyF4:
		return named("F4")
	case tea.KeyF5:
		return named("F5")
	case tea.KeyF6:
		return named("F6")
	case tea.KeyF7:
		return named("F7")
	case tea.KeyF8:
		return named("F8")
	case tea.KeyF9:
		return named("F9")
	case tea.KeyF10:
		return named("F10")
	case tea.KeyF11:
		return named("F11")
	case tea.KeyF12:
		return named("F12")
	case tea.KeyRunes:
		if len(msg.Runes) > 0 {
			return literal(string(msg.Runes))
		}
		return literal("")
	}

	if s := msg.String(); s != "" {
		return literal(s)
	}
	return literal("")
}

func named(name string) MappedKey   { return MappedKey{Name: name} }
func literal(text string) MappedKey { return MappedKey{Literal: text, IsLiteral: true} }

// isExitChar reports whether r is the control-character form of Ctrl-\
// (U+001C, File Separator) or Ctrl-4, which terminals sometimes deliver as
// the same control byte instead of a named key event.
func isExitChar(r rune) bool {
	return r == '\x1c'
}

// IsExitKey reports whether msg is one of the channel's non-Escape exit
// triggers: Ctrl-\ by name, or its raw control-character/Ctrl-4 form (§4.6).
func IsExitKey(msg tea.KeyMsg) bool {
	if msg.String() == "ctrl+\\" || msg.String() == "ctrl+4" {
		return true
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && isExitChar(msg.Runes[0]) {
		return true
	}
	return false
}
