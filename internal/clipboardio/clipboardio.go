// Package clipboardio implements the ClipboardAccess collaborator contract
// (§6.2) over atotto/clipboard, backing the interactive channel's Alt-C /
// Alt-V actions (§4.6).
package clipboardio

import "github.com/atotto/clipboard"

// ClipboardAccess reads and writes the system clipboard. Both operations are
// best-effort external I/O and may fail.
type ClipboardAccess interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// System backs ClipboardAccess with the real OS clipboard.
type System struct{}

// ReadText returns the clipboard's current text contents.
func (System) ReadText() (string, error) {
	return clipboard.ReadAll()
}

// WriteText replaces the clipboard's text contents with s.
func (System) WriteText(s string) error {
	return clipboard.WriteAll(s)
}
