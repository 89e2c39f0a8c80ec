package interactive

import "strings"

const (
	bracketedPasteStart = "\x1b[200~"
	bracketedPasteEnd   = "\x1b[201~"
)

// IsPasteEvent reports whether text should be treated as a paste rather than
// typed input: it contains a newline (§4.6's `is_paste_event`).
func IsPasteEvent(text string) bool {
	return strings.Contains(text, "\n")
}

// EncodePaste returns text verbatim when bracketedMode is false or text has
// no newline; otherwise it wraps text in bracketed-paste markers (§4.6's
// `encode_paste`).
func EncodePaste(text string, bracketedMode bool) string {
	if !bracketedMode || !strings.Contains(text, "\n") {
		return text
	}
	return bracketedPasteStart + text + bracketedPasteEnd
}
