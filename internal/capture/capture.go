// Package capture implements the byte-level pipeline that turns one raw
// multiplexer capture into the two cleaned text forms the rest of Grove
// consumes, plus the digests used to detect whether anything actually
// changed since the previous capture of the same session.
package capture

import (
	"regexp"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/groveterm/grove/internal/workspace"
)

// modeToggle matches xterm mouse-tracking mode toggles, with or without the
// leading ESC (a split capture can lose the ESC byte to the previous chunk,
// leaving the bracket form as plain text).
var modeToggle = regexp.MustCompile(`\x1b?\[\?(?:1000|1002|1003|1005|1006|1015|2004)[hl]`)

// sgrColor matches a real SGR color/style sequence: ESC [ digits;digits... m.
// Mouse-report fragments always contain a `<` and never match this.
var sgrColor = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Clean runs the full C1 pipeline over one raw capture, producing
// render_output (printable text + SGR) and cleaned_output (render_output
// with SGR and mouse-report debris removed). Both are pure functions of raw.
func Clean(raw []byte) (render, cleaned string) {
	valid := toValidUTF8(raw)
	render = stripToRender(valid)
	cleaned = stripMouseFragments(modeToggle.ReplaceAllString(sgrColor.ReplaceAllString(render, ""), ""))
	return render, cleaned
}

// toValidUTF8 replaces any invalid UTF-8 byte sequences with U+FFFD before
// ANSI parsing begins, so a capture boundary landing mid-rune never panics
// and never leaks raw high-bit garbage into the preview.
func toValidUTF8(raw []byte) []byte {
	return []byte(strings.ToValidUTF8(string(raw), "�"))
}

func isControlByte(c byte) bool {
	return (c < 0x20 && c != '\n' && c != '\t') || c == 0x7F
}

// stripToRender implements rule set 1 of §4.1: keep printable text and SGR
// sequences, drop every other control byte and escape sequence.
func stripToRender(b []byte) string {
	var out strings.Builder
	out.Grow(len(b))
	n := len(b)
	i := 0
	for i < n {
		c := b[i]
		if c == 0x1B {
			i = consumeEscape(b, i, &out)
			continue
		}
		if isControlByte(c) {
			i++
			continue
		}
		out.WriteByte(c)
		i++
	}
	return out.String()
}

// consumeEscape consumes one escape sequence starting at b[i] (b[i] == ESC)
// and returns the index just past it, writing the sequence to out only when
// it is a kept SGR sequence.
func consumeEscape(b []byte, i int, out *strings.Builder) int {
	n := len(b)
	if i+1 >= n {
		return i + 1
	}
	switch b[i+1] {
	case '[':
		j := i + 2
		for j < n {
			c := b[j]
			if c >= 0x40 && c <= 0x7E {
				if c == 'm' {
					out.Write(b[i : j+1])
				}
				return j + 1
			}
			j++
		}
		return n
	case ']':
		j := i + 2
		for j < n {
			if b[j] == 0x07 {
				return j + 1
			}
			if b[j] == 0x1B && j+1 < n && b[j+1] == '\\' {
				return j + 2
			}
			j++
		}
		return n
	case 'P', 'X', '^', '_':
		j := i + 2
		for j < n {
			if b[j] == 0x1B && j+1 < n && b[j+1] == '\\' {
				return j + 2
			}
			j++
		}
		return n
	case '(', ')', '*', '+', '-', '.', '/', '#':
		if i+2 < n {
			return i + 3
		}
		return n
	default:
		return i + 2
	}
}

// stripMouseFragments removes SGR mouse-report fragments (CSI `<` form) from
// cleaned_output, tolerating a fragment truncated at end of input: optional
// `M`/`m` prefix, optional ESC, `[`, `<`, up to three `;`-separated decimal
// fields, optional `M`/`m` terminator. See §4.1 rule 2 and boundary test in
// §8.
func stripMouseFragments(s string) string {
	b := []byte(s)
	n := len(b)
	out := make([]byte, 0, n)
	i := 0
	for i < n {
		start := i
		j := i
		if j < n && (b[j] == 'M' || b[j] == 'm') {
			j++
		}
		if j < n && b[j] == 0x1B {
			j++
		}
		if j < n && b[j] == '[' && j+1 < n && b[j+1] == '<' {
			k := j + 2
			fields := 0
			sawDigit := false
			for fields < 3 && k < n {
				if b[k] >= '0' && b[k] <= '9' {
					sawDigit = true
					k++
					continue
				}
				if b[k] == ';' {
					fields++
					sawDigit = false
					k++
					continue
				}
				break
			}
			if sawDigit || fields > 0 {
				if k < n && (b[k] == 'M' || b[k] == 'm') {
					k++
				}
				i = k
				continue
			}
		}
		out = append(out, b[start])
		i = start + 1
	}
	return string(out)
}

// Digest computes the raw/cleaned digest pair for one capture.
func Digest(raw []byte, cleaned string) workspace.OutputDigest {
	return workspace.OutputDigest{
		RawHash:     xxhash.Sum64(raw),
		RawLen:      len(raw),
		CleanedHash: xxhash.Sum64([]byte(cleaned)),
	}
}

// Tracker holds the previous digest per session so repeated captures can be
// compared for change. It is the only stateful piece of C1; everything else
// above is a pure function.
type Tracker struct {
	mu      sync.Mutex
	digests map[string]workspace.OutputDigest
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{digests: make(map[string]workspace.OutputDigest)}
}

// Process runs Clean over raw, compares the resulting digest against the
// previous one recorded for session, and returns the full CaptureChange. The
// first capture of a session always reports both change flags true (§3).
func (t *Tracker) Process(session string, raw []byte) workspace.CaptureChange {
	render, cleaned := Clean(raw)
	digest := Digest(raw, cleaned)

	t.mu.Lock()
	prev, known := t.digests[session]
	t.digests[session] = digest
	t.mu.Unlock()

	changedRaw := true
	changedCleaned := true
	if known {
		changedRaw = prev.RawHash != digest.RawHash || prev.RawLen != digest.RawLen
		changedCleaned = prev.CleanedHash != digest.CleanedHash
	}

	return workspace.CaptureChange{
		Digest:         digest,
		ChangedRaw:     changedRaw,
		ChangedCleaned: changedCleaned,
		CleanedOutput:  cleaned,
		RenderOutput:   render,
	}
}

// Forget drops any recorded digest for session, e.g. when its session ends.
func (t *Tracker) Forget(session string) {
	t.mu.Lock()
	delete(t.digests, session)
	t.mu.Unlock()
}

// missingSessionPhrases is the known set of stderr substrings that
// authoritatively indicate the multiplexer session backing a capture is
// gone, rather than a transient I/O failure (§4.7's PreviewPollCompleted
// handling). Grounded on the teacher's isSessionDeadError
// (internal/plugins/worktree/interactive.go), extended with the Zellij and
// "no server" variants §4.7 names.
var missingSessionPhrases = []string{
	"can't find pane",
	"can't find session",
	"no server running",
	"no sessions",
	"failed to connect to server",
	"no active session",
	"session not found",
	"pane not found",
}

// IsMissingSessionError reports whether err indicates the session/pane a
// capture targeted no longer exists.
func IsMissingSessionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range missingSessionPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
