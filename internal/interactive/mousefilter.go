package interactive

import (
	"regexp"
	"time"
)

// mouseFragmentRecency is the window after a mouse event within which a
// key-event's text is checked against the SGR mouse-fragment pattern before
// being forwarded (§4.6).
const mouseFragmentRecency = 50 * time.Millisecond

// sgrMouseFragment matches the tail of an SGR mouse report that arrived
// split from its ESC prefix: an optional leading M/m, an optional `[`, the
// `<` introducer, digits and semicolons, and an optional trailing M/m.
var sgrMouseFragment = regexp.MustCompile(`^([Mm])?\[?<[0-9;]*([Mm])?$`)

// IsMouseFragment reports whether text looks like the trailing bytes of a
// split SGR mouse report rather than typed input.
func IsMouseFragment(text string) bool {
	return text != "" && sgrMouseFragment.MatchString(text)
}

// ShouldDropAsMouseFragment reports whether a key event's literal text
// should be dropped instead of forwarded, per §4.6's mouse-fragment key
// filter: only within mouseFragmentRecency of the last observed mouse event,
// and only when the text matches the fragment shape.
func ShouldDropAsMouseFragment(text string, lastMouseEventAt, now time.Time) bool {
	if lastMouseEventAt.IsZero() {
		return false
	}
	if now.Sub(lastMouseEventAt) > mouseFragmentRecency {
		return false
	}
	return IsMouseFragment(text)
}
