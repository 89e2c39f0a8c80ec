package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestClean_PlainText(t *testing.T) {
	render, cleaned := Clean([]byte("hello world"))
	assert.Equal(t, "hello world", render)
	assert.Equal(t, "hello world", cleaned)
}

func TestClean_KeepsSGRInRenderOnly(t *testing.T) {
	raw := []byte("\x1b[1;32mhello\x1b[0m")
	render, cleaned := Clean(raw)
	assert.Equal(t, "\x1b[1;32mhello\x1b[0m", render)
	assert.Equal(t, "hello", cleaned)
}

func TestClean_DropsOSC(t *testing.T) {
	raw := []byte("before\x1b]0;window title\x07after")
	render, _ := Clean(raw)
	assert.Equal(t, "beforeafter", render)
}

func TestClean_DropsNonSGRCSI(t *testing.T) {
	raw := []byte("a\x1b[2Jb")
	render, _ := Clean(raw)
	assert.Equal(t, "ab", render)
}

func TestClean_DropsCharsetDesignation(t *testing.T) {
	raw := []byte("a\x1b(B b")
	render, _ := Clean(raw)
	assert.Equal(t, "a b", render)
}

func TestClean_DropsStringSequence(t *testing.T) {
	raw := []byte("a\x1bPsome dcs payload\x1b\\b")
	render, _ := Clean(raw)
	assert.Equal(t, "ab", render)
}

func TestClean_ControlBytesDropped(t *testing.T) {
	raw := []byte("a\x01\x02b\tc\nd")
	render, _ := Clean(raw)
	assert.Equal(t, "ab\tc\nd", render)
}

// S3 from spec §8: mouse-tracking toggles never register as output change,
// and an uppercase-M-terminated SGR mouse report is dropped from
// cleaned_output as a non-SGR CSI sequence.
func TestClean_MouseModeToggleStripped(t *testing.T) {
	_, cleaned := Clean([]byte("hello\x1b[?1000h\x1b[<35;192;47M"))
	assert.Equal(t, "hello", cleaned)

	_, cleaned2 := Clean([]byte("hello\x1b[?1000l"))
	assert.Equal(t, "hello", cleaned2)
}

func TestClean_MouseFragmentLowercaseTerminatorSurvivesRenderButStripped(t *testing.T) {
	// Ends in lowercase 'm', so the render stage keeps it as if it were SGR;
	// cleaned_output must still strip it.
	raw := []byte("hello\x1b[<0;50;20m world")
	render, cleaned := Clean(raw)
	assert.Contains(t, render, "\x1b[<0;50;20m")
	assert.Equal(t, "hello world", cleaned)
}

// Boundary behavior from §8: a truncated mouse fragment at end of input must
// not panic and must be fully removed.
func TestClean_TruncatedMouseFragmentAtEOF(t *testing.T) {
	_, cleaned := Clean([]byte("prompt \x1b[<65;103;31"))
	assert.Equal(t, "prompt ", cleaned)
}

func TestClean_BareBracketMouseFragmentWithoutESC(t *testing.T) {
	// A split capture can lose the ESC byte to the previous chunk, leaving
	// the bracket form as plain text.
	_, cleaned := Clean([]byte("x[<35;192;47My"))
	assert.Equal(t, "xy", cleaned)
}

func TestClean_InvalidUTF8ReplacedBeforeParsing(t *testing.T) {
	raw := []byte("prefix\xffsuffix")
	render, cleaned := Clean(raw)
	assert.NotPanics(t, func() { Clean(raw) })
	assert.Contains(t, render, "�")
	assert.Contains(t, cleaned, "�")
}

func TestClean_LoneTrailingEscapeDropped(t *testing.T) {
	render, _ := Clean([]byte("abc\x1b"))
	assert.Equal(t, "abc", render)
}

// P6: mouse stripping is idempotent.
func TestStripMouseFragments_Idempotent(t *testing.T) {
	inputs := []string{
		"hello",
		"hello\x1b[<35;192;47M",
		"x[<35;192;47My",
		"prompt \x1b[<65;103;31",
		"m[<1;2;3mtrailing",
	}
	for _, in := range inputs {
		once := stripMouseFragments(in)
		twice := stripMouseFragments(once)
		assert.Equal(t, once, twice, "not idempotent for %q", in)
	}
}

func TestStripMouseFragments_IdempotentProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringMatching(`[a-zA-Z0-9 \x1b\[<;Mm]{0,40}`).Draw(rt, "s")
		once := stripMouseFragments(s)
		twice := stripMouseFragments(once)
		assert.Equal(rt, once, twice)
	})
}

func TestTracker_FirstCaptureAlwaysChanged(t *testing.T) {
	tr := NewTracker()
	change := tr.Process("sess-1", []byte("hello"))
	assert.True(t, change.ChangedRaw)
	assert.True(t, change.ChangedCleaned)
}

// S3 concretely: mouse-tracking noise must not register as a cleaned change.
func TestTracker_MouseNoiseDoesNotChangeCleaned(t *testing.T) {
	tr := NewTracker()
	first := tr.Process("sess-1", []byte("hello\x1b[?1000h\x1b[<35;192;47M"))
	require.True(t, first.ChangedRaw)
	require.True(t, first.ChangedCleaned)
	require.Equal(t, "hello", first.CleanedOutput)

	second := tr.Process("sess-1", []byte("hello\x1b[?1000l"))
	assert.True(t, second.ChangedRaw)
	assert.False(t, second.ChangedCleaned)
	assert.Equal(t, "hello", second.CleanedOutput)
}

func TestTracker_UnchangedCaptureReportsNoChange(t *testing.T) {
	tr := NewTracker()
	tr.Process("sess-1", []byte("same"))
	again := tr.Process("sess-1", []byte("same"))
	assert.False(t, again.ChangedRaw)
	assert.False(t, again.ChangedCleaned)
}

func TestTracker_SeparateSessionsDoNotInterfere(t *testing.T) {
	tr := NewTracker()
	tr.Process("a", []byte("one"))
	change := tr.Process("b", []byte("one"))
	assert.True(t, change.ChangedRaw)
	assert.True(t, change.ChangedCleaned)
}

func TestTracker_Forget(t *testing.T) {
	tr := NewTracker()
	tr.Process("a", []byte("same"))
	tr.Forget("a")
	change := tr.Process("a", []byte("same"))
	assert.True(t, change.ChangedRaw)
}
