package interactive

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestMapKey_NamedKeys(t *testing.T) {
	k := MapKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "Enter", k.Name)
	require.False(t, k.IsLiteral)
}

func TestMapKey_Runes(t *testing.T) {
	k := MapKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	require.True(t, k.IsLiteral)
	require.Equal(t, "a", k.Literal)
}

func TestMapKey_CtrlCombination(t *testing.T) {
	k := MapKey(tea.KeyMsg{Type: tea.KeyCtrlA})
	require.Equal(t, "C-a", k.Name)
}

func TestIsMouseFragment_MatchesSGRTail(t *testing.T) {
	require.True(t, IsMouseFragment("[<0;10;20M"))
	require.True(t, IsMouseFragment("M[<0;10;20m"))
}

func TestIsMouseFragment_RejectsOrdinaryText(t *testing.T) {
	require.False(t, IsMouseFragment("hello"))
	require.False(t, IsMouseFragment(""))
}

func TestShouldDropAsMouseFragment_WithinWindow(t *testing.T) {
	base := time.Now()
	require.True(t, ShouldDropAsMouseFragment("[<0;1;1M", base, base.Add(10*time.Millisecond)))
}

func TestShouldDropAsMouseFragment_OutsideWindow(t *testing.T) {
	base := time.Now()
	require.False(t, ShouldDropAsMouseFragment("[<0;1;1M", base, base.Add(200*time.Millisecond)))
}

func TestShouldDropAsMouseFragment_NoRecentMouseEvent(t *testing.T) {
	require.False(t, ShouldDropAsMouseFragment("[<0;1;1M", time.Time{}, time.Now()))
}

func TestIsPasteEvent(t *testing.T) {
	require.True(t, IsPasteEvent("line1\nline2"))
	require.False(t, IsPasteEvent("single line"))
}

func TestEncodePaste_BracketedWithNewline(t *testing.T) {
	got := EncodePaste("a\nb", true)
	require.Equal(t, "\x1b[200~a\nb\x1b[201~", got)
}

func TestEncodePaste_NotBracketed(t *testing.T) {
	got := EncodePaste("a\nb", false)
	require.Equal(t, "a\nb", got)
}

func TestEncodePaste_NoNewlineEvenIfBracketed(t *testing.T) {
	got := EncodePaste("abc", true)
	require.Equal(t, "abc", got)
}

func TestEvalEscape_SecondWithinWindow(t *testing.T) {
	base := time.Now()
	outcome := EvalEscape(true, base, base.Add(50*time.Millisecond))
	require.Equal(t, EscapeExit, outcome)
}

func TestEvalEscape_SecondOutsideWindow(t *testing.T) {
	base := time.Now()
	outcome := EvalEscape(true, base, base.Add(200*time.Millisecond))
	require.Equal(t, EscapeArmed, outcome)
}

func TestEvalEscape_FirstPress(t *testing.T) {
	outcome := EvalEscape(false, time.Time{}, time.Now())
	require.Equal(t, EscapeArmed, outcome)
}

func TestIsExitKey_ControlBackslashRune(t *testing.T) {
	require.True(t, IsExitKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'\x1c'}}))
}

func TestTargetSize_SubtractsBorderAndMetadata(t *testing.T) {
	w, h := TargetSize(82, 30, 3)
	require.Equal(t, 80, w)
	require.Equal(t, 27, h)
}

func TestTargetSize_FloorsAtOne(t *testing.T) {
	w, h := TargetSize(1, 1, 10)
	require.Equal(t, 1, w)
	require.Equal(t, 1, h)
}

func TestNeedsResizeRetry_MismatchNotYetRetried(t *testing.T) {
	require.True(t, NeedsResizeRetry(79, 24, 80, 24, false))
}

func TestNeedsResizeRetry_AlreadyRetried(t *testing.T) {
	require.False(t, NeedsResizeRetry(79, 24, 80, 24, true))
}

func TestNeedsResizeRetry_Matches(t *testing.T) {
	require.False(t, NeedsResizeRetry(80, 24, 80, 24, false))
}

func TestCorrelator_DrainOnChange(t *testing.T) {
	c := NewCorrelator()
	t0 := time.Now()
	seq1 := c.RecordForward("sess-a", t0)
	seq2 := c.RecordForward("sess-a", t0.Add(5*time.Millisecond))
	require.Equal(t, seq1+1, seq2)

	corr, ok := c.DrainOnChange("sess-a", t0.Add(30*time.Millisecond), t0.Add(25*time.Millisecond))
	require.True(t, ok)
	require.Equal(t, seq1, corr.SeqFirst)
	require.Equal(t, seq2, corr.SeqLast)
	require.Equal(t, int64(30), corr.InputToPreviewMS)
	require.Equal(t, int64(25), corr.TmuxToPreviewMS)

	_, ok = c.DrainOnChange("sess-a", time.Now(), time.Now())
	require.False(t, ok)
}

func TestCorrelator_SeparateSessionsIndependent(t *testing.T) {
	c := NewCorrelator()
	now := time.Now()
	c.RecordForward("a", now)
	c.RecordForward("b", now)

	_, okA := c.DrainOnChange("a", now, now)
	require.True(t, okA)
	_, okB := c.DrainOnChange("b", now, now)
	require.True(t, okB)
}

func TestCorrelator_Forget(t *testing.T) {
	c := NewCorrelator()
	now := time.Now()
	c.RecordForward("a", now)
	c.Forget("a")
	_, ok := c.DrainOnChange("a", now, now)
	require.False(t, ok)
}
