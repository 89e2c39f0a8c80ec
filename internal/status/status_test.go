package status

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/groveterm/grove/internal/workspace"
)

// S1: waiting detection over a tail window.
func TestClassify_WaitingPromptInTailWindow(t *testing.T) {
	lines := []string{"one", "two", "three", "four", "five", "six", "seven", "allow edit? [y/n]"}
	got := Classify(strings.Join(lines, "\n"), Active, false, true, true)
	assert.Equal(t, workspace.StatusWaiting, got)
}

func TestClassify_WaitingPromptForShortcuts(t *testing.T) {
	got := Classify("some tip for shortcuts press ?", Active, false, true, true)
	assert.Equal(t, workspace.StatusWaiting, got)
}

func TestClassify_WaitingPromptTryGlyph(t *testing.T) {
	got := Classify("› try \"fix the bug\"", Active, false, true, true)
	assert.Equal(t, workspace.StatusWaiting, got)
}

// S2: thinking vs closed tag.
func TestClassify_ThinkingClosedTagIsActive(t *testing.T) {
	got := Classify("<thinking>\nworking\n</thinking>", Active, false, true, true)
	assert.Equal(t, workspace.StatusActive, got)
}

func TestClassify_ThinkingUnclosedTagIsThinking(t *testing.T) {
	got := Classify("<thinking>\nworking\n", Active, false, true, true)
	assert.Equal(t, workspace.StatusThinking, got)
}

func TestClassify_ThinkingPhrase(t *testing.T) {
	got := Classify("reasoning about the plan", Active, false, true, true)
	assert.Equal(t, workspace.StatusThinking, got)
}

func TestClassify_DoneBulletLine(t *testing.T) {
	got := Classify("✓ Done", Active, false, true, true)
	assert.Equal(t, workspace.StatusDone, got)
}

func TestClassify_DoneMarkerPhrase(t *testing.T) {
	got := Classify("the task completed successfully", Active, false, true, true)
	assert.Equal(t, workspace.StatusDone, got)
}

func TestClassify_ErrorMarkerPhrase(t *testing.T) {
	got := Classify("panic: runtime error", Active, false, true, true)
	assert.Equal(t, workspace.StatusError, got)
}

// Boundary: empty output with live session.
func TestClassify_EmptyOutputActive(t *testing.T) {
	got := Classify("", Active, false, true, true)
	assert.Equal(t, workspace.StatusActive, got)
}

func TestClassify_EmptyOutputIdle(t *testing.T) {
	got := Classify("", Idle, false, true, true)
	assert.Equal(t, workspace.StatusIdle, got)
}

func TestClassify_MainWithoutLiveSession(t *testing.T) {
	got := Classify("anything", Idle, true, false, true)
	assert.Equal(t, workspace.StatusMain, got)
}

func TestClassify_MainWithLiveSessionIsNotForcedMain(t *testing.T) {
	got := Classify("", Active, true, true, true)
	assert.Equal(t, workspace.StatusActive, got)
}

func TestClassify_Unsupported(t *testing.T) {
	got := Classify("anything", Active, false, true, false)
	assert.Equal(t, workspace.StatusUnsupported, got)
}

func TestClassify_NoLiveSessionIsIdle(t *testing.T) {
	got := Classify("anything", Active, false, false, true)
	assert.Equal(t, workspace.StatusIdle, got)
}

// Rule-order: a waiting prompt beats a later error marker in the same tail.
func TestClassify_WaitingTakesPriorityOverError(t *testing.T) {
	got := Classify("panic: boom\ncontinue? [y/n]", Active, false, true, true)
	assert.Equal(t, workspace.StatusWaiting, got)
}

type stubProber struct {
	status workspace.Status
	ok     bool
}

func (s stubProber) Status(string) (workspace.Status, bool) { return s.status, s.ok }

func TestClassifyWithOverride_ReplacesActive(t *testing.T) {
	got := ClassifyWithOverride(stubProber{workspace.StatusWaiting, true}, "/ws", "", Active, false, true, true)
	assert.Equal(t, workspace.StatusWaiting, got)
}

func TestClassifyWithOverride_NoOverrideWhenProbeHasNoOpinion(t *testing.T) {
	got := ClassifyWithOverride(stubProber{ok: false}, "/ws", "", Active, false, true, true)
	assert.Equal(t, workspace.StatusActive, got)
}

func TestClassifyWithOverride_DoesNotApplyToNonActiveNonWaiting(t *testing.T) {
	got := ClassifyWithOverride(stubProber{workspace.StatusError, true}, "/ws", "panic: x", Active, false, true, true)
	assert.Equal(t, workspace.StatusError, got)
}
