// Package status implements the finite-state classifier (C2): cleaned tail
// text plus liveness and support evidence map onto one Status. Classify is a
// pure, total, deterministic function; rule order is part of its contract
// (§4.2, P7).
package status

import (
	"strings"

	"github.com/groveterm/grove/internal/workspace"
)

// Activity is the multiplexer-liveness signal the controller feeds in
// alongside cleaned text; distinct from workspace.Status.
type Activity int

const (
	Idle Activity = iota
	Active
)

var waitingPhrases = []string{
	"[y/n]", "(y/n)", "allow edit", "allow bash", "press enter",
	"continue?", "do you want", "approve", "confirm",
}

var doneMarkers = []string{
	"task completed", "all done", "finished", "exited with code 0", "goodbye",
}

var errorMarkers = []string{
	"error:", "failed", "exited with code 1", "panic:", "exception:", "traceback",
}

const bulletCutset = " \t•-*·✓✔☑"

// Classify implements the nine ordered rules of §4.2. First match wins.
func Classify(cleaned string, activity Activity, isMain, hasLiveSession, supportedAgent bool) workspace.Status {
	if isMain && !hasLiveSession {
		return workspace.StatusMain
	}
	if !supportedAgent {
		return workspace.StatusUnsupported
	}
	if !hasLiveSession {
		return workspace.StatusIdle
	}

	lines := splitLines(cleaned)

	if isWaitingPrompt(tail(lines, 8)) {
		return workspace.StatusWaiting
	}

	tail60 := tail(lines, 60)
	tailLower := strings.ToLower(strings.Join(tail60, "\n"))

	if isThinking(tailLower) {
		return workspace.StatusThinking
	}

	if isDoneLine(tail60) {
		return workspace.StatusDone
	}

	if containsAny(tailLower, doneMarkers) {
		return workspace.StatusDone
	}

	if containsAny(tailLower, errorMarkers) {
		return workspace.StatusError
	}

	if activity == Active {
		return workspace.StatusActive
	}
	return workspace.StatusIdle
}

// Prober is the session-file override hook into C4: when the text-derived
// rules yield Active or Waiting, the probe gets the final word.
type Prober interface {
	Status(workspacePath string) (workspace.Status, bool)
}

// ClassifyWithOverride runs Classify, then consults prober for the workspace
// path if the result would be Active or Waiting, per §4.2's session-file
// override.
func ClassifyWithOverride(prober Prober, workspacePath, cleaned string, activity Activity, isMain, hasLiveSession, supportedAgent bool) workspace.Status {
	result := Classify(cleaned, activity, isMain, hasLiveSession, supportedAgent)
	if prober == nil {
		return result
	}
	if result != workspace.StatusActive && result != workspace.StatusWaiting {
		return result
	}
	if override, ok := prober.Status(workspacePath); ok {
		return override
	}
	return result
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func isWaitingPrompt(tailWindow []string) bool {
	for _, line := range tailWindow {
		if containsAny(strings.ToLower(line), waitingPhrases) {
			return true
		}
	}
	for _, line := range tailWindow {
		if strings.Contains(strings.ToLower(line), "for shortcuts") {
			return true
		}
	}
	last := lastNonEmpty(tailWindow)
	if last == "" {
		return false
	}
	for _, prefix := range []string{"›", "❯", "»"} {
		if strings.HasPrefix(last, prefix) {
			rest := strings.TrimSpace(strings.TrimPrefix(last, prefix))
			if strings.HasPrefix(strings.ToLower(rest), "try ") {
				return true
			}
		}
	}
	return false
}

func lastNonEmpty(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return strings.TrimSpace(lines[i])
		}
	}
	return ""
}

// isThinking implements rule 5: an opened-but-not-yet-closed thinking tag,
// or one of the two literal phrases, anywhere in the tail window.
func isThinking(tailLower string) bool {
	if unclosed(tailLower, "<thinking>", "</thinking>") {
		return true
	}
	if unclosed(tailLower, "<internal_monologue>", "</internal_monologue>") {
		return true
	}
	return strings.Contains(tailLower, "thinking...") || strings.Contains(tailLower, "reasoning about")
}

// unclosed reports whether the last occurrence of open lies after the last
// occurrence of close (or close never occurs at all).
func unclosed(text, open, close string) bool {
	lastOpen := strings.LastIndex(text, open)
	if lastOpen == -1 {
		return false
	}
	lastClose := strings.LastIndex(text, close)
	return lastClose < lastOpen
}

func isDoneLine(tailWindow []string) bool {
	for _, line := range tailWindow {
		trimmed := strings.ToLower(strings.Trim(line, bulletCutset))
		if trimmed == "done" || trimmed == "done." {
			return true
		}
	}
	return false
}
