// Package scheduler implements C5: a pure adaptive polling interval
// function, the monotonic poll-generation counter that is Grove's only
// cancellation mechanism, and the single in-flight-poll debounce gate.
package scheduler

import (
	"sync"
	"time"

	"github.com/groveterm/grove/internal/workspace"
)

// Params are the six inputs to Interval (§4.5, §8 P8).
type Params struct {
	Status         workspace.Status
	Selected       bool
	PreviewFocused bool
	Interactive    bool
	SinceLastKey   time.Duration
	OutputChanging bool
}

// Interval is a pure function of Params; rule order is part of its contract
// (first match wins), same discipline as status.Classify.
func Interval(p Params) time.Duration {
	switch {
	case p.Interactive && p.Selected && p.SinceLastKey < 2*time.Second:
		return 50 * time.Millisecond
	case p.Interactive && p.Selected && p.SinceLastKey < 10*time.Second:
		return 200 * time.Millisecond
	case p.Interactive && p.Selected:
		return 500 * time.Millisecond
	case !p.Selected:
		return 10 * time.Second
	case p.OutputChanging:
		return 200 * time.Millisecond
	case p.PreviewFocused:
		return 500 * time.Millisecond
	case p.Status == workspace.StatusActive || p.Status == workspace.StatusThinking:
		return 200 * time.Millisecond
	case isCalmStatus(p.Status):
		return 2 * time.Second
	case p.Status == workspace.StatusDone || p.Status == workspace.StatusError:
		return 20 * time.Second
	default:
		return 2 * time.Second
	}
}

func isCalmStatus(s workspace.Status) bool {
	switch s {
	case workspace.StatusWaiting, workspace.StatusIdle, workspace.StatusMain,
		workspace.StatusUnknown, workspace.StatusUnsupported:
		return true
	default:
		return false
	}
}

// Generation is the monotonic poll-generation counter (§3, §4.5, §8 P4).
// The controller increments it at task-issue time; a completion whose
// generation is older than Current is stale and must be dropped.
type Generation struct {
	mu      sync.Mutex
	current uint64
}

// Next increments and returns the new current generation.
func (g *Generation) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current++
	return g.current
}

// Current returns the generation without advancing it.
func (g *Generation) Current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// IsStale reports whether gen is older than the current generation.
func (g *Generation) IsStale(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return gen < g.current
}

// Deadline is the controller's single global next-tick deadline. A proposed
// interval is adopted only if it is sooner than any pending deadline, or if
// none is pending (§4.5: "a sooner tick never gets pushed further out by a
// slower reason").
type Deadline struct {
	mu  sync.Mutex
	at  time.Time
	has bool
}

// Propose offers a candidate deadline of now+interval. It reports whether
// the candidate was adopted and returns the resulting deadline (the adopted
// candidate, or the previously pending one).
func (d *Deadline) Propose(now time.Time, interval time.Duration) (adopted bool, deadline time.Time) {
	candidate := now.Add(interval)
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.has || candidate.Before(d.at) {
		d.at = candidate
		d.has = true
		return true, candidate
	}
	return false, d.at
}

// Clear drops any pending deadline, e.g. once the tick it was guarding has
// fired.
func (d *Deadline) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.has = false
}

// Debouncer implements §4.5's single-in-flight-poll debounce: while a poll
// is running, further due-tick requests set a flag rather than starting a
// second poll; completion triggers at most one follow-up.
type Debouncer struct {
	mu        sync.Mutex
	inFlight  bool
	requested bool
}

// TryStart reports whether the caller may start a new poll. If one is
// already in flight, it records the request and returns false.
func (d *Debouncer) TryStart() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inFlight {
		d.requested = true
		return false
	}
	d.inFlight = true
	return true
}

// Complete marks the in-flight poll done and reports whether a follow-up
// poll should be started immediately because a request arrived meanwhile.
// When it reports true, the debouncer is left in the in-flight state for
// that follow-up.
func (d *Debouncer) Complete() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight = false
	if d.requested {
		d.requested = false
		d.inFlight = true
		return true
	}
	return false
}
