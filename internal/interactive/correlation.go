package interactive

import (
	"sync"
	"time"

	"github.com/groveterm/grove/internal/workspace"
)

// Correlator assigns monotonic sequence numbers to forwarded keys and, once
// an output change is observed for a session, drains the pending inputs for
// that session and reports the correlation latencies of §4.6.
type Correlator struct {
	mu      sync.Mutex
	nextSeq uint64
	pending map[string][]workspace.PendingInteractiveInput
}

// NewCorrelator returns an empty Correlator.
func NewCorrelator() *Correlator {
	return &Correlator{pending: make(map[string][]workspace.PendingInteractiveInput)}
}

// RecordForward assigns the next seq to a forwarded key for session and
// records it as pending.
func (c *Correlator) RecordForward(session string, forwardedAt time.Time) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSeq++
	seq := c.nextSeq
	c.pending[session] = append(c.pending[session], workspace.PendingInteractiveInput{
		Seq:         seq,
		ForwardedAt: forwardedAt,
		Session:     session,
	})
	return seq
}

// Correlation is the reported result of draining a session's pending inputs
// against one output-changed preview poll.
type Correlation struct {
	SeqFirst         uint64
	SeqLast          uint64
	InputToPreviewMS int64
	TmuxToPreviewMS  int64
}

// DrainOnChange removes all pending inputs for session (used when a preview
// poll completes with changed_cleaned = true for that session) and reports
// the correlation window. captureCompletedAt is when that capture finished.
// ok is false if there were no pending inputs to correlate.
func (c *Correlator) DrainOnChange(session string, now, captureCompletedAt time.Time) (Correlation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inputs := c.pending[session]
	if len(inputs) == 0 {
		return Correlation{}, false
	}
	delete(c.pending, session)

	first := inputs[0]
	last := inputs[len(inputs)-1]
	return Correlation{
		SeqFirst:         first.Seq,
		SeqLast:          last.Seq,
		InputToPreviewMS: now.Sub(first.ForwardedAt).Milliseconds(),
		TmuxToPreviewMS:  captureCompletedAt.Sub(first.ForwardedAt).Milliseconds(),
	}, true
}

// Forget drops all pending inputs for session without correlating them
// (used when the session dies or interactive mode exits).
func (c *Correlator) Forget(session string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, session)
}
