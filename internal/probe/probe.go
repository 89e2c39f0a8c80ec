package probe

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/groveterm/grove/internal/workspace"
)

// Coordinator holds the bounded-TTL caches for the Codex and OpenCode
// probes and dispatches by agent type. Claude needs no cache of its own: it
// reads mtimes directly and re-reads the tail every call, which is cheap
// enough at the activity-threshold granularity the scheduler already
// imposes.
type Coordinator struct {
	codexCWDCache    *ttlCache
	codexStatusCache *ttlCache
	openCodeCache    *ttlCache

	watcher *fsnotify.Watcher
}

// NewCoordinator returns a Coordinator with empty caches.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		codexCWDCache:    newTTLCache(),
		codexStatusCache: newTTLCache(),
		openCodeCache:    newTTLCache(),
	}
}

// Probe dispatches to the probe for agent and returns its Result.
func (c *Coordinator) Probe(agent workspace.AgentType, workspacePath string) Result {
	switch agent {
	case workspace.AgentClaude:
		return ProbeClaude(workspacePath)
	case workspace.AgentCodex:
		return c.ProbeCodex(workspacePath)
	case workspace.AgentOpenCode:
		return c.ProbeOpenCode(workspacePath)
	default:
		return Result{}
	}
}

// AgentProber adapts a Coordinator plus a fixed agent type into the
// status.Prober interface the classifier's session-file override consults.
type AgentProber struct {
	Coordinator *Coordinator
	Agent       workspace.AgentType
}

// Status implements status.Prober.
func (p AgentProber) Status(workspacePath string) (workspace.Status, bool) {
	r := p.Coordinator.Probe(p.Agent, workspacePath)
	return r.Status, r.Found
}

// WatchClaudeAndCodex installs a best-effort fsnotify watch on the Codex
// sessions directory so the Codex caches can be invalidated on a write
// event instead of waiting out their TTL. The Claude project directory is
// not watched; the Claude probe has no cache to invalidate. If
// the watch cannot be established (directory missing, too many watches,
// platform unsupported), it silently falls back to pure TTL expiry — this
// is advisory only (domain stack, SPEC_FULL.md).
func (c *Coordinator) WatchClaudeAndCodex(logger *slog.Logger) (stop func(), ok bool) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Debug("probe fsnotify watcher unavailable", "err", err)
		return func() {}, false
	}

	home, err := os.UserHomeDir()
	if err != nil {
		w.Close()
		return func() {}, false
	}
	codexDir := filepath.Join(home, ".codex", "sessions")
	if err := w.Add(codexDir); err != nil {
		logger.Debug("probe fsnotify watch failed", "dir", codexDir, "err", err)
	}

	c.watcher = w
	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, open := <-w.Events:
				if !open {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					c.codexCWDCache.Clear()
					c.codexStatusCache.Clear()
				}
			case err, open := <-w.Errors:
				if !open {
					return
				}
				logger.Debug("probe fsnotify error", "err", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		w.Close()
	}, true
}
