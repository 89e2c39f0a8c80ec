// Package probe implements C4: reading agent-owned, on-disk session
// journals to infer waiting/active status, resume-command hints, and
// skip-permission mode, with bounded-TTL caches (§4.4).
package probe

import (
	"time"

	"github.com/groveterm/grove/internal/workspace"
)

// activityThreshold is the "was this journal touched recently enough to
// mean the agent is actively producing output" window, shared by all three
// agent backends.
const activityThreshold = 30 * time.Second

// tailBytes bounds every tail read of an agent session journal (§5, §9).
const tailBytes = 256 * 1024

// Result is what a probe returns for one workspace path.
type Result struct {
	Status          workspace.Status
	Found           bool
	ResumeCommand   string
	SkipPermissions *bool
	AttentionMarker string
}
