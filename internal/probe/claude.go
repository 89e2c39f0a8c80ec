package probe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/groveterm/grove/internal/workspace"
)

// ProbeClaude implements §4.4's Claude rule. Claude's project directory name
// is the workspace's absolute path with every non-alphanumeric-non-`-`
// character replaced by `-` (no collapsing, unlike workspace.Sanitize: this
// must exactly match the directory Claude itself creates).
func ProbeClaude(workspacePath string) Result {
	home, err := os.UserHomeDir()
	if err != nil {
		return Result{}
	}
	absPath, err := filepath.Abs(workspacePath)
	if err != nil {
		return Result{}
	}

	projectDir := filepath.Join(home, ".claude", "projects", normalizeClaudeProjectDir(absPath))

	file, ok := newestJSONLExcluding(projectDir, "agent-")
	if !ok {
		return Result{}
	}

	info, err := os.Stat(file)
	if err != nil {
		return Result{}
	}
	mtime := info.ModTime()
	if time.Since(mtime) < activityThreshold {
		return Result{Status: workspace.StatusActive, Found: true}
	}

	subagentsDir := filepath.Join(projectDir, strings.TrimSuffix(filepath.Base(file), ".jsonl"), "subagents")
	if subFile, ok := newestJSONLExcluding(subagentsDir, ""); ok {
		if subInfo, err := os.Stat(subFile); err == nil && time.Since(subInfo.ModTime()) < activityThreshold {
			return Result{Status: workspace.StatusActive, Found: true}
		}
	}

	lines, err := readTailLines(file, tailBytes)
	if err != nil {
		return Result{}
	}
	return claudeLastMessageStatus(lines, file, mtime)
}

func normalizeClaudeProjectDir(absPath string) string {
	var b strings.Builder
	b.Grow(len(absPath))
	for _, r := range absPath {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// claudeLastMessageStatus scans lines from the bottom for the first
// recognizable message type; "user" means the agent is working, "assistant"
// means it finished and is waiting on the user.
func claudeLastMessageStatus(lines []string, path string, mtime time.Time) Result {
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "assistant":
			marker := fmt.Sprintf("%s:%d:%x", path, mtime.UnixMilli(), xxhash.Sum64String(line))
			return Result{Status: workspace.StatusWaiting, Found: true, AttentionMarker: marker}
		case "user":
			return Result{Status: workspace.StatusActive, Found: true}
		}
	}
	return Result{}
}
