package probe

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/groveterm/grove/internal/workspace"
)

const codexCWDCacheTTL = 30 * time.Second

// ProbeCodex implements §4.4's Codex rule.
func (c *Coordinator) ProbeCodex(workspacePath string) Result {
	home, err := os.UserHomeDir()
	if err != nil {
		return Result{}
	}
	absPath, err := filepath.Abs(workspacePath)
	if err != nil {
		return Result{}
	}
	sessionsDir := filepath.Join(home, ".codex", "sessions")

	cacheKey := sessionsDir + "|" + absPath
	var file string
	if v, ok := c.codexCWDCache.Get(cacheKey); ok {
		file, _ = v.(string)
	} else {
		file = findCodexSessionForPath(sessionsDir, absPath)
		c.codexCWDCache.Set(cacheKey, file, codexCWDCacheTTL)
	}
	if file == "" {
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

	statusKey := fmt.Sprintf("%s@%d", file, mtime.UnixNano())
	if v, ok := c.codexStatusCache.Get(statusKey); ok {
		if r, ok := v.(Result); ok {
			return r
		}
	}

	lines, err := readTailLines(file, tailBytes)
	if err != nil {
		return Result{}
	}
	result := codexLastMessageStatus(lines)
	c.codexStatusCache.Set(statusKey, result, 24*time.Hour)
	return result
}

// findCodexSessionForPath walks sessionsDir for *.jsonl files whose first
// session_meta record names a cwd that is a prefix of (or equal to)
// workspacePath, returning the newest by mtime.
func findCodexSessionForPath(sessionsDir, workspacePath string) string {
	var best string
	var bestMod int64

	_ = filepath.WalkDir(sessionsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".jsonl") {
			return nil
		}
		cwd, ok := codexSessionCWD(path)
		if !ok || !cwdIsPrefixOrEqual(cwd, workspacePath) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if mod := info.ModTime().UnixNano(); best == "" || mod > bestMod {
			bestMod = mod
			best = path
		}
		return nil
	})
	return best
}

func codexSessionCWD(path string) (string, bool) {
	line, ok := firstLine(path, 8192)
	if !ok {
		return "", false
	}
	line = strings.TrimSpace(line)
	var record struct {
		Type    string `json:"type"`
		Payload struct {
			CWD string `json:"cwd"`
		} `json:"payload"`
	}
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return "", false
	}
	if record.Type == "session_meta" && record.Payload.CWD != "" {
		return record.Payload.CWD, true
	}
	return "", false
}

func codexLastMessageStatus(lines []string) Result {
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var record struct {
			Type    string `json:"type"`
			Payload struct {
				Type string `json:"type"`
				Role string `json:"role"`
			} `json:"payload"`
		}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		if record.Type != "response_item" || record.Payload.Type != "message" {
			continue
		}
		switch record.Payload.Role {
		case "assistant":
			return Result{Status: workspace.StatusWaiting, Found: true}
		case "user":
			return Result{Status: workspace.StatusActive, Found: true}
		}
	}
	return Result{}
}
