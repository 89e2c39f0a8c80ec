package probe

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/groveterm/grove/internal/workspace"
)

const openCodeCacheTTL = 500 * time.Millisecond

// ProbeOpenCode implements §4.4's OpenCode rule over a read-only SQLite
// connection. Per §9's design note: open read-only, never hold the
// connection across a Msg boundary, always cap result sets.
func (c *Coordinator) ProbeOpenCode(workspacePath string) Result {
	absPath, err := filepath.Abs(workspacePath)
	if err != nil {
		return Result{}
	}

	if v, ok := c.openCodeCache.Get(absPath); ok {
		if r, ok := v.(Result); ok {
			return r
		}
	}

	result := c.queryOpenCode(absPath)
	c.openCodeCache.Set(absPath, result, openCodeCacheTTL)
	return result
}

func (c *Coordinator) queryOpenCode(absPath string) Result {
	dbPath, err := openCodeDBPath()
	if err != nil {
		return Result{}
	}
	if _, err := os.Stat(dbPath); err != nil {
		return Result{}
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro&immutable=1", dbPath))
	if err != nil {
		return Result{}
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, directory, time_updated FROM session ORDER BY time_updated DESC LIMIT 32`)
	if err != nil {
		return Result{}
	}
	defer rows.Close()

	var sessionID string
	var timeUpdated int64
	found := false
	for rows.Next() {
		var id, directory string
		var tu int64
		if err := rows.Scan(&id, &directory, &tu); err != nil {
			continue
		}
		if cwdIsPrefixOrEqual(directory, absPath) {
			sessionID, timeUpdated, found = id, tu, true
			break
		}
	}
	if !found {
		return Result{}
	}
	resumeCmd := "opencode -s " + sessionID

	nowMs := time.Now().UnixMilli()
	if nowMs-timeUpdated < activityThreshold.Milliseconds() {
		return Result{Status: workspace.StatusActive, Found: true, ResumeCommand: resumeCmd}
	}

	row := db.QueryRow(`SELECT data FROM message WHERE session_id = ? ORDER BY time_created DESC LIMIT 1`, sessionID)
	var data string
	if err := row.Scan(&data); err != nil {
		return Result{}
	}
	var msg struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return Result{}
	}
	switch msg.Role {
	case "assistant":
		return Result{Status: workspace.StatusWaiting, Found: true, ResumeCommand: resumeCmd}
	case "user":
		return Result{Status: workspace.StatusActive, Found: true, ResumeCommand: resumeCmd}
	default:
		return Result{}
	}
}

func openCodeDBPath() (string, error) {
	home, err := dataHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "opencode", "opencode.db"), nil
}
