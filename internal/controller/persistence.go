package controller

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// readSidebarWidth loads the persisted sidebar width percentage from path,
// falling back to def if the file is missing or unparsable (spec §6:
// sidebar-width.txt holds a single integer 0-100).
func readSidebarWidth(path string, def int) int {
	if path == "" {
		return def
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return def
	}
	pct, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || pct < 0 || pct > 100 {
		return def
	}
	return pct
}

// writeSidebarWidth persists pct to path, creating parent directories as
// needed.
func writeSidebarWidth(path string, pct int) error {
	if err := os.MkdirAll(dirOf(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", pct)), 0644)
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "."
	}
	return path[:i]
}
