package probe

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// readTailLines reads up to maxBytes from the end of path and splits it into
// lines. If the read starts mid-line, the leading partial line is dropped.
// Agent session journals are read-only shared with the agent process
// itself, so this always bounds the read to avoid paging long files (§5).
func readTailLines(path string, maxBytes int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return nil, nil
	}

	start := int64(0)
	if size > int64(maxBytes) {
		start = size - int64(maxBytes)
		if _, err := f.Seek(start, io.SeekStart); err != nil {
			return nil, err
		}
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	if start > 0 && len(lines) > 0 {
		lines = lines[1:]
	}
	return lines, nil
}

// newestJSONLExcluding scans dir for *.jsonl files, skipping any whose name
// starts with excludePrefix, and returns the path to the one with the
// newest mtime.
func newestJSONLExcluding(dir, excludePrefix string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var best string
	var bestMod int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		if excludePrefix != "" && strings.HasPrefix(e.Name(), excludePrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); mod > bestMod || best == "" {
			bestMod = mod
			best = filepath.Join(dir, e.Name())
		}
	}
	return best, best != ""
}

// cwdIsPrefixOrEqual reports whether cwd equals workspacePath, or is itself
// a path prefix of workspacePath (the session's recorded cwd is a parent
// repository root and workspacePath names a worktree nested under it).
func cwdIsPrefixOrEqual(cwd, workspacePath string) bool {
	cwd = filepath.Clean(cwd)
	workspacePath = filepath.Clean(workspacePath)
	return cwd == workspacePath || strings.HasPrefix(workspacePath, cwd+string(filepath.Separator))
}

// firstLine reads just the first line of path, bounded to maxBytes in case
// the file has no newline at all.
func firstLine(path string, maxBytes int) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	buf := make([]byte, maxBytes)
	n, _ := io.ReadFull(f, buf)
	if n == 0 {
		return "", false
	}
	data := buf[:n]
	if idx := strings.IndexByte(string(data), '\n'); idx >= 0 {
		return string(data[:idx]), true
	}
	return string(data), true
}

func dataHomeDir() (string, error) {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}
