package probe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadTailLines_SmallFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644))

	lines, err := readTailLines(path, 4096)
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two", "three", ""}, lines)
}

func TestReadTailLines_DropsPartialLeadingLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("aaaaXbbbbXccccX"), 0o644))

	lines, err := readTailLines(path, 10)
	require.NoError(t, err)
	for _, l := range lines {
		require.NotContains(t, l, "aaaa")
	}
}

func TestReadTailLines_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.jsonl")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	lines, err := readTailLines(path, 4096)
	require.NoError(t, err)
	require.Nil(t, lines)
}

func TestNewestJSONLExcluding(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "session-a.jsonl")
	newer := filepath.Join(dir, "session-b.jsonl")
	agent := filepath.Join(dir, "agent-c.jsonl")
	require.NoError(t, os.WriteFile(older, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(agent, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("{}"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))
	require.NoError(t, os.Chtimes(agent, time.Now(), time.Now()))

	got, ok := newestJSONLExcluding(dir, "agent-")
	require.True(t, ok)
	require.Equal(t, newer, got)
}

func TestCwdIsPrefixOrEqual(t *testing.T) {
	require.True(t, cwdIsPrefixOrEqual("/repo", "/repo"))
	require.True(t, cwdIsPrefixOrEqual("/repo", "/repo/worktrees/feature"))
	require.False(t, cwdIsPrefixOrEqual("/repo/worktrees/feature", "/repo"))
	require.False(t, cwdIsPrefixOrEqual("/other", "/repo/worktrees/feature"))
}

func TestFirstLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"session_meta"}`+"\n{\"type\":\"other\"}\n"), 0o644))

	line, ok := firstLine(path, 8192)
	require.True(t, ok)
	require.Equal(t, `{"type":"session_meta"}`, line)
}

func TestFirstLine_NoNewlineWithinBound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("no-newline-content"), 0o644))

	line, ok := firstLine(path, 4)
	require.True(t, ok)
	require.Equal(t, "no-n", line)
}
