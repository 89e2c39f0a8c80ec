package gitlifecycle

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo := filepath.Join(dir, "repo")
	require.NoError(t, os.MkdirAll(repo, 0o755))

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = repo
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q", "-b", "main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "README.md"), []byte("hello"), 0o644))
	run("add", "README.md")
	run("commit", "-q", "-m", "initial")
	return repo
}

func TestCreateWorkspace_CreatesWorktreeAndBranch(t *testing.T) {
	repo := initRepo(t)
	g := New(repo)

	result, warnings, err := g.CreateWorkspace("feature-x", "")
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, "feature-x", result.Branch)
	require.Equal(t, "main", result.BaseBranch)

	info, statErr := os.Stat(result.Path)
	require.NoError(t, statErr)
	require.True(t, info.IsDir())
}

func TestDeleteWorkspace_RemovesWorktree(t *testing.T) {
	repo := initRepo(t)
	g := New(repo)

	created, _, err := g.CreateWorkspace("feature-y", "")
	require.NoError(t, err)

	_, warnings, err := g.DeleteWorkspace("feature-y", created.Path, created.Branch, true, false)
	require.NoError(t, err)
	require.Empty(t, warnings)

	_, statErr := os.Stat(created.Path)
	require.True(t, os.IsNotExist(statErr))
}

func TestMergeWorkspace_MergesBranch(t *testing.T) {
	repo := initRepo(t)
	g := New(repo)

	created, _, err := g.CreateWorkspace("feature-z", "")
	require.NoError(t, err)

	cmd := exec.Command("git", "commit", "--allow-empty", "-q", "-m", "feature work")
	cmd.Dir = created.Path
	require.NoError(t, cmd.Run())

	result, _, err := g.MergeWorkspace("feature-z", "feature-z")
	require.NoError(t, err)
	require.Equal(t, "feature-z", result.MergedBranch)
}
