// Package gitlifecycle implements the GitWorkspaceLifecycle collaborator
// contract (§6.4): synchronous git-worktree plumbing for create, delete,
// merge, and update-from-base. Thin os/exec wrapping in the teacher's style
// (internal/plugins/worktree/worktree.go, merge.go) — out of core scope per
// spec.md §1, kept only so the binary runs end-to-end.
package gitlifecycle

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// CreateResult is the payload of a successful create_workspace call.
type CreateResult struct {
	Path       string
	Branch     string
	BaseBranch string
}

// DeleteResult is the payload of a successful delete_workspace call.
type DeleteResult struct {
	Name string
}

// MergeResult is the payload of a successful merge_workspace call.
type MergeResult struct {
	Name         string
	MergedBranch string
}

// UpdateResult is the payload of a successful update_workspace_from_base call.
type UpdateResult struct {
	Name   string
	Ahead  int
	Behind int
}

// GitWorkspaceLifecycle performs the git operations backing workspace
// create/delete/merge/update. Every method returns a payload-or-error plus a
// slice of non-fatal warnings (a branch-deletion failure after a successful
// worktree removal, for instance).
type GitWorkspaceLifecycle struct {
	// RepoDir is the main repository's working directory; worktrees are
	// created as siblings of it, matching the teacher's layout.
	RepoDir string
}

// New returns a GitWorkspaceLifecycle rooted at repoDir.
func New(repoDir string) GitWorkspaceLifecycle {
	return GitWorkspaceLifecycle{RepoDir: repoDir}
}

// CreateWorkspace creates a new worktree named name, branching from
// baseBranch (or the repo's current branch if baseBranch is empty).
func (g GitWorkspaceLifecycle) CreateWorkspace(name, baseBranch string) (CreateResult, []string, error) {
	var warnings []string
	if baseBranch == "" {
		baseBranch = "HEAD"
	}

	wtPath := filepath.Join(filepath.Dir(g.RepoDir), name)
	cmd := exec.Command("git", "worktree", "add", "-b", name, wtPath, baseBranch)
	cmd.Dir = g.RepoDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return CreateResult{}, nil, fmt.Errorf("git worktree add: %s: %w", strings.TrimSpace(string(out)), err)
	}

	actualBase := baseBranch
	if baseBranch == "HEAD" {
		if b, err := currentBranch(g.RepoDir); err == nil {
			actualBase = b
		} else {
			warnings = append(warnings, fmt.Sprintf("could not resolve base branch name: %v", err))
		}
	}

	return CreateResult{Path: wtPath, Branch: name, BaseBranch: actualBase}, warnings, nil
}

// DeleteWorkspace removes the worktree at path, optionally deleting its
// local and/or remote branch. Branch-deletion failures are reported as
// warnings rather than aborting the operation: the worktree is already gone
// by the time they're attempted.
func (g GitWorkspaceLifecycle) DeleteWorkspace(name, path, branch string, deleteLocalBranch, wantDeleteRemoteBranch bool) (DeleteResult, []string, error) {
	var warnings []string

	if err := removeWorktree(g.RepoDir, path); err != nil {
		return DeleteResult{}, nil, err
	}

	if deleteLocalBranch {
		if err := deleteBranch(g.RepoDir, branch); err != nil {
			warnings = append(warnings, fmt.Sprintf("local branch: %v", err))
		}
	}
	if wantDeleteRemoteBranch {
		if err := deleteRemoteBranch(g.RepoDir, branch); err != nil {
			warnings = append(warnings, fmt.Sprintf("remote branch: %v", err))
		}
	}

	return DeleteResult{Name: name}, warnings, nil
}

// MergeWorkspace merges branch into the repo's current branch, then deletes
// the branch (a failed delete is reported as a warning). Nothing is pushed.
func (g GitWorkspaceLifecycle) MergeWorkspace(name, branch string) (MergeResult, []string, error) {
	var warnings []string

	cmd := exec.Command("git", "merge", "--no-edit", branch)
	cmd.Dir = g.RepoDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return MergeResult{}, nil, fmt.Errorf("git merge: %s: %w", strings.TrimSpace(string(out)), err)
	}

	if err := deleteBranch(g.RepoDir, branch); err != nil {
		warnings = append(warnings, fmt.Sprintf("cleanup branch: %v", err))
	}

	return MergeResult{Name: name, MergedBranch: branch}, warnings, nil
}

// UpdateWorkspaceFromBase rebases a worktree's branch onto baseBranch and
// reports the resulting ahead/behind counts relative to it.
func (g GitWorkspaceLifecycle) UpdateWorkspaceFromBase(name, worktreePath, baseBranch string) (UpdateResult, []string, error) {
	var warnings []string

	fetchCmd := exec.Command("git", "fetch", "origin", baseBranch)
	fetchCmd.Dir = worktreePath
	if out, err := fetchCmd.CombinedOutput(); err != nil {
		warnings = append(warnings, fmt.Sprintf("fetch: %s", strings.TrimSpace(string(out))))
	}

	rebaseCmd := exec.Command("git", "rebase", baseBranch)
	rebaseCmd.Dir = worktreePath
	if out, err := rebaseCmd.CombinedOutput(); err != nil {
		_ = exec.Command("git", "-C", worktreePath, "rebase", "--abort").Run()
		return UpdateResult{}, warnings, fmt.Errorf("git rebase: %s: %w", strings.TrimSpace(string(out)), err)
	}

	ahead, behind, err := aheadBehind(worktreePath, baseBranch)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("ahead/behind: %v", err))
	}

	return UpdateResult{Name: name, Ahead: ahead, Behind: behind}, warnings, nil
}

func currentBranch(dir string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func removeWorktree(repoDir, path string) error {
	cmd := exec.Command("git", "worktree", "remove", "--force", path)
	cmd.Dir = repoDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git worktree remove: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

func deleteBranch(repoDir, branch string) error {
	cmd := exec.Command("git", "branch", "-D", branch)
	cmd.Dir = repoDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

func deleteRemoteBranch(repoDir, branch string) error {
	cmd := exec.Command("git", "push", "origin", "--delete", branch)
	cmd.Dir = repoDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

func aheadBehind(worktreePath, baseBranch string) (ahead, behind int, err error) {
	out, err := exec.Command("git", "-C", worktreePath, "rev-list", "--left-right", "--count",
		"HEAD..."+"origin/"+baseBranch).Output()
	if err != nil {
		return 0, 0, err
	}
	parts := strings.Fields(strings.TrimSpace(string(out)))
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	var a, b int
	if _, err := fmt.Sscanf(parts[0], "%d", &a); err != nil {
		return 0, 0, err
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &b); err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
