// Package discovery implements the Discovery collaborator (§6.5):
// bootstrapping the workspace list for each configured project by walking
// `git worktree list --porcelain`, the same parsing approach as the
// teacher's parseWorktreeList, filtered to Grove-managed worktrees.
package discovery

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/groveterm/grove/internal/workspace"
)

func defaultFileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// groveAgentMarker is the file written into a worktree at creation time that
// marks it as Grove-managed, so discovery doesn't surface arbitrary
// worktrees created outside Grove.
const groveAgentMarker = ".grove-agent"

// State reports the outcome of bootstrapping one project.
type State int

const (
	StateReady State = iota
	StateEmpty
	StateError
)

// Project names one configured project root to discover worktrees under.
type Project struct {
	Name string
	Path string
}

// Result is the {repo_name, workspaces[], discovery_state} triple of §6.5.
type Result struct {
	RepoName   string
	Workspaces []*workspace.Workspace
	State      State
	Err        error
}

// Discovery bootstraps workspace lists from configured project roots.
type Discovery struct {
	// FileExists is substituted in tests; defaults to a real stat.
	FileExists func(path string) bool
}

// New returns a Discovery using the real filesystem.
func New() *Discovery {
	return &Discovery{FileExists: defaultFileExists}
}

// Bootstrap discovers workspaces for every configured project.
func (d *Discovery) Bootstrap(projects []Project) []Result {
	results := make([]Result, 0, len(projects))
	for _, p := range projects {
		results = append(results, d.bootstrapOne(p))
	}
	return results
}

func (d *Discovery) bootstrapOne(p Project) Result {
	out, err := exec.Command("git", "-C", p.Path, "worktree", "list", "--porcelain").Output()
	if err != nil {
		return Result{RepoName: p.Name, State: StateError, Err: err}
	}

	entries, err := parseWorktreeList(string(out))
	if err != nil {
		return Result{RepoName: p.Name, State: StateError, Err: err}
	}

	var workspaces []*workspace.Workspace
	for _, e := range entries {
		isMain := e.Path == p.Path
		if !isMain && !d.fileExists(filepath.Join(e.Path, groveAgentMarker)) {
			continue
		}
		w := workspace.NewWorkspace(filepath.Base(e.Path), e.Path, e.Branch, isMain)
		w.ProjectName = p.Name
		w.ProjectPath = p.Path
		workspaces = append(workspaces, w)
	}

	state := StateReady
	if len(workspaces) == 0 {
		state = StateEmpty
	}
	return Result{RepoName: p.Name, Workspaces: workspaces, State: state}
}

func (d *Discovery) fileExists(path string) bool {
	if d.FileExists != nil {
		return d.FileExists(path)
	}
	return defaultFileExists(path)
}

type worktreeEntry struct {
	Path   string
	Branch string
}

// parseWorktreeList parses `git worktree list --porcelain` output, the same
// record shape the teacher's parseWorktreeList consumes: blank-line
// separated stanzas each starting with a "worktree <path>" line.
func parseWorktreeList(output string) ([]worktreeEntry, error) {
	var entries []worktreeEntry
	var current *worktreeEntry

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "worktree "):
			if current != nil {
				entries = append(entries, *current)
			}
			current = &worktreeEntry{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "branch ") && current != nil:
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "detached" && current != nil:
			current.Branch = "(detached)"
		}
	}
	if current != nil {
		entries = append(entries, *current)
	}
	return entries, scanner.Err()
}
