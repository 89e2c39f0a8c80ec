// Package orchestrator implements C3: deterministic session naming (via
// internal/workspace), multiplexer launch/stop/kill command plans, discovery
// reconciliation, and the poll target list. Every exported function here is
// pure: it returns a Plan describing what to run, it never runs anything
// itself. A Plan's Steps are executed by a collaborator behind the
// MultiplexerInput contract (internal/multiplex).
package orchestrator

import (
	"fmt"
	"os"
	"strings"

	"github.com/groveterm/grove/internal/workspace"
)

// Step is one command a MultiplexerInput implementation should run, plus an
// optional file it must write first (the prompt launcher script).
type Step struct {
	Args  []string
	Write *FileWrite
}

// FileWrite describes a file that must exist before Args runs.
type FileWrite struct {
	Path     string
	Contents string
	Mode     os.FileMode
}

// LaunchParams mirrors §4.3's launch-plan input record.
type LaunchParams struct {
	Project          string
	WorkspaceName    string
	WorkspacePath    string
	Agent            workspace.AgentType
	Prompt           string
	PreLaunchCommand string
	SkipPermissions  bool
	CaptureCols      int
	CaptureRows      int
}

// LaunchPlan is the full sequence needed to start one agent session.
type LaunchPlan struct {
	Session    string
	PreLaunch  []Step
	PaneLookup Step
	Launch     Step
}

// agentEnvOverride maps each agent to the env var that overrides its launch
// command (§4.3, §6 "Environment variables").
var agentEnvOverride = map[workspace.AgentType]string{
	workspace.AgentClaude:   "GROVE_CLAUDE_CMD",
	workspace.AgentCodex:    "GROVE_CODEX_CMD",
	workspace.AgentOpenCode: "GROVE_OPENCODE_CMD",
}

// AgentCommand resolves the shell command used to launch agent, honoring an
// env override and the skip-permissions flag.
func AgentCommand(agent workspace.AgentType, skipPermissions bool) string {
	if envVar, ok := agentEnvOverride[agent]; ok {
		if override := strings.TrimSpace(os.Getenv(envVar)); override != "" {
			return override
		}
	}
	switch agent {
	case workspace.AgentClaude:
		if skipPermissions {
			return "claude --dangerously-skip-permissions"
		}
		return "claude"
	case workspace.AgentCodex:
		if skipPermissions {
			return "codex --dangerously-bypass-approvals-and-sandbox"
		}
		return "codex"
	case workspace.AgentOpenCode:
		cmd := "opencode"
		if skipPermissions {
			cmd = `OPENCODE_PERMISSION='{"*":"allow"}' ` + cmd
		}
		return cmd
	default:
		return string(agent)
	}
}

// BuildTmuxLaunchPlan implements §4.3's tmux launch plan.
func BuildTmuxLaunchPlan(p LaunchParams) LaunchPlan {
	session := workspace.AgentSessionName(p.Project, p.WorkspaceName)

	pre := []Step{
		{Args: []string{"tmux", "new-session", "-d", "-s", session, "-c", p.WorkspacePath}},
		{Args: []string{"tmux", "set-option", "-t", session, "history-limit", "10000"}},
	}
	if p.CaptureCols > 0 && p.CaptureRows > 0 {
		pre = append(pre, Step{Args: []string{
			"tmux", "resize-window", "-t", session,
			"-x", fmt.Sprintf("%d", p.CaptureCols),
			"-y", fmt.Sprintf("%d", p.CaptureRows),
		}})
	}

	paneLookup := Step{Args: []string{"tmux", "list-panes", "-t", session, "-F", "#{pane_id}"}}

	agentCmd := AgentCommand(p.Agent, p.SkipPermissions)
	fullCmd := agentCmd
	if pre := strings.TrimSpace(p.PreLaunchCommand); pre != "" {
		fullCmd = pre + " && " + agentCmd
	}

	var launch Step
	if strings.TrimSpace(p.Prompt) == "" {
		launch = Step{Args: []string{"tmux", "send-keys", "-t", session, fullCmd, "Enter"}}
	} else {
		launcherPath := p.WorkspacePath + "/.grove/start.sh"
		script := buildLauncherScript(fullCmd, p.Prompt, launcherPath)
		launch = Step{
			Args:  []string{"tmux", "send-keys", "-t", session, "bash " + launcherPath, "Enter"},
			Write: &FileWrite{Path: launcherPath, Contents: script, Mode: 0755},
		}
	}

	return LaunchPlan{Session: session, PreLaunch: pre, PaneLookup: paneLookup, Launch: launch}
}

// buildLauncherScript writes a self-deleting bash script that sources the
// user's shell rc files (so nvm-installed agent binaries resolve), then runs
// cmd with prompt appended as its final argument.
func buildLauncherScript(cmd, prompt, selfPath string) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("[ -s \"$HOME/.nvm/nvm.sh\" ] && \\. \"$HOME/.nvm/nvm.sh\"\n")
	b.WriteString("[ -f \"$HOME/.bashrc\" ] && \\. \"$HOME/.bashrc\"\n")
	b.WriteString(cmd)
	b.WriteString(" ")
	b.WriteString(shellQuote(prompt))
	b.WriteString("\n")
	b.WriteString("rm -f " + shellQuote(selfPath) + "\n")
	return b.String()
}

// shellQuote wraps s in single quotes, escaping any embedded single quote.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ZellijPaths are the on-disk locations a Zellij launch plan needs; callers
// resolve these once (typically under $XDG_STATE_HOME) and pass them in.
type ZellijPaths struct {
	ConfigPath string
	CaptureLog string
}

// BuildZellijLaunchPlan implements §4.3's Zellij launch plan: a fixed
// six-step pre-launch sequence followed by one floating `zellij run`. No
// teacher or pack example covers Zellij; this sequence follows the prose of
// §4.3 directly (see DESIGN.md).
func BuildZellijLaunchPlan(p LaunchParams, paths ZellijPaths) LaunchPlan {
	session := workspace.AgentSessionName(p.Project, p.WorkspaceName)
	agentCmd := AgentCommand(p.Agent, p.SkipPermissions)
	fullCmd := agentCmd
	if pre := strings.TrimSpace(p.PreLaunchCommand); pre != "" {
		fullCmd = pre + " && " + agentCmd
	}

	pre := []Step{
		{Args: []string{"mkdir", "-p", paths.ConfigPath}},
		{Args: []string{"zellij", "kill-session", session}},
		{Args: []string{"sh", "-c", ": > " + shellQuote(paths.CaptureLog)}},
		{Args: []string{"zellij", "--config", paths.ConfigPath, "--session", session, "attach", "--create-background"}},
		{Args: []string{"sh", "-c", "setsid script -q /dev/null -c " +
			shellQuote(fmt.Sprintf("zellij --config %s attach %s", paths.ConfigPath, session)) + " >/dev/null 2>&1 &"}},
		{Args: []string{"sleep", "1"}},
	}

	sttySize := ""
	if p.CaptureRows > 0 && p.CaptureCols > 0 {
		sttySize = fmt.Sprintf("stty rows %d cols %d; ", p.CaptureRows, p.CaptureCols)
	}
	runInner := fmt.Sprintf("%sscript -qefc %s %s", sttySize, shellQuote(fullCmd), paths.CaptureLog)
	launch := Step{Args: []string{
		"zellij", "--config", paths.ConfigPath, "--session", session, "run",
		"--floating", "--cwd", p.WorkspacePath,
		"--", "bash", "-lc", runInner,
	}}

	return LaunchPlan{Session: session, PreLaunch: pre, Launch: launch}
}

// StopPlan is the command sequence to gracefully stop one session.
type StopPlan struct {
	Steps []Step
}

// BuildTmuxStopPlan implements §4.3: Ctrl-C, then kill-session.
func BuildTmuxStopPlan(session string) StopPlan {
	return StopPlan{Steps: []Step{
		{Args: []string{"tmux", "send-keys", "-t", session, "C-c"}},
		{Args: []string{"tmux", "kill-session", "-t", session}},
	}}
}

// BuildZellijStopPlan implements §4.3: write 3 (SIGINT), then kill-session.
func BuildZellijStopPlan(session string) StopPlan {
	return StopPlan{Steps: []Step{
		{Args: []string{"zellij", "action", "write", "3"}},
		{Args: []string{"zellij", "kill-session", session}},
	}}
}

// BuildTmuxKillAllForWorkspacePlan is the SPEC_FULL.md supplement: stopping a
// workspace also tears down its git-preview and shell sessions.
func BuildTmuxKillAllForWorkspacePlan(project, workspaceName string) StopPlan {
	agent := workspace.AgentSessionName(project, workspaceName)
	var steps []Step
	for _, session := range []string{agent, workspace.GitPreviewSessionName(agent), workspace.ShellSessionName(agent)} {
		steps = append(steps, BuildTmuxStopPlan(session).Steps...)
	}
	return StopPlan{Steps: steps}
}

// BuildZellijKillAllForWorkspacePlan mirrors BuildTmuxKillAllForWorkspacePlan
// for parity on the Zellij backend.
func BuildZellijKillAllForWorkspacePlan(project, workspaceName string) StopPlan {
	agent := workspace.AgentSessionName(project, workspaceName)
	var steps []Step
	for _, session := range []string{agent, workspace.GitPreviewSessionName(agent), workspace.ShellSessionName(agent)} {
		steps = append(steps, BuildZellijStopPlan(session).Steps...)
	}
	return StopPlan{Steps: steps}
}

// ListManagedSessionsStep returns the command that lists every tmux session
// name; workspace.HasSessionPrefix picks out the Grove-managed ones.
func ListManagedSessionsStep() Step {
	return Step{Args: []string{"tmux", "list-sessions", "-F", "#{session_name}"}}
}
