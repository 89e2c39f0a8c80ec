package probe

import (
	"regexp"
	"strings"

	"github.com/groveterm/grove/internal/workspace"
)

var bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ExtractResumeCommand implements §4.4's resume-command extraction: tokenize
// each line of output, look for the agent's resume invocation, normalize the
// id, and return the last match found.
func ExtractResumeCommand(agent workspace.AgentType, output string) (string, bool) {
	var last string
	found := false

	for _, line := range strings.Split(output, "\n") {
		tokens := strings.Fields(line)
		for i, tok := range tokens {
			switch agent {
			case workspace.AgentClaude:
				if tok == "claude" && i+2 < len(tokens) && tokens[i+1] == "--resume" {
					if id, ok := normalizeResumeID(tokens[i+2], false); ok {
						last = "claude --resume " + id
						found = true
					}
				}
			case workspace.AgentCodex:
				if tok == "codex" && i+1 < len(tokens) {
					flag := tokens[i+1]
					if (flag == "resume" || flag == "--resume") && i+2 < len(tokens) {
						if id, ok := normalizeResumeID(tokens[i+2], true); ok {
							last = "codex " + flag + " " + id
							found = true
						}
					}
				}
			case workspace.AgentOpenCode:
				if tok == "opencode" && i+1 < len(tokens) {
					flag := tokens[i+1]
					switch {
					case flag == "-c" || flag == "--continue":
						last = "opencode " + flag
						found = true
					case (flag == "-s" || flag == "--session") && i+2 < len(tokens):
						if id, ok := normalizeResumeID(tokens[i+2], false); ok {
							last = "opencode " + flag + " " + id
							found = true
						}
					}
				}
			}
		}
	}
	return last, found
}

// normalizeResumeID strips surrounding punctuation, rejects angle-bracket
// placeholders like <session-id>, and requires the remainder to be
// [A-Za-z0-9_-]+. For Codex, additionally requires a digit, dash, or
// underscore so plain-word phrases like "is" are rejected (§9 open
// question: real Codex ids are UUIDs, so this is safe in practice).
func normalizeResumeID(raw string, requireCodexSignal bool) (string, bool) {
	id := strings.Trim(raw, ".,;:!?'\"()[]{}")
	if strings.HasPrefix(id, "<") || strings.HasSuffix(id, ">") {
		return "", false
	}
	if id == "" || !bareIDPattern.MatchString(id) {
		return "", false
	}
	if requireCodexSignal {
		hasSignal := false
		for _, r := range id {
			if (r >= '0' && r <= '9') || r == '-' || r == '_' {
				hasSignal = true
				break
			}
		}
		if !hasSignal {
			return "", false
		}
	}
	return id, true
}
