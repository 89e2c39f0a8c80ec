package probe

import "strings"

var unsafeSignals = []string{
	"approval policy is currently never",
	"<approval_policy>never</approval_policy>",
	`"approval_policy":"never"`,
	`"approval_policy": "never"`,
	`"permissionmode":"bypasspermissions"`,
	`"permissionmode": "bypasspermissions"`,
}

var safeSignals = []string{
	"approval policy is currently on-request",
	"approval policy is currently default",
	`"approval_policy":"on-request"`,
	`"approval_policy": "on-request"`,
	`"approval_policy":"default"`,
	`"approval_policy": "default"`,
	`"permissionmode":"default"`,
	`"permissionmode": "default"`,
}

// InferSkipPermissions implements §4.4's skip-permission inference: scan
// lines from most to least recent for an approval-policy or
// permission-mode signal. Returns nil when neither signal is seen.
func InferSkipPermissions(lines []string) *bool {
	for i := len(lines) - 1; i >= 0; i-- {
		lower := strings.ToLower(lines[i])
		if containsAny(lower, unsafeSignals) {
			unsafe := true
			return &unsafe
		}
		if containsAny(lower, safeSignals) {
			safe := false
			return &safe
		}
	}
	return nil
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
