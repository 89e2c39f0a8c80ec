package clipboardio

import "testing"

// TestSystem_ImplementsInterface is a compile-time check that System
// satisfies ClipboardAccess.
func TestSystem_ImplementsInterface(t *testing.T) {
	var _ ClipboardAccess = System{}
}
