package probe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInferSkipPermissions_UnsafeSignal(t *testing.T) {
	got := InferSkipPermissions([]string{"approval policy is currently never"})
	require.NotNil(t, got)
	require.True(t, *got)
}

func TestInferSkipPermissions_SafeSignal(t *testing.T) {
	got := InferSkipPermissions([]string{"approval policy is currently on-request"})
	require.NotNil(t, got)
	require.False(t, *got)
}

func TestInferSkipPermissions_JSONVariant(t *testing.T) {
	got := InferSkipPermissions([]string{`{"permissionMode":"bypassPermissions"}`})
	require.NotNil(t, got)
	require.True(t, *got)
}

func TestInferSkipPermissions_NoSignal(t *testing.T) {
	got := InferSkipPermissions([]string{"nothing relevant here"})
	require.Nil(t, got)
}

func TestInferSkipPermissions_MostRecentWins(t *testing.T) {
	lines := []string{
		"approval policy is currently never",
		"approval policy is currently default",
	}
	got := InferSkipPermissions(lines)
	require.NotNil(t, got)
	require.False(t, *got)
}
