package multiplex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/groveterm/grove/internal/orchestrator"
)

var errFake = errors.New("fake multiplexer failure")

type fakeMultiplexer struct {
	executed [][]string
	failArgs []string
}

func (f *fakeMultiplexer) Execute(ctx context.Context, command []string) error {
	f.executed = append(f.executed, command)
	if len(command) > 0 && len(f.failArgs) > 0 && command[0] == f.failArgs[0] {
		for i, a := range f.failArgs {
			if i >= len(command) || command[i] != a {
				return nil
			}
		}
		return errFake
	}
	return nil
}

func (f *fakeMultiplexer) CaptureOutput(context.Context, string, int, bool) (string, error) {
	return "", nil
}
func (f *fakeMultiplexer) CaptureCursorMetadata(context.Context, string) (CursorMetadata, error) {
	return CursorMetadata{}, nil
}
func (f *fakeMultiplexer) ResizeSession(context.Context, string, int, int) error { return nil }
func (f *fakeMultiplexer) PasteBuffer(context.Context, string, string) error    { return nil }
func (f *fakeMultiplexer) SupportsBackgroundLaunch() bool                      { return true }
func (f *fakeMultiplexer) SupportsBackgroundSend() bool                        { return true }

func TestRunStep_WritesFileBeforeExecuting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "start.sh")
	f := &fakeMultiplexer{}

	step := orchestrator.Step{
		Args:  []string{"bash", path},
		Write: &orchestrator.FileWrite{Path: path, Contents: "#!/bin/bash\necho hi\n", Mode: 0o755},
	}
	err := RunStep(context.Background(), f, step)
	require.NoError(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	require.Contains(t, string(data), "echo hi")
	require.Len(t, f.executed, 1)
}

func TestRunStep_NoArgsIsNoop(t *testing.T) {
	f := &fakeMultiplexer{}
	err := RunStep(context.Background(), f, orchestrator.Step{})
	require.NoError(t, err)
	require.Empty(t, f.executed)
}

func TestRunLaunchPlan_RunsPreLaunchThenLaunch(t *testing.T) {
	f := &fakeMultiplexer{}
	plan := orchestrator.LaunchPlan{
		Session: "s",
		PreLaunch: []orchestrator.Step{
			{Args: []string{"tmux", "new-session", "-d", "-s", "s"}},
		},
		PaneLookup: orchestrator.Step{Args: []string{"tmux", "list-panes", "-t", "s"}},
		Launch:     orchestrator.Step{Args: []string{"tmux", "send-keys", "-t", "s", "claude", "Enter"}},
	}
	err := RunLaunchPlan(context.Background(), f, plan)
	require.NoError(t, err)
	require.Len(t, f.executed, 3)
	require.Equal(t, plan.PreLaunch[0].Args, f.executed[0])
	require.Equal(t, plan.PaneLookup.Args, f.executed[1])
	require.Equal(t, plan.Launch.Args, f.executed[2])
}

func TestRunStopPlan_ContinuesPastFailures(t *testing.T) {
	f := &fakeMultiplexer{failArgs: []string{"tmux", "send-keys"}}
	plan := orchestrator.StopPlan{Steps: []orchestrator.Step{
		{Args: []string{"tmux", "send-keys", "-t", "s", "C-c"}},
		{Args: []string{"tmux", "kill-session", "-t", "s"}},
	}}
	err := RunStopPlan(context.Background(), f, plan)
	require.Error(t, err)
	require.Len(t, f.executed, 2)
}
