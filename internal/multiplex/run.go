package multiplex

import (
	"context"
	"os"

	"github.com/groveterm/grove/internal/orchestrator"
)

// RunStep writes Step.Write's file (if any) and then executes Step.Args
// through m.
func RunStep(ctx context.Context, m MultiplexerInput, step orchestrator.Step) error {
	if step.Write != nil {
		if err := os.WriteFile(step.Write.Path, []byte(step.Write.Contents), step.Write.Mode); err != nil {
			return err
		}
	}
	if len(step.Args) == 0 {
		return nil
	}
	return m.Execute(ctx, step.Args)
}

// RunLaunchPlan executes a LaunchPlan's steps in order: pre-launch, pane
// lookup (best-effort — a lookup failure doesn't abort the launch), then the
// launch step itself.
func RunLaunchPlan(ctx context.Context, m MultiplexerInput, plan orchestrator.LaunchPlan) error {
	for _, step := range plan.PreLaunch {
		if err := RunStep(ctx, m, step); err != nil {
			return err
		}
	}
	if len(plan.PaneLookup.Args) > 0 {
		_ = RunStep(ctx, m, plan.PaneLookup)
	}
	return RunStep(ctx, m, plan.Launch)
}

// RunStopPlan executes every step of a StopPlan, continuing past individual
// step failures (a dead session's kill-session may legitimately error) and
// returning the last error seen, if any.
func RunStopPlan(ctx context.Context, m MultiplexerInput, plan orchestrator.StopPlan) error {
	var lastErr error
	for _, step := range plan.Steps {
		if err := RunStep(ctx, m, step); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
