package controller

import (
	"fmt"
	"time"
)

// Diagnostic is a single health/status line, mirroring the teacher's
// plugin.Diagnostic (ID/Status/Detail) but reporting on the controller's own
// poll/lifecycle state rather than a plugin's.
type Diagnostic struct {
	ID     string
	Status string // "ok", "warning", "error"
	Detail string
}

// Diagnostics reports the controller's current generation, any in-flight
// lifecycle task, the discovery error, orphaned workspaces, and the
// interactive attachment, in the shape of the teacher's
// DiagnosticProvider.Diagnostics(). No view renders it.
func (m Model) Diagnostics() []Diagnostic {
	diags := []Diagnostic{
		{ID: "poll", Status: "ok", Detail: fmt.Sprintf("generation %d", m.generationValue())},
	}

	if m.lifecycleInFlight {
		diags = append(diags, Diagnostic{ID: "lifecycle", Status: "warning", Detail: "task in progress"})
	} else {
		diags = append(diags, Diagnostic{ID: "lifecycle", Status: "ok", Detail: "idle"})
	}

	if m.discoveryErr != "" {
		diags = append(diags, Diagnostic{ID: "discovery", Status: "error", Detail: m.discoveryErr})
	}

	for _, w := range m.workspaces {
		if w.IsOrphaned {
			diags = append(diags, Diagnostic{
				ID:     "workspace:" + w.Name,
				Status: "warning",
				Detail: w.Name + " has no live session backing its last-known status",
			})
		}
	}

	if m.inInteractive() {
		age := time.Since(m.interactiveTarget.LastKeyTime)
		diags = append(diags, Diagnostic{
			ID: "interactive", Status: "ok",
			Detail: fmt.Sprintf("attached to %s, last key %s ago", m.interactiveTarget.TargetSession, age.Round(time.Second)),
		})
	}

	return diags
}

// generationValue exposes the scheduler generation counter's current value
// without advancing it, for diagnostics display only.
func (m Model) generationValue() uint64 {
	return m.generation.Current()
}
