package tasks

import (
	"fmt"

	"github.com/desertthunder/pldiff/internal/models"
)

// ProgressUpdate represents a progress event during a comparison.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Resolve Phase = iota
	FetchFirst
	FetchSecond
	Reconciling
	Done
)

func (p Phase) String() string {
	switch p {
	case Resolve:
		return "resolve"
	case FetchFirst:
		return "fetch_first"
	case FetchSecond:
		return "fetch_second"
	case Reconciling:
		return "reconcile"
	case Done:
		return "done"
	default:
		return ""
	}
}

func resolveUpdate(step int, ref models.PlaylistRef) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolve,
		Step:    step,
		Total:   2,
		Message: fmt.Sprintf("Resolved %s playlist %s", ref.Mode, ref.ResolvedID),
		Data:    ref,
	}
}

func fetchUpdate(phase Phase, id string, count int) ProgressUpdate {
	step := 1
	if phase == FetchSecond {
		step = 2
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   2,
		Message: fmt.Sprintf("Fetched %d tracks from %s", count, id),
		Data:    count,
	}
}

func reconcileUpdate(t1, t2 int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Reconciling,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Comparing %d tracks against %d tracks...", t1, t2),
	}
}

func doneUpdate(result models.ReconciliationResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d in common, %d only in first, %d only in second", len(result.Common), len(result.Only1), len(result.Only2)),
		Data:    result,
	}
}
