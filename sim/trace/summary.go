package trace

import "github.com/w0fv1/GamblerSimulation/sim"

// RunSummary aggregates statistics from a RunTrace.
type RunSummary struct {
	Events         int           `json:"events"`
	ProgressEvents int           `json:"progress_events"`
	ResultEvents   int           `json:"result_events"`
	LastProgress   int           `json:"last_progress"`
	Terminal       sim.EventKind `json:"terminal,omitempty"` // empty while the run is live
	Aborted        bool          `json:"aborted"`
	Error          string        `json:"error,omitempty"`
}

// Done reports whether the trace holds a terminal event.
func (s *RunSummary) Done() bool {
	return s.Terminal != ""
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *RunSummary {
	summary := &RunSummary{}
	if rt == nil {
		return summary
	}

	for _, r := range rt.Since(0) {
		summary.Events++
		ev := r.Event
		switch ev.Kind {
		case sim.EventProgress:
			summary.ProgressEvents++
			summary.LastProgress = ev.Progress
		case sim.EventResult:
			summary.ResultEvents++
		case sim.EventComplete:
			summary.Terminal = ev.Kind
			summary.Aborted = ev.Aborted
		case sim.EventError:
			summary.Terminal = ev.Kind
			summary.Error = ev.Message
		}
	}
	return summary
}
