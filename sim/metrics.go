// Tracks run-wide counters such as trials, truncated trials and total bets.

package sim

import (
	"fmt"
	"io"
	"time"
)

// Metrics aggregates statistics about one run for final reporting.
// It is written only by the run goroutine; read it after the run is done.
type Metrics struct {
	LevelsTotal     int           // balance levels generated
	LevelsCompleted int           // levels whose result was emitted
	TrialsRun       int           // trials that finished (including cancelled ones)
	TruncatedTrials int           // trials stopped by the step guard
	TotalBets       int64         // bets placed across all trials
	Elapsed         time.Duration // wall clock from start to terminal event
}

func (m *Metrics) recordLevel(agg AggregateResult) {
	m.LevelsCompleted++
	m.TrialsRun += agg.Trials
	m.TruncatedTrials += agg.Truncated
	m.TotalBets += agg.Bets
}

// Print writes the metrics block to w.
func (m Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Balance Levels      : %d/%d\n", m.LevelsCompleted, m.LevelsTotal)
	fmt.Fprintf(w, "Trials Run          : %d\n", m.TrialsRun)
	fmt.Fprintf(w, "Truncated Trials    : %d\n", m.TruncatedTrials)
	fmt.Fprintf(w, "Total Bets          : %d\n", m.TotalBets)
	if m.TrialsRun > 0 {
		fmt.Fprintf(w, "Bets per Trial      : %.2f\n", float64(m.TotalBets)/float64(m.TrialsRun))
	}
	fmt.Fprintf(w, "Elapsed             : %s\n", m.Elapsed.Round(time.Millisecond))
}
