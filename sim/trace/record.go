// Package trace provides an ordered event log for one simulation run.
// Records are appended by the goroutine draining the run and read
// concurrently through sequence-number cursors.
package trace

import (
	"time"

	"github.com/w0fv1/GamblerSimulation/sim"
)

// Record is one logged event. Seq starts at 1 and has no gaps.
type Record struct {
	Seq   int       `json:"seq"`
	At    time.Time `json:"at"`
	Event sim.Event `json:"event"`
}
