package trace

import (
	"sync"
	"time"

	"github.com/w0fv1/GamblerSimulation/sim"
)

// RunTrace collects the events of one run in emission order.
// Safe for one writer and any number of concurrent readers.
type RunTrace struct {
	mu      sync.RWMutex
	records []Record
	now     func() time.Time
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace() *RunTrace {
	return &RunTrace{
		records: make([]Record, 0),
		now:     time.Now,
	}
}

// Record appends ev and returns its sequence number.
func (rt *RunTrace) Record(ev sim.Event) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	seq := len(rt.records) + 1
	rt.records = append(rt.records, Record{Seq: seq, At: rt.now(), Event: ev})
	return seq
}

// Since returns a copy of every record with Seq > seq.
// A negative seq is treated as zero.
func (rt *RunTrace) Since(seq int) []Record {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	if seq < 0 {
		seq = 0
	}
	if seq >= len(rt.records) {
		return []Record{}
	}
	out := make([]Record, len(rt.records)-seq)
	copy(out, rt.records[seq:])
	return out
}

// Len returns the number of recorded events.
func (rt *RunTrace) Len() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.records)
}
