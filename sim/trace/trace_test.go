package trace

import (
	"sync"
	"testing"

	"github.com/w0fv1/GamblerSimulation/sim"
)

func TestRunTrace_Record_AssignsSequence(t *testing.T) {
	// GIVEN an empty trace
	rt := NewRunTrace()

	// WHEN two events are recorded
	s1 := rt.Record(sim.Event{Kind: sim.EventProgress, Progress: 50})
	s2 := rt.Record(sim.Event{Kind: sim.EventResult, Result: &sim.LevelResult{Balance: 100}})

	// THEN sequence numbers start at 1 and increase by one
	if s1 != 1 || s2 != 2 {
		t.Fatalf("seq = %d, %d; want 1, 2", s1, s2)
	}
	if rt.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rt.Len())
	}
}

func TestRunTrace_Since_ReturnsTailInOrder(t *testing.T) {
	rt := NewRunTrace()
	for p := 25; p <= 100; p += 25 {
		rt.Record(sim.Event{Kind: sim.EventProgress, Progress: p})
	}

	tail := rt.Since(2)
	if len(tail) != 2 {
		t.Fatalf("expected 2 records, got %d", len(tail))
	}
	if tail[0].Seq != 3 || tail[0].Event.Progress != 75 {
		t.Errorf("first tail record = %+v, want seq 3 progress 75", tail[0])
	}
	if tail[1].Seq != 4 || tail[1].Event.Progress != 100 {
		t.Errorf("second tail record = %+v, want seq 4 progress 100", tail[1])
	}
}

func TestRunTrace_Since_Bounds(t *testing.T) {
	rt := NewRunTrace()
	rt.Record(sim.Event{Kind: sim.EventComplete})

	tests := []struct {
		name string
		seq  int
		want int
	}{
		{"negative cursor", -5, 1},
		{"zero cursor", 0, 1},
		{"caught up", 1, 0},
		{"past the end", 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rt.Since(tt.seq)
			if got == nil {
				t.Fatal("Since must return a non-nil slice")
			}
			if len(got) != tt.want {
				t.Errorf("Since(%d) returned %d records, want %d", tt.seq, len(got), tt.want)
			}
		})
	}
}

func TestRunTrace_ConcurrentReaders(t *testing.T) {
	rt := NewRunTrace()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			rt.Record(sim.Event{Kind: sim.EventProgress, Progress: i % 101})
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cursor := 0
			for cursor < 500 {
				for _, rec := range rt.Since(cursor) {
					if rec.Seq != cursor+1 {
						t.Errorf("gap in sequence: got %d after %d", rec.Seq, cursor)
						return
					}
					cursor = rec.Seq
				}
			}
		}()
	}
	wg.Wait()
}
