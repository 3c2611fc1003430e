// Package testutil provides shared test infrastructure for the gambler
// simulator: scripted random sources and float assertions used across the
// sim/ test packages.
package testutil

import (
	"math"
	"testing"
)

// ScriptedSource replays a fixed sequence of draws, wrapping around at the
// end. An empty script always draws 0.
type ScriptedSource struct {
	Draws []float64
	next  int
	calls int
}

// NewScriptedSource returns a source that replays draws in order.
func NewScriptedSource(draws ...float64) *ScriptedSource {
	return &ScriptedSource{Draws: draws}
}

// Float64 returns the next scripted draw.
func (s *ScriptedSource) Float64() float64 {
	s.calls++
	if len(s.Draws) == 0 {
		return 0
	}
	v := s.Draws[s.next]
	s.next = (s.next + 1) % len(s.Draws)
	return v
}

// Calls reports how many draws were taken.
func (s *ScriptedSource) Calls() int {
	return s.calls
}

// AlwaysWin draws 0 forever: every bet with a positive win rate wins.
func AlwaysWin() *ScriptedSource { return NewScriptedSource(0) }

// AlwaysLose draws just below 1 forever: every bet below a 100% win rate loses.
func AlwaysLose() *ScriptedSource { return NewScriptedSource(0.999999) }

// PanicSource panics on the first draw after Remaining successful ones.
type PanicSource struct {
	Remaining int
	Value     any
}

// Float64 draws 0.999999 until Remaining is exhausted, then panics with Value.
func (p *PanicSource) Float64() float64 {
	if p.Remaining <= 0 {
		panic(p.Value)
	}
	p.Remaining--
	return 0.999999
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
