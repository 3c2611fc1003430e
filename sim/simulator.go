// sim/simulator.go
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// eventBuffer is the capacity of a run's event channel. The run blocks when
// the caller falls this far behind, so callers must drain until close.
const eventBuffer = 64

// ErrAlreadyStarted is returned by Start on a Simulator that left Idle.
var ErrAlreadyStarted = errors.New("simulator already started")

// State is the lifecycle position of a Simulator.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// IsTerminal reports whether no further transition can happen.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateAborted || s == StateFailed
}

// Simulator drives one run: Idle -> Running -> Completed | Aborted | Failed.
// A finished Simulator cannot be restarted; create a new one per run.
type Simulator struct {
	cfg   Config
	rng   Source
	token *CancelToken

	state   atomic.Int32
	events  chan Event
	done    chan struct{}
	metrics Metrics
}

// NewSimulator creates an Idle simulator for cfg. The rng is owned by the
// simulator from here on; pass nil to seed one from KeyFor(cfg).
func NewSimulator(cfg Config, rng Source) *Simulator {
	if rng == nil {
		rng = NewRNG(KeyFor(cfg))
	}
	return &Simulator{
		cfg:   cfg,
		rng:   rng,
		token: NewCancelToken(),
		done:  make(chan struct{}),
	}
}

// Config returns the run's configuration.
func (s *Simulator) Config() Config {
	return s.cfg
}

// State returns the current lifecycle state.
func (s *Simulator) State() State {
	return State(s.state.Load())
}

// Start launches the run and returns its event stream. The channel is closed
// after the terminal event (complete or error). Cancelling ctx has the same
// effect as Cancel. An invalid Config is reported as a single error event.
func (s *Simulator) Start(ctx context.Context) (<-chan Event, error) {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrAlreadyStarted
	}
	s.events = make(chan Event, eventBuffer)
	if ctx.Err() != nil {
		s.token.Cancel()
	}
	stop := context.AfterFunc(ctx, func() { s.token.Cancel() })

	go func() {
		defer close(s.done)
		defer close(s.events)
		defer stop()
		s.run()
	}()
	return s.events, nil
}

// Cancel requests cooperative cancellation. It returns false when the run
// is already over or cancellation was requested before.
func (s *Simulator) Cancel() bool {
	if s.State().IsTerminal() {
		return false
	}
	return s.token.Cancel()
}

// Done is closed once the run goroutine has emitted its terminal event.
func (s *Simulator) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the run is over and returns its final state.
func (s *Simulator) Wait() State {
	<-s.done
	return s.State()
}

// Metrics returns the run metrics. Only meaningful after Done is closed.
func (s *Simulator) Metrics() Metrics {
	return s.metrics
}

func (s *Simulator) run() {
	start := time.Now()
	defer func() { s.metrics.Elapsed = time.Since(start) }()

	if err := s.cfg.Validate(); err != nil {
		logrus.Warnf("Rejecting configuration: %v", err)
		s.finish(StateFailed, Event{Kind: EventError, Message: err.Error()})
		return
	}

	aborted, err := s.runLevels()
	switch {
	case err != nil:
		logrus.Errorf("Simulation failed: %v", err)
		s.finish(StateFailed, Event{Kind: EventError, Message: err.Error()})
	case aborted:
		logrus.Infof("Simulation aborted after %d/%d levels", s.metrics.LevelsCompleted, s.metrics.LevelsTotal)
		s.finish(StateAborted, Event{Kind: EventComplete, Aborted: true})
	default:
		logrus.Infof("Simulation complete: %d levels, %d trials", s.metrics.LevelsCompleted, s.metrics.TrialsRun)
		s.finish(StateCompleted, Event{Kind: EventComplete})
	}
}

// runLevels walks every balance level in order. A panic anywhere below is
// converted to an error so the run ends with exactly one error event.
func (s *Simulator) runLevels() (aborted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fault: %v", r)
		}
	}()

	levels := BalanceLevels(s.cfg)
	total := len(levels)
	s.metrics.LevelsTotal = total
	logrus.Infof("Starting simulation: %d levels in [%.2f, %.2f], %d experiments each, win rate %.2f%%, bet %.2f",
		total, s.cfg.LowerLimit, s.cfg.UpperLimit, s.cfg.NumExperiments, s.cfg.WinRate, s.cfg.BetAmount)

	for i, balance := range levels {
		if s.token.Cancelled() {
			return true, nil
		}
		s.emit(Event{Kind: EventProgress, Progress: progressPercent(i, total)})

		levelStart := time.Now()
		agg := RunBatch(s.cfg, balance, s.rng, s.token)
		s.metrics.recordLevel(agg)
		if agg.Truncated > 0 {
			logrus.Warnf("[level %d] %d of %d trials hit the %d-step guard", i, agg.Truncated, agg.Trials, s.cfg.StepLimit())
		}
		logrus.Debugf("[level %d] balance=%.2f avg=%.2f best=%.0f worst=%.0f (%s)",
			i, balance, agg.Avg, agg.Best, agg.Worst, time.Since(levelStart))

		s.emit(Event{Kind: EventResult, Result: &LevelResult{Balance: balance, Results: agg}})
	}
	// A cancel that lands during the last level, even after its final trial,
	// still counts as an abort.
	return s.token.Cancelled(), nil
}

func (s *Simulator) emit(ev Event) {
	s.events <- ev
}

// finish stores the terminal state before the terminal event is sent, so a
// caller that sees the event also sees the final State.
func (s *Simulator) finish(state State, ev Event) {
	s.state.Store(int32(state))
	s.emit(ev)
}

// progressPercent is round((i+1)/n*100).
func progressPercent(i, n int) int {
	return int(math.Round(float64(i+1) / float64(n) * 100))
}

// Run executes cfg synchronously, handing every event to fn in order, and
// returns the final state.
func Run(ctx context.Context, cfg Config, rng Source, fn func(Event)) State {
	s := NewSimulator(cfg, rng)
	events, err := s.Start(ctx)
	if err != nil {
		// Unreachable for a fresh simulator.
		panic(err)
	}
	for ev := range events {
		if fn != nil {
			fn(ev)
		}
	}
	return s.Wait()
}
