package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/w0fv1/GamblerSimulation/sim"
	"github.com/w0fv1/GamblerSimulation/sim/report"
	"github.com/w0fv1/GamblerSimulation/sim/trace"
)

// ErrRunNotFound is returned for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one simulation started through the registry. The trace and table
// are filled by the registry's drain goroutine and may be read at any time.
type Run struct {
	ID        string
	Config    sim.Config
	CreatedAt time.Time
	Trace     *trace.RunTrace
	Table     *report.Table

	sim *sim.Simulator
}

// State returns the run's lifecycle state.
func (r *Run) State() sim.State {
	return r.sim.State()
}

// Done is closed once the run has emitted its terminal event.
func (r *Run) Done() <-chan struct{} {
	return r.sim.Done()
}

// Registry owns every run started by the server. Each run gets its own
// Simulator and its own random generator.
type Registry struct {
	ctx     context.Context
	metrics *Metrics

	rngMu sync.Mutex
	rng   *sim.PartitionedRNG

	mu   sync.RWMutex
	runs map[string]*Run
	wg   sync.WaitGroup
}

// NewRegistry creates a registry whose runs are cancelled when ctx ends.
// Runs without a configured seed draw from generators derived from key.
func NewRegistry(ctx context.Context, key sim.SimulationKey, metrics *Metrics) *Registry {
	return &Registry{
		ctx:     ctx,
		metrics: metrics,
		rng:     sim.NewPartitionedRNG(key),
		runs:    make(map[string]*Run),
	}
}

// Start validates cfg and launches a new run. An invalid configuration is
// rejected here, before any run exists.
func (g *Registry) Start(cfg sim.Config) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		g.metrics.RunRejected()
		return nil, err
	}

	id := uuid.NewString()
	s := sim.NewSimulator(cfg, g.rngFor(id, cfg))
	run := &Run{
		ID:        id,
		Config:    cfg,
		CreatedAt: time.Now(),
		Trace:     trace.NewRunTrace(),
		Table:     report.NewTable(),
		sim:       s,
	}

	events, err := s.Start(g.ctx)
	if err != nil {
		return nil, fmt.Errorf("starting run %s: %w", id, err)
	}

	g.mu.Lock()
	g.runs[id] = run
	g.mu.Unlock()

	g.metrics.RunStarted()
	g.wg.Add(1)
	go g.drain(run, events)

	logrus.WithField("run_id", id).Infof("Run started: %d levels x %d experiments", cfg.NumBalanceLevels, cfg.NumExperiments)
	return run, nil
}

func (g *Registry) rngFor(id string, cfg sim.Config) sim.Source {
	if cfg.Seed != nil {
		return sim.NewRNG(sim.NewSimulationKey(*cfg.Seed))
	}
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	return g.rng.ForRun(id)
}

// drain is the only reader of a run's event stream.
func (g *Registry) drain(run *Run, events <-chan sim.Event) {
	defer g.wg.Done()
	log := logrus.WithField("run_id", run.ID)

	levelStart := time.Now()
	for ev := range events {
		run.Trace.Record(ev)
		switch ev.Kind {
		case sim.EventProgress:
			levelStart = time.Now()
			log.Debugf("Progress %d%%", ev.Progress)
		case sim.EventResult:
			run.Table.Observe(ev)
			g.metrics.LevelDone(ev.Result.Results, time.Since(levelStart).Seconds())
		case sim.EventError:
			log.Warnf("Run failed: %s", ev.Message)
		}
	}

	state := run.sim.Wait()
	g.metrics.RunFinished(state)
	m := run.sim.Metrics()
	log.Infof("Run %s: %d/%d levels, %d trials in %s", state, m.LevelsCompleted, m.LevelsTotal, m.TrialsRun, m.Elapsed)
}

// Get returns the run with the given ID.
func (g *Registry) Get(id string) (*Run, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	run, ok := g.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

// Cancel sends the cancel command to a run. It reports whether the
// request changed anything; cancelling a finished run is a no-op.
func (g *Registry) Cancel(id string) (bool, error) {
	run, err := g.Get(id)
	if err != nil {
		return false, err
	}
	cancelled := run.sim.Cancel()
	if cancelled {
		logrus.WithField("run_id", id).Info("Cancel requested")
	}
	return cancelled, nil
}

// List returns all runs, oldest first.
func (g *Registry) List() []*Run {
	g.mu.RLock()
	out := make([]*Run, 0, len(g.runs))
	for _, run := range g.runs {
		out = append(out, run)
	}
	g.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// CancelAll requests cancellation of every live run.
func (g *Registry) CancelAll() {
	for _, run := range g.List() {
		run.sim.Cancel()
	}
}

// Wait blocks until every drain goroutine has finished.
func (g *Registry) Wait() {
	g.wg.Wait()
}
