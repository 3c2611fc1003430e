// Package sim provides the gambler's-ruin simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - config.go: the validated, immutable parameter set of one run
//   - trial.go: a single ruin trial (bet until capital drops below the stake)
//   - batch.go: repeated trials for one balance level with streaming aggregation
//   - simulator.go: the driver state machine that walks all balance levels and
//     streams events back to the caller
//
// # Architecture
//
// The driver runs as one goroutine. The caller talks to it only through
// Start (configuration in), Cancel (cooperative stop) and the Event channel
// (progress, result, complete, error out). Trials and levels run strictly
// sequentially inside that goroutine, so the accumulators need no locks.
//
// Randomness comes from an injected Source (a *rand.Rand satisfies it).
// Two runs with the same SimulationKey and Config emit identical events.
//
// Sub-packages build on the event stream:
//   - sim/report/: append-only result table with text, CSV and JSON export
//   - sim/trace/: ordered event log with cursor reads and a run summary
package sim
