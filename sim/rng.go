package sim

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// Source is the random stream a run draws its bet outcomes from.
// *rand.Rand satisfies it. A Source is owned by exactly one running
// Simulator; it is never read concurrently.
type Source interface {
	Float64() float64
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical Config
// MUST produce identical event streams.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// KeyFor returns the key a run with cfg should use: the configured seed when
// present, otherwise one derived from the wall clock.
func KeyFor(cfg Config) SimulationKey {
	if cfg.Seed != nil {
		return NewSimulationKey(*cfg.Seed)
	}
	return NewSimulationKey(time.Now().UnixNano())
}

// NewRNG returns a fresh generator seeded from key.
func NewRNG(key SimulationKey) *rand.Rand {
	return rand.New(rand.NewSource(int64(key)))
}

// === PartitionedRNG ===

// PartitionedRNG hands out isolated, deterministically seeded generators,
// one per named run, all derived from a single master key.
//
// Derivation formula: masterSeed XOR fnv1a64(name).
//
// Thread-safety: NOT thread-safe. Guard ForRun with a lock when several
// goroutines create runs. The returned *rand.Rand belongs to one run.
type PartitionedRNG struct {
	key  SimulationKey
	runs map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:  key,
		runs: make(map[string]*rand.Rand),
	}
}

// ForRun returns the generator for the named run.
// The same name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForRun(name string) *rand.Rand {
	if rng, ok := p.runs[name]; ok {
		return rng
	}
	rng := NewRNG(SimulationKey(int64(p.key) ^ fnv1a64(name)))
	p.runs[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
