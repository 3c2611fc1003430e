package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sim "github.com/w0fv1/GamblerSimulation/sim"
)

// configFlags holds the simulation parameters accepted on the command line.
type configFlags struct {
	configPath       string
	numExperiments   int
	winRate          float64
	winMultiplier    float64
	lowerLimit       float64
	upperLimit       float64
	numBalanceLevels int
	betAmount        float64
	maxSteps         int64
	seed             int64
}

func (f *configFlags) register(cmd *cobra.Command) {
	d := sim.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file; explicit flags override its values")
	fs.IntVar(&f.numExperiments, "num-experiments", d.NumExperiments, "Trials per balance level")
	fs.Float64Var(&f.winRate, "win-rate", d.WinRate, "Probability of winning one bet, in percent")
	fs.Float64Var(&f.winMultiplier, "win-multiplier", d.WinMultiplier, "Payout per unit staked on a win")
	fs.Float64Var(&f.lowerLimit, "lower-limit", d.LowerLimit, "Smallest initial balance")
	fs.Float64Var(&f.upperLimit, "upper-limit", d.UpperLimit, "Largest initial balance")
	fs.IntVar(&f.numBalanceLevels, "num-balance-levels", d.NumBalanceLevels, "Number of log-spaced initial balances")
	fs.Float64Var(&f.betAmount, "bet-amount", d.BetAmount, "Stake of every bet")
	fs.Int64Var(&f.maxSteps, "max-steps", sim.DefaultMaxSteps, "Per-trial bet limit; trials reaching it are truncated")
	fs.Int64Var(&f.seed, "seed", 0, "Seed for the random source (default: time-derived)")
}

// resolve builds the run configuration: defaults, then --config, then any
// flag the user set explicitly. The result is validated.
func (f *configFlags) resolve(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if f.configPath != "" {
		loaded, err := sim.LoadConfigFile(f.configPath)
		if err != nil {
			return sim.Config{}, fmt.Errorf("loading %s: %w", f.configPath, err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("num-experiments") {
		cfg.NumExperiments = f.numExperiments
	}
	if changed("win-rate") {
		cfg.WinRate = f.winRate
	}
	if changed("win-multiplier") {
		cfg.WinMultiplier = f.winMultiplier
	}
	if changed("lower-limit") {
		cfg.LowerLimit = f.lowerLimit
	}
	if changed("upper-limit") {
		cfg.UpperLimit = f.upperLimit
	}
	if changed("num-balance-levels") {
		cfg.NumBalanceLevels = f.numBalanceLevels
	}
	if changed("bet-amount") {
		cfg.BetAmount = f.betAmount
	}
	if changed("max-steps") {
		cfg.MaxSteps = f.maxSteps
	}
	if changed("seed") {
		seed := f.seed
		cfg.Seed = &seed
	}

	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}
