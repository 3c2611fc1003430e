package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxSteps bounds a single trial when Config.MaxSteps is zero.
const DefaultMaxSteps int64 = 1_000_000

// Config is the parameter set of one run. It is passed by value and never
// mutated once a Simulator has started.
type Config struct {
	NumExperiments   int     `yaml:"num_experiments" json:"numExperiments"`
	WinRate          float64 `yaml:"win_rate" json:"winRate"` // percent, 0..100
	WinMultiplier    float64 `yaml:"win_multiplier" json:"winMultiplier"`
	LowerLimit       float64 `yaml:"lower_limit" json:"lowerLimit"`
	UpperLimit       float64 `yaml:"upper_limit" json:"upperLimit"`
	NumBalanceLevels int     `yaml:"num_balance_levels" json:"numBalanceLevels"`
	BetAmount        float64 `yaml:"bet_amount" json:"betAmount"`

	// MaxSteps caps the number of bets in one trial (0 = DefaultMaxSteps).
	MaxSteps int64 `yaml:"max_steps,omitempty" json:"maxSteps,omitempty"`
	// Seed fixes the random source; nil means a time-derived seed.
	Seed *int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// DefaultConfig returns the stock parameters of the simulator form.
func DefaultConfig() Config {
	return Config{
		NumExperiments:   5,
		WinRate:          50,
		WinMultiplier:    1,
		LowerLimit:       100,
		UpperLimit:       1000,
		NumBalanceLevels: 2,
		BetAmount:        50,
	}
}

// ConfigError reports one invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks every field and returns all violations joined together.
// Each joined error is a *ConfigError.
func (c Config) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if c.NumExperiments <= 0 {
		bad("numExperiments", "must be positive, got %d", c.NumExperiments)
	}
	if !isFinite(c.WinRate) || c.WinRate < 0 || c.WinRate > 100 {
		bad("winRate", "must be within [0, 100], got %v", c.WinRate)
	}
	if !isFinite(c.WinMultiplier) || c.WinMultiplier <= 0 {
		bad("winMultiplier", "must be positive, got %v", c.WinMultiplier)
	}
	if !isFinite(c.LowerLimit) || c.LowerLimit <= 0 {
		bad("lowerLimit", "must be positive, got %v", c.LowerLimit)
	}
	if !isFinite(c.UpperLimit) || c.UpperLimit <= 0 {
		bad("upperLimit", "must be positive, got %v", c.UpperLimit)
	}
	if c.LowerLimit > c.UpperLimit {
		bad("lowerLimit", "must not exceed upperLimit (%v > %v)", c.LowerLimit, c.UpperLimit)
	}
	if c.NumBalanceLevels < 1 {
		bad("numBalanceLevels", "must be at least 1, got %d", c.NumBalanceLevels)
	}
	if !isFinite(c.BetAmount) || c.BetAmount <= 0 {
		bad("betAmount", "must be positive, got %v", c.BetAmount)
	} else if isFinite(c.WinMultiplier) && c.WinMultiplier > 0 && !movesCapital(c.BetAmount*c.WinMultiplier) {
		// Capital is rounded to cents after every bet, so such a trial
		// never changes balance and never ends.
		bad("betAmount", "stake %v x %v rounds to zero cents", c.BetAmount, c.WinMultiplier)
	}
	if c.MaxSteps < 0 {
		bad("maxSteps", "must be non-negative, got %d", c.MaxSteps)
	}
	return errors.Join(errs...)
}

// StepLimit returns the effective per-trial step guard.
func (c Config) StepLimit() int64 {
	if c.MaxSteps == 0 {
		return DefaultMaxSteps
	}
	return c.MaxSteps
}

// LoadConfigFile reads a YAML configuration file on top of DefaultConfig.
// Uses strict parsing: unrecognized keys are rejected.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// movesCapital reports whether one bet of stake changes a cent-rounded
// balance. A stake of exactly half a cent can round back to where it started.
func movesCapital(stake float64) bool {
	return stake*100 > 0.5+1e-9
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
