package sim

import "math"

// BalanceLevels returns NumBalanceLevels initial-capital values spaced
// logarithmically from LowerLimit to UpperLimit inclusive.
// The result is strictly increasing when LowerLimit < UpperLimit and
// more than one level is requested. A single level is just LowerLimit.
func BalanceLevels(cfg Config) []float64 {
	n := cfg.NumBalanceLevels
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{cfg.LowerLimit}
	}

	minLog := math.Log10(cfg.LowerLimit)
	maxLog := math.Log10(cfg.UpperLimit)
	step := (maxLog - minLog) / float64(n-1)

	levels := make([]float64, n)
	for i := range levels {
		levels[i] = math.Pow(10, minLog+float64(i)*step)
	}
	// Pin the endpoints so Log10/Pow round-off never moves them.
	levels[0] = cfg.LowerLimit
	levels[n-1] = cfg.UpperLimit
	return levels
}
