package sim

import "math"

// TrialOutcome is the result of one ruin trial.
type TrialOutcome struct {
	Steps     int64 // bets placed
	Truncated bool  // stopped by the step guard rather than by ruin or cancel
}

// RunTrial bets BetAmount repeatedly from initial capital until capital falls
// below the stake, the token is cancelled, or StepLimit bets were placed.
//
// Each bet wins with probability WinRate/100 and moves capital by
// ±BetAmount*WinMultiplier; capital is rounded to cents after every bet.
// Starting below the stake returns zero steps.
//
// When WinRate*WinMultiplier favours the gambler, capital drifts upward and
// ruin may never happen. Such a trial ends only through cancellation or the
// step guard, and a guarded stop is reported via Truncated.
func RunTrial(cfg Config, initial float64, rng Source, token *CancelToken) TrialOutcome {
	p := cfg.WinRate / 100
	stake := cfg.BetAmount * cfg.WinMultiplier
	limit := cfg.StepLimit()

	current := initial
	var steps int64
	for current >= cfg.BetAmount {
		if token.Cancelled() {
			return TrialOutcome{Steps: steps}
		}
		if steps >= limit {
			return TrialOutcome{Steps: steps, Truncated: true}
		}
		if rng.Float64() < p {
			current = roundCents(current + stake)
		} else {
			current = roundCents(current - stake)
		}
		steps++
	}
	return TrialOutcome{Steps: steps}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
