package sim

import "math"

// BatchSize is the number of trials run between two cancellation checks.
const BatchSize = 100

// AggregateResult summarizes the trials of one balance level.
// Worst <= Avg <= Best whenever Trials > 0; all fields are zero otherwise.
type AggregateResult struct {
	Avg       float64 `json:"avg"`
	Best      float64 `json:"best"`  // most bets survived
	Worst     float64 `json:"worst"` // fewest bets survived
	Trials    int     `json:"trials,omitempty"`
	Truncated int     `json:"truncated,omitempty"`
	Bets      int64   `json:"-"`
}

// accumulator keeps running statistics without materializing outcomes.
type accumulator struct {
	count     int
	truncated int
	sum       int64
	min       int64
	max       int64
}

func newAccumulator() accumulator {
	return accumulator{min: math.MaxInt64, max: math.MinInt64}
}

func (a *accumulator) add(o TrialOutcome) {
	a.count++
	a.sum += o.Steps
	a.min = min(a.min, o.Steps)
	a.max = max(a.max, o.Steps)
	if o.Truncated {
		a.truncated++
	}
}

func (a *accumulator) result() AggregateResult {
	if a.count == 0 {
		return AggregateResult{}
	}
	avg := float64(a.sum) / float64(a.count)
	// Float division can land a hair outside [min, max] for huge sums.
	avg = math.Min(math.Max(avg, float64(a.min)), float64(a.max))
	return AggregateResult{
		Avg:       avg,
		Best:      float64(a.max),
		Worst:     float64(a.min),
		Trials:    a.count,
		Truncated: a.truncated,
		Bets:      a.sum,
	}
}

// RunBatch runs NumExperiments trials at one balance level in batches of
// BatchSize, polling the token before each batch. If cancellation leaves no
// completed trial the zero AggregateResult is returned.
func RunBatch(cfg Config, balance float64, rng Source, token *CancelToken) AggregateResult {
	acc := newAccumulator()
	for i := 0; i < cfg.NumExperiments; i += BatchSize {
		if token.Cancelled() {
			break
		}
		end := min(i+BatchSize, cfg.NumExperiments)
		for j := i; j < end; j++ {
			acc.add(RunTrial(cfg, balance, rng, token))
		}
	}
	return acc.result()
}
