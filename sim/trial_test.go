package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/w0fv1/GamblerSimulation/sim/internal/testutil"
)

func ruinConfig(winRate, multiplier, bet float64) Config {
	cfg := DefaultConfig()
	cfg.WinRate = winRate
	cfg.WinMultiplier = multiplier
	cfg.BetAmount = bet
	return cfg
}

func TestRunTrial_CertainLoss_TwoBetsFromDoubleStake(t *testing.T) {
	// GIVEN a 0% win rate and capital of exactly two stakes
	cfg := ruinConfig(0, 1, 50)

	// WHEN a trial runs from 100
	out := RunTrial(cfg, 100, NewRNG(1), nil)

	// THEN capital goes 100 -> 50 -> 0 in two bets
	assert.Equal(t, TrialOutcome{Steps: 2}, out)
}

func TestRunTrial_StartsBelowStake_ZeroSteps(t *testing.T) {
	src := testutil.AlwaysWin()
	out := RunTrial(ruinConfig(50, 1, 50), 49.99, src, nil)

	assert.Equal(t, int64(0), out.Steps)
	assert.False(t, out.Truncated)
	assert.Zero(t, src.Calls(), "no bet may be drawn when already ruined")
}

func TestRunTrial_ScriptedWinThenLosses(t *testing.T) {
	// 100 -win-> 150 -lose-> 100 -lose-> 50 -lose-> 0
	src := testutil.NewScriptedSource(0.1, 0.9, 0.9, 0.9)
	out := RunTrial(ruinConfig(50, 1, 50), 100, src, nil)

	assert.Equal(t, int64(4), out.Steps)
	assert.Equal(t, 4, src.Calls())
}

func TestRunTrial_MultiplierScalesStake(t *testing.T) {
	// Each loss costs 50*2 = 100: 250 -> 150 -> 50 -> -50 is three bets.
	out := RunTrial(ruinConfig(0, 2, 50), 250, testutil.AlwaysLose(), nil)
	assert.Equal(t, int64(3), out.Steps)
}

func TestRunTrial_RoundsCapitalToCents(t *testing.T) {
	// Without rounding, 0.3-0.1-0.1 drifts below 0.1 and the trial stops
	// one bet early.
	out := RunTrial(ruinConfig(0, 1, 0.1), 0.3, testutil.AlwaysLose(), nil)
	assert.Equal(t, int64(3), out.Steps)
}

func TestRunTrial_FavourableDrift_StoppedByStepGuard(t *testing.T) {
	// GIVEN a gambler who always wins
	cfg := ruinConfig(100, 1, 50)
	cfg.MaxSteps = 1000

	// WHEN the trial runs
	out := RunTrial(cfg, 100, testutil.AlwaysWin(), nil)

	// THEN only the step guard ends it
	assert.Equal(t, TrialOutcome{Steps: 1000, Truncated: true}, out)
}

func TestRunTrial_CancelledToken_StopsBeforeFirstBet(t *testing.T) {
	token := NewCancelToken()
	token.Cancel()
	src := testutil.AlwaysWin()

	out := RunTrial(ruinConfig(100, 1, 50), 1000, src, token)

	assert.Equal(t, TrialOutcome{}, out)
	assert.Zero(t, src.Calls())
}

func TestRunTrial_CancelledMidTrial_StopsAtNextBet(t *testing.T) {
	token := NewCancelToken()
	src := &cancellingSource{token: token, after: 5}

	cfg := ruinConfig(100, 1, 50)
	cfg.MaxSteps = 1 << 40
	out := RunTrial(cfg, 100, src, token)

	assert.Equal(t, TrialOutcome{Steps: 5}, out)
}

// cancellingSource always wins and cancels its token on draw number after.
type cancellingSource struct {
	token *CancelToken
	after int
	calls int
}

func (c *cancellingSource) Float64() float64 {
	c.calls++
	if c.calls == c.after {
		c.token.Cancel()
	}
	return 0
}
