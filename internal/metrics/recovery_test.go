package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/coopsim/internal/params"
)

func shockAt(start, duration int) *params.ShockEvent {
	return &params.ShockEvent{
		Type:          params.ShockIncomeReduction,
		Magnitude:     0.3,
		DurationWeeks: duration,
		StartWeek:     start,
	}
}

func TestNilTrackerIsSafe(t *testing.T) {
	tracker := NewRecoveryTracker(nil)
	tracker.Observe(1, 100)
	assert.Nil(t, tracker.Result())
}

func TestRecoveryDipAndRebound(t *testing.T) {
	tracker := NewRecoveryTracker(shockAt(5, 3))

	totals := []float64{1000, 1010, 1020, 1030, 1040, 900, 850, 880, 950, 1060, 1100}
	for week, total := range totals {
		tracker.Observe(week, total)
	}

	res := tracker.Result()
	require.NotNil(t, res)
	assert.InDelta(t, 1040, res.Baseline, 1e-9)
	assert.InDelta(t, 850.0/1040.0, res.Trough, 1e-9)
	assert.True(t, res.Recovered)
	// Baseline regained at week 9 (1060 ≥ 1040), shock started week 5.
	assert.Equal(t, 4, res.RecoveryTime)
	assert.Greater(t, res.ResilienceScore, 0.0)
	assert.LessOrEqual(t, res.ResilienceScore, 1.0)
}

func TestRecoveryNeverRegained(t *testing.T) {
	tracker := NewRecoveryTracker(shockAt(3, 2))

	totals := []float64{1000, 1000, 1000, 700, 600, 650, 700, 750}
	for week, total := range totals {
		tracker.Observe(week, total)
	}

	res := tracker.Result()
	require.NotNil(t, res)
	assert.False(t, res.Recovered)
	assert.Zero(t, res.RecoveryTime)
	assert.InDelta(t, 0.4, res.Severity, 1e-9)
	// Only the dip half of the score remains.
	assert.InDelta(t, 0.3, res.ResilienceScore, 1e-9)
}

func TestRecoveryNoDipAtAll(t *testing.T) {
	tracker := NewRecoveryTracker(shockAt(2, 2))

	for week := 0; week <= 6; week++ {
		tracker.Observe(week, 1000+float64(week)*10)
	}

	res := tracker.Result()
	require.NotNil(t, res)
	assert.Zero(t, res.Severity)
	assert.True(t, res.Recovered)
	assert.Equal(t, 1, res.RecoveryTime) // clamped minimum
}
