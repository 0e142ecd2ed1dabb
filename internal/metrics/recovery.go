package metrics

import "github.com/talgya/coopsim/internal/params"

// RecoveryResult summarizes how the cooperative scenario absorbed a shock.
type RecoveryResult struct {
	// Baseline is Scenario B total wealth on the last pre-shock week.
	Baseline float64 `json:"baseline"`

	// Trough is the lowest total observed at or after the shock start,
	// expressed as a fraction of Baseline (1.0 means no dip at all).
	Trough float64 `json:"trough"`

	// Severity is the depth of the dip: 1 − Trough, floored at 0.
	Severity float64 `json:"severity"`

	// Recovered reports whether total wealth regained the baseline level
	// after the shock began.
	Recovered bool `json:"recovered"`

	// RecoveryTime is weeks from shock start until the baseline was regained.
	// 0 when the run ended still below baseline.
	RecoveryTime int `json:"recovery_time_weeks"`

	// ResilienceScore combines dip depth and recovery speed into [0, 1].
	ResilienceScore float64 `json:"resilience_score"`
}

// RecoveryTracker watches the Scenario B total-wealth series around a shock
// window. The orchestrator feeds it every week including week 0 (the initial
// population), so the pre-shock baseline is always available.
type RecoveryTracker struct {
	shock *params.ShockEvent

	baseline  float64
	trough    float64
	recovered bool
	recovWeek int
	lastWeek  int
}

// NewRecoveryTracker returns a tracker for the given shock, or nil when the
// run has no shock configured. A nil tracker is safe to Observe.
func NewRecoveryTracker(shock *params.ShockEvent) *RecoveryTracker {
	if shock == nil {
		return nil
	}
	return &RecoveryTracker{shock: shock, trough: 1}
}

// Observe records one week's Scenario B total wealth. Week 0 is the initial
// population before any stepping.
func (t *RecoveryTracker) Observe(week int, totalWealthB float64) {
	if t == nil {
		return
	}
	t.lastWeek = week

	if week < t.shock.StartWeek {
		// Last pre-shock observation wins as the baseline.
		t.baseline = totalWealthB
		return
	}
	if t.baseline <= 0 {
		return
	}

	level := totalWealthB / t.baseline
	if level < t.trough {
		t.trough = level
	}
	if !t.recovered && level >= 1 {
		t.recovered = true
		t.recovWeek = week
	}
}

// Result finalizes the recovery summary. Returns nil for a shock-free run.
func (t *RecoveryTracker) Result() *RecoveryResult {
	if t == nil {
		return nil
	}
	res := &RecoveryResult{
		Baseline:  t.baseline,
		Trough:    t.trough,
		Recovered: t.recovered,
	}
	if res.Trough > 1 {
		res.Trough = 1
	}
	res.Severity = 1 - res.Trough

	if t.recovered {
		res.RecoveryTime = t.recovWeek - t.shock.StartWeek
		if res.RecoveryTime < 1 {
			res.RecoveryTime = 1
		}
	}

	// Half the score rewards a shallow dip, half a fast rebound relative to
	// the shock's own duration. An unrecovered run earns only the dip half.
	speed := 0.0
	if t.recovered {
		speed = 1 / (1 + float64(res.RecoveryTime)/float64(t.shock.DurationWeeks))
	}
	score := 0.5*(1-res.Severity) + 0.5*speed
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	res.ResilienceScore = score
	return res
}
