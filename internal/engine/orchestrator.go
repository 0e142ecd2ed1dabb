// Package engine runs the paired scenario simulation: one shared initial
// population stepped week by week under the traditional and cooperative
// rules, with metrics captured after every week.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/coopsim/internal/members"
	"github.com/talgya/coopsim/internal/metrics"
	"github.com/talgya/coopsim/internal/params"
	"github.com/talgya/coopsim/internal/sampler"
)

// KeyEvent marks a notable week in the run's history.
type KeyEvent struct {
	Week        int    `json:"week"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// RunOutput is everything one completed run produced. The orchestrator keeps
// no state between runs; callers own the output.
type RunOutput struct {
	Params    params.ParameterSet
	History   []metrics.WeeklySnapshot
	FinalA    []*members.Member
	FinalB    []*members.Member
	KeyEvents []KeyEvent
	Recovery  *metrics.RecoveryResult
	Elapsed   time.Duration
}

// Orchestrator drives one run. Independent orchestrators share nothing, so
// concurrent runs need no locking.
type Orchestrator struct {
	p   params.ParameterSet
	log *slog.Logger
}

// New validates the parameter set and returns a ready orchestrator.
func New(p params.ParameterSet, log *slog.Logger) (*Orchestrator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{p: p, log: log}, nil
}

// Run executes the full simulation. Cancellation is honored at week
// boundaries only; mid-week state is never exposed.
func (o *Orchestrator) Run(ctx context.Context) (*RunOutput, error) {
	start := time.Now()
	p := o.p

	// Three derived seeds: one for initialization, one per scenario stream.
	// Keeping the streams separate means a change in one scenario's draw
	// count cannot shift the other's sequence.
	popA, popB, err := members.Initialize(p, sampler.New(p.Seed))
	if err != nil {
		return nil, err
	}

	shock := NewShock(p.Shock)
	stepperA, err := NewStepper(ScenarioTraditional, p, sampler.New(p.Seed+1), shock)
	if err != nil {
		return nil, err
	}
	stepperB, err := NewStepper(ScenarioCooperative, p, sampler.New(p.Seed+2), shock)
	if err != nil {
		return nil, err
	}

	calc := metrics.NewCalculator(p)
	tracker := metrics.NewRecoveryTracker(p.Shock)
	tracker.Observe(0, members.TotalWealth(popB))

	o.log.Info("simulation starting",
		"members", p.NumMembers,
		"weeks", p.SimulationWeeks,
		"seed", p.Seed,
		"shock", p.Shock != nil,
	)

	history := make([]metrics.WeeklySnapshot, 0, p.SimulationWeeks)
	var events []KeyEvent
	var prevSnap *metrics.WeeklySnapshot
	povertyCrossed := false

	for week := 1; week <= p.SimulationWeeks; week++ {
		select {
		case <-ctx.Done():
			o.log.Warn("simulation cancelled", "week", week)
			return nil, ctx.Err()
		default:
		}

		stepperA.StepWeek(popA, week)
		stepperB.StepWeek(popB, week)

		snap, err := calc.WeekSnapshot(week, popA, popB)
		if err != nil {
			return nil, fmt.Errorf("week %d: %w", week, err)
		}
		history = append(history, snap)
		tracker.Observe(week, snap.TotalWealthB)

		events = append(events, o.weekEvents(week, &snap, prevSnap, &povertyCrossed)...)
		if s := p.Shock; s != nil {
			switch week {
			case s.StartWeek:
				events = append(events, KeyEvent{
					Week: week, Type: "shock_start",
					Description: fmt.Sprintf("%s shock begins (magnitude %.0f%%, %d weeks)", s.Type, s.Magnitude*100, s.DurationWeeks),
				})
			case s.StartWeek + s.DurationWeeks:
				events = append(events, KeyEvent{
					Week: week, Type: "shock_end",
					Description: "shock window ends, draws revert to baseline",
				})
			}
		}

		prev := snap
		prevSnap = &prev
	}

	recovery := tracker.Result()
	if recovery != nil && recovery.Recovered {
		events = append(events, KeyEvent{
			Week: p.Shock.StartWeek + recovery.RecoveryTime,
			Type: "recovery",
			Description: fmt.Sprintf("cooperative economy regained pre-shock wealth after %d weeks", recovery.RecoveryTime),
		})
	}

	out := &RunOutput{
		Params:    p,
		History:   history,
		FinalA:    popA,
		FinalB:    popB,
		KeyEvents: events,
		Recovery:  recovery,
		Elapsed:   time.Since(start),
	}
	final := history[len(history)-1]
	o.log.Info("simulation complete",
		"elapsed", out.Elapsed.Round(time.Millisecond),
		"total_wealth_a", final.TotalWealthA,
		"total_wealth_b", final.TotalWealthB,
		"gini_a", final.GiniA,
		"gini_b", final.GiniB,
	)
	return out, nil
}

// weekEvents detects distributional milestones for one week.
func (o *Orchestrator) weekEvents(week int, snap, prev *metrics.WeeklySnapshot, povertyCrossed *bool) []KeyEvent {
	var events []KeyEvent
	if prev != nil {
		if prev.GiniB > 0 && snap.GiniB < prev.GiniB*0.95 {
			events = append(events, KeyEvent{
				Week: week, Type: "equality_improvement",
				Description: fmt.Sprintf("cooperative Gini fell to %.3f (from %.3f)", snap.GiniB, prev.GiniB),
			})
		}
		if prev.PovertyRateB > 0 && snap.PovertyRateB < prev.PovertyRateB*0.9 {
			events = append(events, KeyEvent{
				Week: week, Type: "poverty_reduction",
				Description: fmt.Sprintf("cooperative poverty rate fell to %.1f%%", snap.PovertyRateB*100),
			})
		}
	}
	if !*povertyCrossed && snap.PovertyRateB < 0.10 {
		*povertyCrossed = true
		events = append(events, KeyEvent{
			Week: week, Type: "poverty_milestone",
			Description: "cooperative poverty rate dropped below 10%",
		})
	}
	return events
}
