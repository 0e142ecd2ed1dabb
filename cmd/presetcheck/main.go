// Command presetcheck runs every configured preset through the simulation
// engine and reports whether each outcome agrees with the closed-form
// analytical estimate. Intended for CI and for retuning the factor tables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/coopsim/internal/engine"
	"github.com/talgya/coopsim/internal/params"
	"github.com/talgya/coopsim/internal/persistence"
	"github.com/talgya/coopsim/internal/results"
)

type checkResult struct {
	Name    string  `json:"name"`
	Members int     `json:"members"`
	Weeks   int     `json:"weeks"`
	Actual  float64 `json:"actual_difference"`
	Expect  float64 `json:"expected_difference"`
	ErrPct  float64 `json:"error_percentage"`
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed"`
}

func main() {
	presetPath := flag.String("presets", "", "TOML preset file (default: built-in presets)")
	dbPath := flag.String("db", "", "optional SQLite path to record runs")
	jsonOut := flag.Bool("json", false, "emit results as JSON instead of a table")
	parallel := flag.Int("parallel", 4, "max presets simulated concurrently")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	presets, err := loadPresets(*presetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load presets: %v\n", err)
		os.Exit(1)
	}

	var db *persistence.DB
	if *dbPath != "" {
		db, err = persistence.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open db: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	checks := make([]checkResult, len(presets))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*parallel)
	for i, fp := range presets {
		g.Go(func() error {
			orch, err := engine.New(fp.Params, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", fp.Name, err)
			}
			out, err := orch.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", fp.Name, err)
			}
			res := results.Assemble(out)

			checks[i] = checkResult{
				Name:    fp.Name,
				Members: fp.Params.NumMembers,
				Weeks:   fp.Params.SimulationWeeks,
				Actual:  res.Validation.ActualDifference,
				Expect:  res.Validation.ExpectedDifference,
				ErrPct:  res.Validation.ErrorPercentage,
				Score:   res.Validation.Score,
				Passed:  res.Validation.Passed,
			}

			if db != nil {
				mu.Lock()
				defer mu.Unlock()
				if err := db.SaveRun(res, fp.Params, fp.Name); err != nil {
					return fmt.Errorf("%s: persist: %w", fp.Name, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "presetcheck: %v\n", err)
		os.Exit(1)
	}

	failed := report(checks, *jsonOut)
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d presets inconsistent with the analytical model\n", failed, len(checks))
		os.Exit(1)
	}
}

func loadPresets(path string) ([]params.FilePreset, error) {
	if path != "" {
		return params.LoadPresetFile(path)
	}
	var out []params.FilePreset
	for _, name := range params.PresetNames() {
		p, _ := params.Preset(name)
		out = append(out, params.FilePreset{Name: name, Params: p})
	}
	return out, nil
}

func report(checks []checkResult, asJSON bool) int {
	failed := 0
	for _, c := range checks {
		if !c.Passed {
			failed++
		}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(checks)
		return failed
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tMEMBERS\tWEEKS\tACTUAL\tEXPECTED\tERR%\tSCORE\tSTATUS")
	for _, c := range checks {
		status := "ok"
		if !c.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f\t%.0f\t%.1f\t%.0f\t%s\n",
			c.Name, c.Members, c.Weeks, c.Actual, c.Expect, c.ErrPct*100, c.Score, status)
	}
	w.Flush()
	return failed
}
