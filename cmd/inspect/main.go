package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/permitsafe/go-analyzer/internal/audit"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the analyzer audit database")
	last := flag.Int("last", 20, "show N most recent runs")
	run := flag.String("run", "", "show activation decisions for one run")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/analyzer.db [--last N] [--run id] [--json]")
		os.Exit(2)
	}

	store, err := audit.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *run != "" {
		err = showRun(store, *run, *jsonOut)
	} else {
		err = listRuns(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-runs

func listRuns(store *audit.Store, last int, jsonOut bool) error {
	runs, err := store.RecentRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	fmt.Printf("%-36s  %-12s  %-8s  %-5s  %-5s  %-7s  %s\n",
		"RUN", "PERMIT", "RISK", "SCORE", "GAPS", "ACTIONS", "CREATED")
	for _, r := range runs {
		fmt.Printf("%-36s  %-12s  %-8s  %5.2f  %5d  %7d  %s\n",
			r.RunID, r.PermitID, r.RiskLevel, r.AdequacyScore, r.Gaps, r.ActionItems, r.CreatedAt)
	}
	return nil
}

// #endregion list-runs

// #region show-run

func showRun(store *audit.Store, runID string, jsonOut bool) error {
	rows, err := store.ActivationsForRun(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no activation rows for run")
		return nil
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	for _, r := range rows {
		mark := " "
		if r.Activated {
			mark = "*"
		}
		fmt.Printf("%s %-16s conf=%.2f thr=%.2f  %s\n",
			mark, r.Domain, r.Confidence, r.Threshold, r.Rationale)
	}
	return nil
}

// #endregion show-run
