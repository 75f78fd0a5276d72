package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/permitsafe/go-analyzer/internal/analysis"
	"github.com/permitsafe/go-analyzer/internal/audit"
	"github.com/permitsafe/go-analyzer/internal/config"
	"github.com/permitsafe/go-analyzer/internal/expert"
	"github.com/permitsafe/go-analyzer/internal/permit"
	"github.com/permitsafe/go-analyzer/internal/rules"
)

// #region main

func main() {
	configPath := flag.String("config", envOr("ANALYZER_CONFIG", ""), "path to analyzer config YAML")
	permitPath := flag.String("permit", "", "path to permit JSON ('-' or empty reads stdin)")
	noAudit := flag.Bool("no-audit", false, "skip the audit database")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ruleSet, err := rules.Load(cfg.RulesPath)
	if err != nil {
		log.Fatalf("load rules: %v", err)
	}

	rec, err := readPermit(*permitPath)
	if err != nil {
		log.Fatalf("read permit: %v", err)
	}

	apiKey := envOr("EXPERT_API_KEY", cfg.Expert.APIKey)
	client := expert.NewHTTPClient(cfg.Expert.Endpoint, cfg.Expert.Model, apiKey, cfg.ExpertTimeout())

	opts := []analysis.Option{
		analysis.WithTaskTimeout(cfg.TaskTimeout()),
		analysis.WithMaxConcurrent(cfg.Dispatch.MaxConcurrent),
	}
	if !*noAudit {
		store, err := audit.Open(cfg.Audit.DBPath)
		if err != nil {
			log.Fatalf("open audit db: %v", err)
		}
		defer store.Close()
		opts = append(opts, analysis.WithAudit(store))
	}

	analyzer := analysis.New(client, ruleSet, opts...)
	result, err := analyzer.Analyze(context.Background(), rec)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("marshal result: %v", err)
	}
	fmt.Println(string(out))
}

// #endregion main

// #region helpers

func readPermit(path string) (permit.Record, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return permit.Record{}, err
	}

	var rec permit.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return permit.Record{}, fmt.Errorf("parse permit JSON: %w", err)
	}
	return rec, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
