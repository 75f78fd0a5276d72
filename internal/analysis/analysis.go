package analysis

// #region imports
import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/permitsafe/go-analyzer/internal/activation"
	"github.com/permitsafe/go-analyzer/internal/audit"
	"github.com/permitsafe/go-analyzer/internal/classifier"
	"github.com/permitsafe/go-analyzer/internal/crossval"
	"github.com/permitsafe/go-analyzer/internal/dispatch"
	"github.com/permitsafe/go-analyzer/internal/docs"
	"github.com/permitsafe/go-analyzer/internal/expert"
	"github.com/permitsafe/go-analyzer/internal/permit"
	"github.com/permitsafe/go-analyzer/internal/ppe"
	"github.com/permitsafe/go-analyzer/internal/report"
	"github.com/permitsafe/go-analyzer/internal/rules"
)

// #endregion

// #region errors

// ErrEmptyPermit is returned when the permit carries nothing to analyze.
var ErrEmptyPermit = errors.New("permit has no analyzable content")

// #endregion errors

// #region analyzer

// Analyzer runs the full pipeline: classify, validate activations,
// dispatch specialists, consolidate equipment, cross-validate and build
// the consolidated report. Each run is independent; the analyzer holds no
// mutable per-run state.
type Analyzer struct {
	cfg      rules.Config
	client   expert.Client
	provider docs.Provider
	store    *audit.Store

	taskTimeout   time.Duration
	maxConcurrent int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDocs attaches a reference-document provider for specialist calls.
func WithDocs(p docs.Provider) Option {
	return func(a *Analyzer) { a.provider = p }
}

// WithAudit attaches a persistence store for decisions and run summaries.
func WithAudit(s *audit.Store) Option {
	return func(a *Analyzer) { a.store = s }
}

// WithTaskTimeout caps each specialist evaluation.
func WithTaskTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.taskTimeout = d }
}

// WithMaxConcurrent bounds the specialist fan-out.
func WithMaxConcurrent(n int) Option {
	return func(a *Analyzer) { a.maxConcurrent = n }
}

// New builds an Analyzer. client may be nil; the pipeline then runs on
// keyword fallback and specialist fallback results only.
func New(client expert.Client, cfg rules.Config, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:           cfg,
		client:        client,
		taskTimeout:   60 * time.Second,
		maxConcurrent: 4,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// #endregion analyzer

// #region analyze

// Analyze runs one permit through the pipeline. It fails only when the
// permit is empty; every downstream failure degrades into fallback content
// inside the returned analysis.
func (a *Analyzer) Analyze(ctx context.Context, rec permit.Record) (report.Analysis, error) {
	if rec.Empty() {
		return report.Analysis{}, ErrEmptyPermit
	}

	start := time.Now()
	log.Printf("[Analysis] start permit=%s work_type=%q", rec.ID, rec.WorkType)

	detections := classifier.New(a.client, a.cfg).Classify(ctx, rec)
	decisions := activation.New(a.cfg).Validate(rec, detections)

	registry := dispatch.BuildRegistry(a.client, a.cfg, a.provider)
	results := dispatch.NewDispatcher(registry, a.taskTimeout, a.maxConcurrent).
		Dispatch(ctx, rec, decisions)

	var equipment []ppe.Item
	for _, res := range results {
		equipment = append(equipment, res.PPE...)
	}
	equipment = ppe.New(a.cfg.PPE).Consolidate(equipment)

	cv := crossval.New(a.cfg).Validate(activation.ActiveDomains(decisions), rec.SearchText())

	analysis := report.NewBuilder(a.cfg).Build(rec, detections, decisions, results, equipment, cv)
	analysis.Elapsed = time.Since(start)

	if a.store != nil {
		if err := a.store.RecordRun(analysis); err != nil {
			log.Printf("[Analysis] audit run: %v", err)
		} else if err := a.store.RecordActivations(analysis.ID, decisions); err != nil {
			log.Printf("[Analysis] audit activations: %v", err)
		}
	}

	log.Printf("[Analysis] done permit=%s risk=%s score=%.2f actions=%d in %s",
		rec.ID, analysis.Summary.RiskLevel, analysis.Summary.AdequacyScore,
		len(analysis.ActionItems), analysis.Elapsed.Round(time.Millisecond))
	return analysis, nil
}

// #endregion analyze
