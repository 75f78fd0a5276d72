package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/permitsafe/go-analyzer/internal/dispatch"
	"github.com/permitsafe/go-analyzer/internal/expert"
	"github.com/permitsafe/go-analyzer/internal/permit"
	"github.com/permitsafe/go-analyzer/internal/rules"
)

func weldingPermit() permit.Record {
	return permit.Record{
		ID:          "P-100",
		Title:       "Saldatura su serbatoio",
		Description: "Riparazione mediante saldatura della parete interna del serbatoio di stoccaggio",
		WorkType:    "saldatura",
		Location:    "Area serbatoi",
		ExistingPPE: []string{"casco"},
	}
}

func weldingFake() *expert.Fake {
	return &expert.Fake{Responses: map[string]string{
		"risk_classification": `{"risks": {
			"hot_work": {"confidence": 0.9, "evidence": ["welding explicitly described"], "reasoning": "tank wall welding"},
			"confined_space": {"confidence": 0.8, "evidence": ["work inside the tank"], "reasoning": "interior repair"}
		}}`,
		"hot_work": `{"risks": [{"description": "ignition of residues", "severity": "critical", "mitigations": ["purge the tank"]}],
			"ppe": ["Maschera FFP3", "Guanti termici"],
			"controls": ["continuous fire watch during and after welding"],
			"permits_required": ["hot work permit"],
			"notes": ""}`,
		"confined_space": `{"risks": [{"description": "oxygen deficiency", "severity": "high"}],
			"ppe": ["Maschera FFP2", "Imbracatura anticaduta"],
			"controls": ["atmospheric testing before entry"],
			"permits_required": ["confined space entry permit"],
			"notes": ""}`,
		"ppe_evaluator": `{"risks": [], "ppe": ["Scarpe S3"], "controls": [], "permits_required": [], "notes": "declared equipment insufficient"}`,
	}}
}

func TestAnalyzeWeldingOnTank(t *testing.T) {
	a := New(weldingFake(), rules.Default())

	analysis, err := a.Analyze(context.Background(), weldingPermit())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if analysis.ID == "" {
		t.Error("expected a run id")
	}

	// Both critical domains plus the always-on evaluator are dispatched.
	if len(analysis.Results) != 3 {
		t.Fatalf("results: got %d, want 3", len(analysis.Results))
	}
	for _, res := range analysis.Results {
		if res.Status != dispatch.StatusSuccess {
			t.Errorf("%s: got status %s, want success", res.Specialist, res.Status)
		}
	}

	// The hot_work + confined_space combination is the critical pair.
	if len(analysis.CrossValidation.Conflicts) != 1 {
		t.Fatalf("conflicts: got %d, want 1", len(analysis.CrossValidation.Conflicts))
	}
	if analysis.Summary.RiskLevel != "critical" {
		t.Errorf("risk level: got %q, want critical", analysis.Summary.RiskLevel)
	}

	// FFP2 and FFP3 merge to the stronger filter.
	var respLevels []string
	for _, item := range analysis.PPE {
		if item.Category == "respiratory" {
			respLevels = append(respLevels, item.Level)
		}
	}
	if len(respLevels) != 1 || respLevels[0] != "FFP3" {
		t.Errorf("respiratory levels: got %v, want [FFP3]", respLevels)
	}

	// Permit requirements outrank everything else.
	if len(analysis.ActionItems) == 0 {
		t.Fatal("expected action items")
	}
	if analysis.ActionItems[0].Kind != "permit_required" {
		t.Errorf("first action kind: got %s, want permit_required", analysis.ActionItems[0].Kind)
	}

	if analysis.Summary.AdequacyScore >= 1.0 {
		t.Error("critical conflict must lower the adequacy score")
	}
}

func TestAnalyzeExpertTotallyDown(t *testing.T) {
	fake := &expert.Fake{Errors: map[string]error{
		"risk_classification": errors.New("down"),
		"hot_work":            errors.New("down"),
		"confined_space":      errors.New("down"),
		"ppe_evaluator":       errors.New("down"),
	}}
	a := New(fake, rules.Default())

	analysis, err := a.Analyze(context.Background(), weldingPermit())
	if err != nil {
		t.Fatalf("analyze must degrade, not fail: %v", err)
	}

	// Keyword fallback alone stays under the critical thresholds, so only
	// the evaluator is dispatched and it fails into a fallback result.
	if len(analysis.Results) != 1 {
		t.Fatalf("results: got %d, want 1 (ppe evaluator only)", len(analysis.Results))
	}
	res := analysis.Results[0]
	if res.Status != dispatch.StatusFailed {
		t.Errorf("status: got %s, want failed", res.Status)
	}
	if len(res.Controls) == 0 {
		t.Error("fallback result must carry baseline controls")
	}

	manualReview := false
	for _, item := range analysis.ActionItems {
		if strings.Contains(strings.ToLower(item.Description), "manual") {
			manualReview = true
		}
	}
	if !manualReview {
		t.Errorf("expected a manual-review action item, got %+v", analysis.ActionItems)
	}
}

func TestAnalyzeEmptyPermit(t *testing.T) {
	a := New(nil, rules.Default())
	if _, err := a.Analyze(context.Background(), permit.Record{ID: "only-id"}); !errors.Is(err, ErrEmptyPermit) {
		t.Fatalf("got %v, want ErrEmptyPermit", err)
	}
}

func TestAnalyzeDeterministicDecisions(t *testing.T) {
	a := New(weldingFake(), rules.Default())
	b := New(weldingFake(), rules.Default())

	first, err := a.Analyze(context.Background(), weldingPermit())
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Analyze(context.Background(), weldingPermit())
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Decisions) != len(second.Decisions) {
		t.Fatalf("decision count mismatch: %d vs %d", len(first.Decisions), len(second.Decisions))
	}
	for i := range first.Decisions {
		if first.Decisions[i] != second.Decisions[i] {
			t.Errorf("decision %d differs: %+v vs %+v", i, first.Decisions[i], second.Decisions[i])
		}
	}
}
