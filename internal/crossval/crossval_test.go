package crossval

import (
	"reflect"
	"testing"

	"github.com/permitsafe/go-analyzer/internal/rules"
)

func TestValidateWeldingOnTankIsCritical(t *testing.T) {
	e := New(rules.Default())

	report := e.Validate([]string{"hot_work", "confined_space"}, "saldatura su serbatoio")

	if len(report.Conflicts) != 1 {
		t.Fatalf("conflicts: got %d, want 1", len(report.Conflicts))
	}
	conflict := report.Conflicts[0]
	if conflict.Severity != "critical" {
		t.Errorf("severity: got %q, want critical", conflict.Severity)
	}
	want := []string{"confined_space", "hot_work"}
	if !reflect.DeepEqual(conflict.Domains, want) {
		t.Errorf("domains: got %v, want %v", conflict.Domains, want)
	}
	if len(conflict.AdditionalControls) == 0 {
		t.Error("critical conflict must carry escalated controls")
	}
	if len(report.MandatoryControls) == 0 {
		t.Error("escalated controls must surface as mandatory controls")
	}
}

func TestValidateOrderIndependent(t *testing.T) {
	e := New(rules.Default())

	a := e.Validate([]string{"hot_work", "chemical"}, "")
	b := e.Validate([]string{"chemical", "hot_work"}, "")

	if !reflect.DeepEqual(a, b) {
		t.Errorf("reports differ by input order:\na: %+v\nb: %+v", a, b)
	}
	if len(a.Conflicts) != 1 {
		t.Fatalf("conflicts: got %d, want 1", len(a.Conflicts))
	}
}

func TestValidateNoInteractionForSingleDomain(t *testing.T) {
	e := New(rules.Default())

	report := e.Validate([]string{"hot_work"}, "saldatura")
	if len(report.Conflicts) != 0 || len(report.Interactions) != 0 {
		t.Errorf("single domain must yield no combinations: %+v", report)
	}
}

func TestValidateComplexityInteraction(t *testing.T) {
	e := New(rules.Default())

	report := e.Validate([]string{"electrical", "height", "mechanical"}, "")

	found := false
	for _, f := range report.Interactions {
		if len(f.Domains) == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("three active domains must add a coordination interaction: %+v", report.Interactions)
	}
}

func TestValidateGapIndicators(t *testing.T) {
	e := New(rules.Default())

	tests := []struct {
		name    string
		active  []string
		text    string
		wantGap string
	}{
		{"pipe-without-mechanical", []string{"hot_work"}, "taglio tubo in pressione", "mechanical"},
		{"oil-cutting-without-chemical", []string{"mechanical"}, "taglio tubo con olio residuo", "chemical"},
		{"no-language-no-gap", []string{"hot_work"}, "saldatura banco officina", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := e.Validate(tt.active, tt.text)
			if tt.wantGap == "" {
				for _, g := range report.Gaps {
					if g.Domain == "mechanical" || g.Domain == "chemical" {
						t.Errorf("unexpected gap: %+v", g)
					}
				}
				return
			}
			found := false
			for _, g := range report.Gaps {
				if g.Domain == tt.wantGap {
					found = true
				}
			}
			if !found {
				t.Errorf("expected gap for %q, got %+v", tt.wantGap, report.Gaps)
			}
		})
	}
}

func TestValidateGapNeverFiresForActiveDomain(t *testing.T) {
	e := New(rules.Default())

	// Same pipe language, but mechanical is already covered.
	report := e.Validate([]string{"mechanical"}, "taglio tubo in pressione")
	for _, g := range report.Gaps {
		if g.Domain == "mechanical" {
			t.Errorf("gap fired for an active domain: %+v", g)
		}
	}
}

func TestValidateEmptyActiveSet(t *testing.T) {
	e := New(rules.Default())

	report := e.Validate(nil, "")
	if len(report.Conflicts) != 0 || len(report.Interactions) != 0 || len(report.MandatoryControls) != 0 {
		t.Errorf("empty domain set must yield an empty combination report: %+v", report)
	}
}
