package activation

// #region imports
import (
	"fmt"
	"log"
	"sort"

	"github.com/permitsafe/go-analyzer/internal/classifier"
	"github.com/permitsafe/go-analyzer/internal/permit"
	"github.com/permitsafe/go-analyzer/internal/rules"
)

// #endregion

// #region decision

// Decision records whether a specialist is dispatched and why. Every
// detection yields a Decision, activated or not, so the audit trail is
// complete.
type Decision struct {
	Domain     string  `json:"domain"`
	Specialist string  `json:"specialist"`
	Activated  bool    `json:"activated"`
	Confidence float64 `json:"confidence"`
	Threshold  float64 `json:"threshold"`
	Rationale  string  `json:"rationale"`
}

// #endregion decision

// #region validator

// Validator applies the tiered activation thresholds to classifier output.
type Validator struct {
	cfg rules.Config
}

// New builds a Validator over the given rule set.
func New(cfg rules.Config) *Validator {
	return &Validator{cfg: cfg}
}

// #endregion validator

// #region validate

// Validate turns detections into activation decisions. Domains outside the
// declared work-type's expected set face a stricter bar; the PPE evaluator
// is appended unconditionally. Output is sorted by domain and deterministic
// for a given input.
func (v *Validator) Validate(rec permit.Record, detections []classifier.Detection) []Decision {
	expected := v.cfg.ExpectedDomains(rec.WorkType)
	expectedSet := make(map[string]bool, len(expected))
	for _, d := range expected {
		expectedSet[d] = true
	}

	decisions := make([]Decision, 0, len(detections)+1)
	for _, det := range detections {
		dom, ok := v.cfg.DomainByID(det.Domain)
		if !ok {
			continue
		}

		threshold := dom.Threshold
		rationale := fmt.Sprintf("confidence %.2f vs threshold %.2f (%s tier)", det.Confidence, threshold, dom.Tier)

		if len(expectedSet) > 0 && !expectedSet[det.Domain] {
			threshold = v.cfg.InconsistentBar
			rationale = fmt.Sprintf("confidence %.2f vs threshold %.2f (inconsistent with work type %q)",
				det.Confidence, threshold, rec.WorkType)
		}

		dec := Decision{
			Domain:     det.Domain,
			Specialist: dom.Specialist,
			Activated:  det.Confidence >= threshold,
			Confidence: det.Confidence,
			Threshold:  threshold,
			Rationale:  rationale,
		}
		decisions = append(decisions, dec)
		log.Printf("[Activation] %s: activated=%t %s", dec.Domain, dec.Activated, dec.Rationale)
	}

	sort.Slice(decisions, func(i, j int) bool { return decisions[i].Domain < decisions[j].Domain })

	// Equipment adequacy is evaluated on every permit, whatever the
	// classifier found.
	ppe := Decision{
		Domain:     rules.SpecialistPPEEvaluator,
		Specialist: rules.SpecialistPPEEvaluator,
		Activated:  true,
		Confidence: 1.0,
		Threshold:  0,
		Rationale:  "always active: protective-equipment adequacy is checked on every permit",
	}
	decisions = append(decisions, ppe)
	log.Printf("[Activation] %s: activated=true %s", ppe.Domain, ppe.Rationale)

	return decisions
}

// Activated filters the decisions down to dispatched specialists,
// preserving order.
func Activated(decisions []Decision) []Decision {
	var out []Decision
	for _, d := range decisions {
		if d.Activated {
			out = append(out, d)
		}
	}
	return out
}

// ActiveDomains returns the set of activated hazard domains, excluding the
// PPE evaluator.
func ActiveDomains(decisions []Decision) []string {
	var out []string
	for _, d := range decisions {
		if d.Activated && d.Domain != rules.SpecialistPPEEvaluator {
			out = append(out, d.Domain)
		}
	}
	return out
}

// #endregion validate
