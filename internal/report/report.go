package report

// #region imports
import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/permitsafe/go-analyzer/internal/activation"
	"github.com/permitsafe/go-analyzer/internal/classifier"
	"github.com/permitsafe/go-analyzer/internal/crossval"
	"github.com/permitsafe/go-analyzer/internal/dispatch"
	"github.com/permitsafe/go-analyzer/internal/overlap"
	"github.com/permitsafe/go-analyzer/internal/permit"
	"github.com/permitsafe/go-analyzer/internal/ppe"
	"github.com/permitsafe/go-analyzer/internal/rules"
)

// #endregion

// #region action-item

// Action item kinds, in priority order. Lower rank sorts first.
const (
	KindPermitRequired    = "permit_required"
	KindCriticalConflict  = "critical_conflict"
	KindMissingSpecialist = "missing_specialist"
	KindPPEGap            = "ppe_gap"
	KindControl           = "control"
)

var kindRank = map[string]int{
	KindPermitRequired:    0,
	KindCriticalConflict:  1,
	KindMissingSpecialist: 2,
	KindPPEGap:            3,
	KindControl:           4,
}

var kindPriority = map[string]string{
	KindPermitRequired:    "critical",
	KindCriticalConflict:  "critical",
	KindMissingSpecialist: "high",
	KindPPEGap:            "high",
	KindControl:           "medium",
}

// ActionItem is one concrete step the permit issuer must take before
// authorizing the work.
type ActionItem struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"`
}

// #endregion action-item

// #region analysis

// Summary condenses the analysis into the numbers a reviewer scans first.
type Summary struct {
	RiskLevel       string   `json:"risk_level"`
	AdequacyScore   float64  `json:"adequacy_score"`
	Completeness    float64  `json:"completeness"`
	MissingElements []string `json:"missing_elements,omitempty"`
	CriticalIssues  int      `json:"critical_issues"`
	UnresolvedGaps  int      `json:"unresolved_gaps"`
}

// Analysis is the consolidated output of one full pipeline run.
type Analysis struct {
	ID       string    `json:"id"`
	PermitID string    `json:"permit_id"`
	Started  time.Time `json:"started"`

	Detections []classifier.Detection `json:"detections"`
	Decisions  []activation.Decision  `json:"decisions"`
	Results    []dispatch.Result      `json:"results"`

	PPE             []ppe.Item        `json:"ppe"`
	CrossValidation crossval.Report   `json:"cross_validation"`
	ActionItems     []ActionItem      `json:"action_items"`
	Adequacy        map[string]string `json:"adequacy,omitempty"`
	Summary         Summary           `json:"summary"`

	Elapsed time.Duration `json:"elapsed"`
}

// #endregion analysis

// #region builder

// Builder assembles the consolidated analysis from every stage's output.
type Builder struct {
	cfg rules.Config
}

// NewBuilder builds a Builder over the given rule set.
func NewBuilder(cfg rules.Config) *Builder {
	return &Builder{cfg: cfg}
}

// #endregion builder

// #region build

// Build consolidates one run. Candidate actions already covered by the
// permit's declared measures are suppressed; partially covered ones become
// MODIFY items.
func (b *Builder) Build(rec permit.Record, detections []classifier.Detection,
	decisions []activation.Decision, results []dispatch.Result,
	equipment []ppe.Item, cv crossval.Report) Analysis {

	analysis := Analysis{
		ID:              uuid.NewString(),
		PermitID:        rec.ID,
		Started:         time.Now().UTC(),
		Detections:      detections,
		Decisions:       decisions,
		Results:         results,
		PPE:             equipment,
		CrossValidation: cv,
	}

	analysis.ActionItems = b.actionItems(rec, results, equipment, cv)
	analysis.Adequacy = b.adequacy(rec, decisions)

	critical := b.criticalIssues(results, cv)
	gaps := len(cv.Gaps)

	completeness, missing := completenessScore(rec)
	analysis.Summary = Summary{
		RiskLevel:       riskLevel(decisions, cv, critical),
		AdequacyScore:   b.adequacyScore(critical, gaps),
		Completeness:    completeness,
		MissingElements: missing,
		CriticalIssues:  critical,
		UnresolvedGaps:  gaps,
	}
	return analysis
}

// #endregion build

// #region action-items

func (b *Builder) actionItems(rec permit.Record, results []dispatch.Result,
	equipment []ppe.Item, cv crossval.Report) []ActionItem {

	type candidate struct {
		kind        string
		description string
		source      string
	}
	var candidates []candidate

	for _, res := range results {
		for _, p := range res.PermitsRequired {
			candidates = append(candidates, candidate{KindPermitRequired, "Obtain permit: " + p, res.Specialist})
		}
	}
	for _, f := range cv.Conflicts {
		desc := f.Description
		if f.EscalatedRisk != "" {
			desc += " (" + f.EscalatedRisk + ")"
		}
		candidates = append(candidates, candidate{KindCriticalConflict, desc, strings.Join(f.Domains, "+")})
		for _, c := range f.AdditionalControls {
			candidates = append(candidates, candidate{KindCriticalConflict, c, strings.Join(f.Domains, "+")})
		}
	}
	for _, g := range cv.Gaps {
		candidates = append(candidates, candidate{
			KindMissingSpecialist,
			fmt.Sprintf("Assess %s hazards: %s", g.Domain, g.Description),
			"cross_validation",
		})
	}
	for _, item := range equipment {
		if coveredByDeclaredPPE(rec, item) {
			continue
		}
		desc := "Provide " + item.Name
		if item.Level != "" {
			desc += " (level " + item.Level + ")"
		}
		candidates = append(candidates, candidate{KindPPEGap, desc, item.Source})
	}
	for _, res := range results {
		for _, c := range res.Controls {
			candidates = append(candidates, candidate{KindControl, c, res.Specialist})
		}
	}
	for _, f := range cv.Interactions {
		for _, c := range f.AdditionalControls {
			candidates = append(candidates, candidate{KindControl, c, strings.Join(f.Domains, "+")})
		}
	}

	var items []ActionItem
	var kept []string
	for _, cand := range candidates {
		desc := strings.TrimSpace(cand.description)
		if desc == "" {
			continue
		}

		// Compare against declared measures first, then against actions
		// already emitted this run.
		match := b.matchExisting(rec.ExistingActions, desc)
		if match == overlap.Exact {
			continue
		}
		if dup := b.matchExisting(kept, desc); dup != overlap.None {
			continue
		}
		if match == overlap.Semantic {
			desc = "MODIFY: verify the declared measure fully covers: " + desc
		}

		kept = append(kept, desc)
		items = append(items, ActionItem{
			Kind:        cand.kind,
			Priority:    kindPriority[cand.kind],
			Description: desc,
			Source:      cand.source,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return kindRank[items[i].Kind] < kindRank[items[j].Kind]
	})
	for i := range items {
		items[i].ID = fmt.Sprintf("ACT_%03d", i+1)
	}
	return items
}

func (b *Builder) matchExisting(existing []string, candidate string) overlap.Kind {
	best := overlap.None
	for _, e := range existing {
		if k := overlap.Match(e, candidate, b.cfg.Synonyms, b.cfg.OverlapWords); k > best {
			best = k
		}
	}
	return best
}

func coveredByDeclaredPPE(rec permit.Record, item ppe.Item) bool {
	for _, declared := range rec.ExistingPPE {
		if overlap.Match(declared, item.Name, nil, 1) != overlap.None {
			return true
		}
	}
	return false
}

// #endregion action-items

// #region scoring

// criticalIssues counts critical conflicts, critical specialist risks and
// specialists that could not answer.
func (b *Builder) criticalIssues(results []dispatch.Result, cv crossval.Report) int {
	count := len(cv.Conflicts)
	for _, res := range results {
		if res.Status != dispatch.StatusSuccess {
			count++
			continue
		}
		for _, r := range res.Risks {
			if r.Severity == "critical" {
				count++
			}
		}
	}
	return count
}

// adequacyScore starts from full marks and decreases with every critical
// issue and unresolved gap. More issues never raise the score.
func (b *Builder) adequacyScore(critical, gaps int) float64 {
	score := 1.0 - b.cfg.CriticalPenalty*float64(critical) - b.cfg.GapPenalty*float64(gaps)
	if score < 0 {
		return 0
	}
	return score
}

// completenessScore rates how fully the permit is filled in, 0 to 10.
func completenessScore(rec permit.Record) (float64, []string) {
	score := 0.0
	var missing []string

	if strings.TrimSpace(rec.Title) != "" {
		score += 1.5
	} else {
		missing = append(missing, "title")
	}
	switch n := len(strings.TrimSpace(rec.Description)); {
	case n >= 50:
		score += 3
	case n > 0:
		score += 1.5
	default:
		missing = append(missing, "description")
	}
	if strings.TrimSpace(rec.WorkType) != "" {
		score += 1.5
	} else {
		missing = append(missing, "work type")
	}
	if strings.TrimSpace(rec.Location) != "" {
		score += 1
	} else {
		missing = append(missing, "location")
	}
	if len(rec.ExistingPPE) > 0 {
		score += 1.5
	} else {
		missing = append(missing, "declared protective equipment")
	}
	if len(rec.ExistingActions) > 0 {
		score += 1.5
	} else {
		missing = append(missing, "declared mitigation actions")
	}
	return score, missing
}

func riskLevel(decisions []activation.Decision, cv crossval.Report, critical int) string {
	if len(cv.Conflicts) > 0 || critical > 1 {
		return "critical"
	}
	active := activation.ActiveDomains(decisions)
	switch {
	case critical > 0 || len(active) >= 2:
		return "high"
	case len(active) == 1:
		return "medium"
	default:
		return "low"
	}
}

// #endregion scoring

// #region adequacy

// adequacy labels each domain's declared measures. Active domains with no
// matching declared action need verification before authorization.
func (b *Builder) adequacy(rec permit.Record, decisions []activation.Decision) map[string]string {
	out := make(map[string]string)
	for _, dec := range decisions {
		if dec.Domain == rules.SpecialistPPEEvaluator {
			continue
		}
		if !dec.Activated {
			out[dec.Domain] = "low priority: domain not activated"
			continue
		}
		if b.hasDomainMeasure(rec, dec.Domain) {
			out[dec.Domain] = "needs verification: declared measures must be checked by the specialist"
			continue
		}
		out[dec.Domain] = "needs verification: no declared measure addresses this domain"
	}
	return out
}

func (b *Builder) hasDomainMeasure(rec permit.Record, domainID string) bool {
	dom, ok := b.cfg.DomainByID(domainID)
	if !ok {
		return false
	}
	declared := strings.ToLower(strings.Join(rec.ExistingActions, " ") + " " + strings.Join(rec.ExistingPPE, " "))
	for _, kw := range dom.Keywords {
		if strings.Contains(declared, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// #endregion adequacy
