package crossval

// #region imports
import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/permitsafe/go-analyzer/internal/overlap"
	"github.com/permitsafe/go-analyzer/internal/rules"
)

// #endregion

// #region types

// Finding is one dangerous domain combination detected on the permit.
type Finding struct {
	Domains            []string `json:"domains"`
	Severity           string   `json:"severity"`
	Description        string   `json:"description"`
	EscalatedRisk      string   `json:"escalated_risk,omitempty"`
	AdditionalControls []string `json:"additional_controls,omitempty"`
}

// Gap is a domain the permit language suggests but no specialist covered.
type Gap struct {
	Domain      string `json:"domain"`
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
}

// Report is the full cross-validation output. Critical findings land in
// Conflicts, the rest in Interactions.
type Report struct {
	Conflicts         []Finding `json:"conflicts,omitempty"`
	Interactions      []Finding `json:"interactions,omitempty"`
	Gaps              []Gap     `json:"gaps,omitempty"`
	MandatoryControls []string  `json:"mandatory_controls,omitempty"`
}

// #endregion types

// #region engine

// Engine checks domain combinations and coverage gaps. Validation depends
// only on the activated-domain set and the permit text, so identical
// inputs always yield identical reports.
type Engine struct {
	cfg rules.Config
}

// New builds an Engine over the given rule set.
func New(cfg rules.Config) *Engine {
	return &Engine{cfg: cfg}
}

// #endregion engine

// #region validate

// Validate produces the cross-validation report for the activated domains.
// searchText is the lowercased permit text used by the gap indicators.
func (e *Engine) Validate(activeDomains []string, searchText string) Report {
	active := make(map[string]bool, len(activeDomains))
	for _, d := range activeDomains {
		active[d] = true
	}

	var report Report

	for _, row := range e.cfg.Interactions {
		if !active[row.Domains[0]] || !active[row.Domains[1]] {
			continue
		}
		finding := Finding{
			Domains:            sortedPair(row.Domains),
			Severity:           row.Severity,
			Description:        row.Description,
			EscalatedRisk:      row.EscalatedRisk,
			AdditionalControls: row.AdditionalControls,
		}
		if row.Severity == "critical" {
			report.Conflicts = append(report.Conflicts, finding)
		} else {
			report.Interactions = append(report.Interactions, finding)
		}
		log.Printf("[CrossVal] %s interaction: %s + %s", row.Severity, finding.Domains[0], finding.Domains[1])
	}

	// Three or more concurrent hazard domains is a coordination risk in
	// its own right.
	if len(active) >= 3 {
		names := make([]string, 0, len(active))
		for d := range active {
			names = append(names, d)
		}
		sort.Strings(names)
		report.Interactions = append(report.Interactions, Finding{
			Domains:     names,
			Severity:    "medium",
			Description: fmt.Sprintf("%d concurrent hazard domains require coordinated supervision", len(names)),
			AdditionalControls: []string{
				"Single supervisor responsible for coordinating all concurrent activities",
				"Sequence incompatible activities instead of running them in parallel",
			},
		})
	}

	// Gap indicators never fire for a domain a specialist already covers.
	for _, gi := range e.cfg.GapIndicators {
		if active[gi.Domain] {
			continue
		}
		if !allGroupsMatch(searchText, gi.KeywordGroups) {
			continue
		}
		report.Gaps = append(report.Gaps, Gap{
			Domain:      gi.Domain,
			Description: gi.Description,
			Rationale:   gi.Rationale,
		})
		log.Printf("[CrossVal] gap: %s uncovered (%s)", gi.Domain, gi.Description)
	}

	report.MandatoryControls = e.collectControls(report)
	return report
}

func sortedPair(pair [2]string) []string {
	out := []string{pair[0], pair[1]}
	sort.Strings(out)
	return out
}

// allGroupsMatch requires at least one keyword from every group.
func allGroupsMatch(text string, groups [][]string) bool {
	if len(groups) == 0 {
		return false
	}
	for _, group := range groups {
		found := false
		for _, kw := range group {
			if strings.Contains(text, strings.ToLower(kw)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// #endregion validate

// #region controls

// collectControls flattens the escalated controls of every finding,
// dropping semantic duplicates.
func (e *Engine) collectControls(report Report) []string {
	var out []string
	add := func(control string) {
		for _, existing := range out {
			if overlap.Match(existing, control, e.cfg.Synonyms, e.cfg.OverlapWords) != overlap.None {
				return
			}
		}
		out = append(out, control)
	}
	for _, f := range report.Conflicts {
		for _, c := range f.AdditionalControls {
			add(c)
		}
	}
	for _, f := range report.Interactions {
		for _, c := range f.AdditionalControls {
			add(c)
		}
	}
	return out
}

// #endregion controls
