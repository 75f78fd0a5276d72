package rules

// #region imports
import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region tier

// Tier groups hazard domains by criticality; it decides the default
// activation threshold.
type Tier string

const (
	TierCritical  Tier = "critical"
	TierImportant Tier = "important"
	TierGeneral   Tier = "general"
)

// #endregion

// #region domain

// Domain declares one hazard domain: its specialist, activation threshold,
// and the keywords that count as corroborating evidence.
type Domain struct {
	ID          string   `yaml:"id"`
	Specialist  string   `yaml:"specialist"`
	Tier        Tier     `yaml:"tier"`
	Threshold   float64  `yaml:"threshold"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

// #endregion domain

// #region interaction

// Interaction declares a dangerous combination of two hazard domains.
// The pair is unordered: {A,B} and {B,A} name the same row.
type Interaction struct {
	Domains            [2]string `yaml:"domains"`
	Severity           string    `yaml:"severity"` // critical | high | medium
	Description        string    `yaml:"description"`
	EscalatedRisk      string    `yaml:"escalated_risk"`
	AdditionalControls []string  `yaml:"additional_controls"`
}

// #endregion interaction

// #region gap-indicator

// GapIndicator flags a domain that should have been activated based on
// permit language. The indicator fires when at least one keyword from
// every group is present in the permit text.
type GapIndicator struct {
	Domain        string     `yaml:"domain"`
	KeywordGroups [][]string `yaml:"keyword_groups"`
	Description   string     `yaml:"description"`
	Rationale     string     `yaml:"rationale"`
}

// #endregion gap-indicator

// #region ppe-rules

// ScaleLevel is one step on a category's ordered protection scale.
// Markers are the substrings (matched case-insensitively) that identify
// the level in free text.
type ScaleLevel struct {
	Name     string   `yaml:"name"`
	Rank     int      `yaml:"rank"`
	Markers  []string `yaml:"markers"`
	Features []string `yaml:"features"`
}

// SubType is a non-substitutable variant within a category (e.g. chemical
// vs cut-resistant gloves).
type SubType struct {
	ID      string   `yaml:"id"`
	Markers []string `yaml:"markers"`
}

// PPECategory declares one protective-equipment category. A category has
// either an ordered Scale, a SubTypes list, or neither (generic).
type PPECategory struct {
	ID       string       `yaml:"id"`
	Keywords []string     `yaml:"keywords"`
	Scale    []ScaleLevel `yaml:"scale,omitempty"`
	SubTypes []SubType    `yaml:"sub_types,omitempty"`
}

// PPEConflict names two categories whose items can interfere with each
// other; matching items are annotated, never removed.
type PPEConflict struct {
	Categories [2]string `yaml:"categories"`
	Warning    string    `yaml:"warning"`
}

// PPERules bundles the consolidation tables.
type PPERules struct {
	Categories []PPECategory `yaml:"categories"`
	Conflicts  []PPEConflict `yaml:"conflicts"`
}

// #endregion ppe-rules

// #region config

// CategoryOther is the passthrough bucket for unclassifiable PPE items.
const CategoryOther = "other"

// SpecialistPPEEvaluator is the always-on terminal equipment-adequacy pass.
const SpecialistPPEEvaluator = "ppe_evaluator"

// Config is the full declarative rule set consulted by the pipeline.
// Every table is data, not logic: deployments override it via YAML.
type Config struct {
	Domains []Domain `yaml:"domains"`

	// WorkTypeExpectations maps a declared work-type token to the domains
	// considered consistent with it.
	WorkTypeExpectations map[string][]string `yaml:"work_type_expectations"`

	// InconsistentBar is the stricter confidence bar for domains outside
	// the declared work-type's expected set.
	InconsistentBar float64 `yaml:"inconsistent_bar"`

	// Keyword fallback tuning: confidence gained per distinct matched
	// keyword and the hard ceiling for keyword-only confidence.
	KeywordStep    float64 `yaml:"keyword_step"`
	KeywordCeiling float64 `yaml:"keyword_ceiling"`

	Interactions  []Interaction  `yaml:"interactions"`
	GapIndicators []GapIndicator `yaml:"gap_indicators"`
	PPE           PPERules       `yaml:"ppe"`

	// Semantic-overlap heuristic for "already covered" checks.
	Synonyms     [][]string `yaml:"synonyms"`
	OverlapWords int        `yaml:"overlap_words"`

	// Adequacy score penalties.
	CriticalPenalty float64 `yaml:"critical_penalty"`
	GapPenalty      float64 `yaml:"gap_penalty"`
}

// #endregion config

// #region lookups

// DomainByID returns the domain declaration, if known.
func (c Config) DomainByID(id string) (Domain, bool) {
	for _, d := range c.Domains {
		if d.ID == id {
			return d, true
		}
	}
	return Domain{}, false
}

// ExpectedDomains returns the domains consistent with the declared
// work-type. An empty result means no expectation is registered and the
// consistency rule does not apply.
func (c Config) ExpectedDomains(workType string) []string {
	var expected []string
	lower := strings.ToLower(workType)
	for token, domains := range c.WorkTypeExpectations {
		if token != "" && strings.Contains(lower, token) {
			expected = append(expected, domains...)
		}
	}
	return expected
}

// #endregion lookups

// #region load

// Load reads a rule file and overlays it on the defaults. A missing file
// returns the defaults and no error, so the engine always has a rule set.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse rules %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if len(cfg.Domains) == 0 {
		cfg.Domains = def.Domains
	}
	if cfg.WorkTypeExpectations == nil {
		cfg.WorkTypeExpectations = def.WorkTypeExpectations
	}
	if cfg.InconsistentBar == 0 {
		cfg.InconsistentBar = def.InconsistentBar
	}
	if cfg.KeywordStep == 0 {
		cfg.KeywordStep = def.KeywordStep
	}
	if cfg.KeywordCeiling == 0 {
		cfg.KeywordCeiling = def.KeywordCeiling
	}
	if len(cfg.Interactions) == 0 {
		cfg.Interactions = def.Interactions
	}
	if len(cfg.GapIndicators) == 0 {
		cfg.GapIndicators = def.GapIndicators
	}
	if len(cfg.PPE.Categories) == 0 {
		cfg.PPE.Categories = def.PPE.Categories
	}
	if len(cfg.PPE.Conflicts) == 0 {
		cfg.PPE.Conflicts = def.PPE.Conflicts
	}
	if len(cfg.Synonyms) == 0 {
		cfg.Synonyms = def.Synonyms
	}
	if cfg.OverlapWords == 0 {
		cfg.OverlapWords = def.OverlapWords
	}
	if cfg.CriticalPenalty == 0 {
		cfg.CriticalPenalty = def.CriticalPenalty
	}
	if cfg.GapPenalty == 0 {
		cfg.GapPenalty = def.GapPenalty
	}
}

// #endregion load
