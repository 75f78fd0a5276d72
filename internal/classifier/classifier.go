package classifier

// #region imports
import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/permitsafe/go-analyzer/internal/expert"
	"github.com/permitsafe/go-analyzer/internal/permit"
	"github.com/permitsafe/go-analyzer/internal/rules"
)

// #endregion

// #region detection

// Detection is the classifier's verdict for one hazard domain. Every known
// domain gets exactly one Detection per run, confident or not.
type Detection struct {
	Domain     string   `json:"domain"`
	Confidence float64  `json:"confidence"`
	Severity   string   `json:"severity"`
	Evidence   []string `json:"evidence,omitempty"`
	Reasoning  string   `json:"reasoning,omitempty"`

	// ActivationRecommended is the classifier's own read of the tiered
	// threshold; the activation validator has the final word.
	ActivationRecommended bool `json:"activation_recommended"`

	// Fallback marks a detection produced without the expert, from keyword
	// evidence alone.
	Fallback bool `json:"fallback,omitempty"`
}

// #endregion detection

// #region classifier

// Classifier scores a permit against every hazard domain. It asks the
// domain expert first and degrades to keyword matching when the expert is
// unavailable or unparseable.
type Classifier struct {
	client expert.Client
	cfg    rules.Config
}

// New builds a Classifier. The client may be nil; classification then runs
// in fallback mode only.
func New(client expert.Client, cfg rules.Config) *Classifier {
	return &Classifier{client: client, cfg: cfg}
}

// #endregion classifier

// #region expert-schema

type expertVerdict struct {
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
	Reasoning  string   `json:"reasoning"`
}

type expertClassification struct {
	Risks map[string]expertVerdict `json:"risks"`
}

// #endregion expert-schema

// #region classify

// Classify scores the permit against all configured domains. It never
// fails: expert errors degrade to the keyword fallback and are logged.
func (c *Classifier) Classify(ctx context.Context, rec permit.Record) []Detection {
	keyword := c.keywordConfidence(rec)

	expertRisks, expertErr := c.expertClassification(ctx, rec)
	if expertErr != nil {
		log.Printf("[Classifier] expert unavailable, keyword fallback only: %v", expertErr)
	}

	detections := make([]Detection, 0, len(c.cfg.Domains))
	for _, dom := range c.cfg.Domains {
		kw := keyword[dom.ID]

		det := Detection{
			Domain:     dom.ID,
			Confidence: kw.Confidence,
			Evidence:   kw.Evidence,
			Fallback:   true,
		}

		if verdict, ok := expertRisks[dom.ID]; ok {
			det.Fallback = false
			det.Reasoning = verdict.Reasoning
			det.Confidence = clamp01(verdict.Confidence)
			det.Evidence = append(verdict.Evidence, kw.Evidence...)
			// Keyword evidence can raise but never exceed its own ceiling.
			if kw.Confidence > det.Confidence {
				det.Confidence = kw.Confidence
			}
		}

		det.Severity = severity(dom.Tier, det.Confidence)
		det.ActivationRecommended = det.Confidence >= dom.Threshold
		detections = append(detections, det)
	}

	sort.Slice(detections, func(i, j int) bool { return detections[i].Domain < detections[j].Domain })
	return detections
}

// #endregion classify

// #region expert-call

const systemMessage = `You are an industrial safety risk classifier for work permits.
Given a permit, score every listed hazard domain with a confidence in [0,1].
Be conservative: require concrete evidence, distinguish place names from
actual activities, and prefer not activating over over-activating.
Answer with JSON only: {"risks": {"<domain>": {"confidence": 0.0, "evidence": [], "reasoning": ""}}}`

func (c *Classifier) expertClassification(ctx context.Context, rec permit.Record) (map[string]expertVerdict, error) {
	if c.client == nil {
		return nil, fmt.Errorf("no expert client configured")
	}

	var lines []string
	for _, d := range c.cfg.Domains {
		lines = append(lines, fmt.Sprintf("- %s: %s (activation threshold %.1f)", d.ID, d.Description, d.Threshold))
	}
	prompt := fmt.Sprintf("PERMIT:\n%s\n\nDECLARED WORK TYPE: %s\n\nHAZARD DOMAINS:\n%s",
		rec.FlattenContent(), orUnspecified(rec.WorkType), strings.Join(lines, "\n"))

	raw, err := c.client.Analyze(ctx, expert.Request{
		Domain: "risk_classification",
		System: systemMessage,
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := expert.Decode[expertClassification](raw)
	if err != nil {
		return nil, err
	}
	return parsed.Risks, nil
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unspecified"
	}
	return s
}

// #endregion expert-call

// #region keyword-fallback

type keywordScore struct {
	Confidence float64
	Evidence   []string
}

// keywordConfidence scores every domain from permit text alone. Confidence
// grows per distinct matched keyword and is hard-capped: keyword evidence
// alone never clears the critical thresholds.
func (c *Classifier) keywordConfidence(rec permit.Record) map[string]keywordScore {
	text := rec.SearchText()
	scores := make(map[string]keywordScore, len(c.cfg.Domains))
	for _, dom := range c.cfg.Domains {
		var score keywordScore
		for _, kw := range dom.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				score.Confidence += c.cfg.KeywordStep
				score.Evidence = append(score.Evidence, "keyword match: "+kw)
			}
		}
		if score.Confidence > c.cfg.KeywordCeiling {
			score.Confidence = c.cfg.KeywordCeiling
		}
		scores[dom.ID] = score
	}
	return scores
}

// #endregion keyword-fallback

// #region severity

// severity labels a detection from its tier and confidence. Critical-tier
// detections only escalate to "critical" above 0.7; important-tier ones
// reach "high" above 0.6; everything else is rated on confidence alone.
func severity(tier rules.Tier, confidence float64) string {
	switch {
	case tier == rules.TierCritical && confidence > 0.7:
		return "critical"
	case tier == rules.TierImportant && confidence > 0.6:
		return "high"
	case confidence > 0.7:
		return "high"
	case confidence > 0.5:
		return "medium"
	default:
		return "low"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion severity
