package dispatch

// #region imports
import (
	"context"
	"fmt"
	"strings"

	"github.com/permitsafe/go-analyzer/internal/docs"
	"github.com/permitsafe/go-analyzer/internal/expert"
	"github.com/permitsafe/go-analyzer/internal/ppe"
	"github.com/permitsafe/go-analyzer/internal/rules"
)

// #endregion

// #region registry

// Registry maps specialist ids to implementations. It is built once per
// analyzer and read-only afterwards.
type Registry struct {
	specialists map[string]Specialist
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{specialists: make(map[string]Specialist)}
}

// Register adds or replaces a specialist.
func (r *Registry) Register(id string, s Specialist) {
	r.specialists[id] = s
}

// Lookup returns the specialist registered under id.
func (r *Registry) Lookup(id string) (Specialist, bool) {
	s, ok := r.specialists[id]
	return s, ok
}

// BuildRegistry wires an expert-backed specialist for every configured
// domain plus the equipment-adequacy evaluator. provider may be nil.
func BuildRegistry(client expert.Client, cfg rules.Config, provider docs.Provider) *Registry {
	r := NewRegistry()
	for _, dom := range cfg.Domains {
		r.Register(dom.Specialist, &domainSpecialist{
			domain:      dom.ID,
			description: dom.Description,
			client:      client,
			provider:    provider,
		})
	}
	r.Register(rules.SpecialistPPEEvaluator, &ppeEvaluator{client: client})
	return r
}

// #endregion registry

// #region payload

// specialistPayload is the JSON schema every specialist prompt requests.
type specialistPayload struct {
	Risks           []Risk   `json:"risks"`
	PPE             []string `json:"ppe"`
	Controls        []string `json:"controls"`
	PermitsRequired []string `json:"permits_required"`
	Notes           string   `json:"notes"`
}

func (p specialistPayload) toResult(source string) Result {
	items := make([]ppe.Item, 0, len(p.PPE))
	for _, name := range p.PPE {
		if strings.TrimSpace(name) == "" {
			continue
		}
		items = append(items, ppe.Item{Name: name, Source: source})
	}
	return Result{
		Risks:           p.Risks,
		PPE:             items,
		Controls:        p.Controls,
		PermitsRequired: p.PermitsRequired,
		Notes:           p.Notes,
	}
}

// #endregion payload

// #region domain-specialist

// domainSpecialist asks the expert to evaluate one hazard domain in depth.
type domainSpecialist struct {
	domain      string
	description string
	client      expert.Client
	provider    docs.Provider
}

const specialistSchema = `Answer with JSON only:
{"risks": [{"type": "", "description": "", "severity": "critical|high|medium|low", "mitigations": []}],
 "ppe": [], "controls": [], "permits_required": [], "notes": ""}`

func (s *domainSpecialist) Evaluate(ctx context.Context, task Task) (Result, error) {
	if s.client == nil {
		return Result{}, fmt.Errorf("no expert client configured")
	}

	var documents []string
	if s.provider != nil {
		snippets, err := s.provider.Documents(ctx, docs.Query{
			Tenant: task.Permit.Tenant,
			Domain: s.domain,
			Text:   task.Permit.FlattenContent(),
		})
		if err == nil {
			documents = docs.Texts(snippets)
		}
	}

	system := fmt.Sprintf(`You are a safety specialist for this hazard domain: %s.
Evaluate the permit strictly within your domain. List concrete risks with
severity, the protective equipment required (with protection level or glove
type where relevant), the operational controls, and any additional permits
the work requires. %s`, s.description, specialistSchema)

	raw, err := s.client.Analyze(ctx, expert.Request{
		Domain:    s.domain,
		System:    system,
		Prompt:    "PERMIT:\n" + task.Permit.FlattenContent(),
		Documents: documents,
	})
	if err != nil {
		return Result{}, err
	}

	payload, err := expert.Decode[specialistPayload](raw)
	if err != nil {
		return Result{}, fmt.Errorf("specialist %s: %w", s.domain, err)
	}
	result := payload.toResult(s.domain)
	result.Raw = raw
	return result, nil
}

// #endregion domain-specialist

// #region ppe-evaluator

// ppeEvaluator judges whether the equipment already declared on the permit
// covers the work, and lists what is missing. It runs on every permit.
type ppeEvaluator struct {
	client expert.Client
}

func (s *ppeEvaluator) Evaluate(ctx context.Context, task Task) (Result, error) {
	if s.client == nil {
		return Result{}, fmt.Errorf("no expert client configured")
	}

	declared := "none declared"
	if len(task.Permit.ExistingPPE) > 0 {
		declared = strings.Join(task.Permit.ExistingPPE, "; ")
	}

	system := `You are a protective-equipment adequacy evaluator for work permits.
Compare the declared equipment against the described work and list the
missing or insufficient items. ` + specialistSchema

	raw, err := s.client.Analyze(ctx, expert.Request{
		Domain: rules.SpecialistPPEEvaluator,
		System: system,
		Prompt: "PERMIT:\n" + task.Permit.FlattenContent() + "\n\nDECLARED EQUIPMENT: " + declared,
	})
	if err != nil {
		return Result{}, err
	}

	payload, err := expert.Decode[specialistPayload](raw)
	if err != nil {
		return Result{}, fmt.Errorf("ppe evaluator: %w", err)
	}
	result := payload.toResult(rules.SpecialistPPEEvaluator)
	result.Raw = raw
	return result, nil
}

// #endregion ppe-evaluator
