package dispatch

// #region imports
import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/permitsafe/go-analyzer/internal/activation"
	"github.com/permitsafe/go-analyzer/internal/permit"
	"github.com/permitsafe/go-analyzer/internal/ppe"
)

// #endregion

// #region status

// Status is the terminal state of one specialist evaluation.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusTimedOut Status = "timed_out"
)

// #endregion status

// #region types

// Risk is one hazard identified by a specialist.
type Risk struct {
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Mitigations []string `json:"mitigations,omitempty"`
}

// Result is the complete output of one specialist evaluation. A failed or
// timed-out evaluation still produces a Result, with fallback content.
type Result struct {
	Specialist      string        `json:"specialist"`
	Domain          string        `json:"domain"`
	Status          Status        `json:"status"`
	Risks           []Risk        `json:"risks,omitempty"`
	PPE             []ppe.Item    `json:"ppe,omitempty"`
	Controls        []string      `json:"controls,omitempty"`
	PermitsRequired []string      `json:"permits_required,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Raw             string        `json:"raw,omitempty"`
	Elapsed         time.Duration `json:"elapsed"`
}

// Task is one unit of specialist work.
type Task struct {
	Permit   permit.Record
	Decision activation.Decision
}

// Specialist evaluates one permit for its hazard domain.
type Specialist interface {
	Evaluate(ctx context.Context, task Task) (Result, error)
}

// #endregion types

// #region dispatcher

// Dispatcher fans activated specialists out concurrently, bounded by a
// weighted semaphore, and joins all results. One attempt per specialist
// per run; failures become fallback results and never block siblings.
type Dispatcher struct {
	registry    *Registry
	taskTimeout time.Duration
	maxParallel int64
}

// NewDispatcher builds a Dispatcher. maxParallel <= 0 means unbounded
// within the task count; taskTimeout <= 0 disables per-task deadlines.
func NewDispatcher(registry *Registry, taskTimeout time.Duration, maxParallel int) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		taskTimeout: taskTimeout,
		maxParallel: int64(maxParallel),
	}
}

// #endregion dispatcher

// #region dispatch

// Dispatch runs every activated decision's specialist and returns one
// Result per decision, in decision order.
func (d *Dispatcher) Dispatch(ctx context.Context, rec permit.Record, decisions []activation.Decision) []Result {
	active := activation.Activated(decisions)
	results := make([]Result, len(active))

	limit := d.maxParallel
	if limit <= 0 {
		limit = int64(len(active)) + 1
	}
	sem := semaphore.NewWeighted(limit)

	var wg sync.WaitGroup
	for i, dec := range active {
		wg.Add(1)
		go func(slot int, dec activation.Decision) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[slot] = fallbackResult(dec, StatusFailed, err)
				return
			}
			defer sem.Release(1)
			results[slot] = d.runOne(ctx, Task{Permit: rec, Decision: dec})
		}(i, dec)
	}
	wg.Wait()

	return results
}

func (d *Dispatcher) runOne(ctx context.Context, task Task) Result {
	dec := task.Decision

	spec, ok := d.registry.Lookup(dec.Specialist)
	if !ok {
		log.Printf("[Dispatch] %s: no specialist registered", dec.Specialist)
		return fallbackResult(dec, StatusFailed, errors.New("specialist not registered"))
	}

	taskCtx := ctx
	if d.taskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, d.taskTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := spec.Evaluate(taskCtx, task)
	elapsed := time.Since(start)

	if err != nil {
		status := StatusFailed
		if errors.Is(err, context.DeadlineExceeded) {
			status = StatusTimedOut
		}
		log.Printf("[Dispatch] %s: %s after %s: %v", dec.Specialist, status, elapsed.Round(time.Millisecond), err)
		fb := fallbackResult(dec, status, err)
		fb.Elapsed = elapsed
		return fb
	}

	result.Specialist = dec.Specialist
	result.Domain = dec.Domain
	result.Status = StatusSuccess
	result.Elapsed = elapsed
	log.Printf("[Dispatch] %s: success in %s (%d risks, %d ppe items)",
		dec.Specialist, elapsed.Round(time.Millisecond), len(result.Risks), len(result.PPE))
	return result
}

// #endregion dispatch

// #region fallback

// fallbackResult substitutes a conservative placeholder when a specialist
// cannot answer: the hazard is flagged for manual evaluation with baseline
// controls rather than silently dropped.
func fallbackResult(dec activation.Decision, status Status, cause error) Result {
	return Result{
		Specialist: dec.Specialist,
		Domain:     dec.Domain,
		Status:     status,
		Risks: []Risk{{
			Type:        "manual_review",
			Description: "Automated evaluation unavailable for domain " + dec.Domain + ", manual specialist review required",
			Severity:    "high",
		}},
		Controls: []string{
			"Manual review by a qualified " + dec.Domain + " specialist before work starts",
			"Do not authorize the permit on automated analysis alone",
		},
		Notes: "fallback: " + cause.Error(),
	}
}

// #endregion fallback
