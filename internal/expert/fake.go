package expert

// #region imports
import (
	"context"
	"fmt"
	"sync"
	"time"
)

// #endregion

// #region fake

// Fake is a scripted expert client for tests. Responses are keyed by
// domain; unscripted domains return an error so tests exercise fallbacks.
type Fake struct {
	mu        sync.Mutex
	Responses map[string]string
	Errors    map[string]error
	Delay     time.Duration
	calls     []Request
}

// Analyze returns the scripted response for the request's domain.
func (f *Fake) Analyze(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err, ok := f.Errors[req.Domain]; ok {
		return "", err
	}
	if resp, ok := f.Responses[req.Domain]; ok {
		return resp, nil
	}
	return "", fmt.Errorf("no scripted response for domain %q", req.Domain)
}

// Calls returns a copy of the requests seen so far.
func (f *Fake) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// #endregion fake
