package expert

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// #endregion

// #region request

// Request is one question to a domain expert. Documents carry optional
// supporting snippets already filtered by the docs provider.
type Request struct {
	Domain    string
	System    string
	Prompt    string
	Documents []string
}

// #endregion request

// #region client

// Client answers free-form expert requests. Implementations must honor the
// context deadline; the raw response text is decoded by the caller.
type Client interface {
	Analyze(ctx context.Context, req Request) (string, error)
}

// #endregion client

// #region decode

// Decode extracts a JSON document of type T from raw model output. Models
// often wrap the payload in markdown fences or surrounding prose; Decode
// strips fences and falls back to the outermost brace pair.
func Decode[T any](raw string) (T, error) {
	var out T

	text := strings.TrimSpace(raw)
	if i := strings.Index(text, "```"); i >= 0 {
		text = text[i+3:]
		text = strings.TrimPrefix(text, "json")
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	}
	text = strings.TrimSpace(text)

	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return out, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return out, fmt.Errorf("no JSON object in expert response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return out, fmt.Errorf("decode expert response: %w", err)
	}
	return out, nil
}

// #endregion decode
