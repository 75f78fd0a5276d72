package expert

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// #endregion

// #region types

// HTTPClient talks JSON to a chat-completions endpoint. The transport is
// injectable so tests can point it at a local server.
type HTTPClient struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// #endregion types

// #region constructor

// NewHTTPClient builds a client for the given chat-completions endpoint.
func NewHTTPClient(endpoint, model, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// NewHTTPClientWithTransport injects the underlying *http.Client.
// Used for testing against httptest servers.
func NewHTTPClientWithTransport(endpoint, model string, hc *http.Client) *HTTPClient {
	return &HTTPClient{endpoint: endpoint, model: model, http: hc}
}

// #endregion constructor

// #region analyze

// Analyze sends one chat-completions request and returns the raw assistant
// message text.
func (c *HTTPClient) Analyze(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if len(req.Documents) > 0 {
		prompt += "\n\nREFERENCE DOCUMENTS:\n" + strings.Join(req.Documents, "\n---\n")
	}

	body := chatRequest{
		Model:       c.model,
		Temperature: 0.1,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: prompt},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal expert request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build expert request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("expert call %s: %w", req.Domain, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read expert response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("expert call %s: status %d: %s", req.Domain, resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse expert response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("expert call %s: %s", req.Domain, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("expert call %s: empty response", req.Domain)
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// #endregion analyze
