package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/config"
)

// Request is one completion call. Messages alternate user and assistant turns
// and end with the user's latest message.
type Request struct {
	System      string
	Messages    []Message
	JSON        bool
	Temperature float64
	MaxTokens   int
}

// Provider sends a completion request and returns the model's text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// NewProvider builds the client for the configured provider.
func NewProvider(p config.ProviderSettings, timeout time.Duration) (Provider, error) {
	client := &http.Client{Timeout: timeout}
	switch p.Name {
	case config.ProviderGemini:
		return NewGemini(p.APIURL, p.APIKey, p.Model, client), nil
	case config.ProviderGLM, config.ProviderDeepSeek, config.ProviderOpenAI:
		return NewChatCompletions(p.Name, p.APIURL, p.APIKey, p.Model, client), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", p.Name)
	}
}

const maxErrorBody = 512

// doJSON posts body and returns the raw response body. Network failures
// become TransportError and non-2xx statuses become UpstreamHTTPError.
// newJSONRequest builds a POST carrying payload as JSON. Encoding and URL
// errors surface as TransportError.
func newJSONRequest(ctx context.Context, url, provider string, payload interface{}) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: fmt.Errorf("encode request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: fmt.Errorf("build request: %w", err)}
	}
	return req, nil
}

func doJSON(client *http.Client, req *http.Request, provider string) ([]byte, error) {
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &UpstreamHTTPError{Provider: provider, StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, nil
}
