package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletions talks to OpenAI-compatible chat/completions endpoints
// (GLM, DeepSeek, OpenAI).
type ChatCompletions struct {
	name   string
	url    string
	apiKey string
	model  string
	client *http.Client
}

func NewChatCompletions(name, url, apiKey, model string, client *http.Client) *ChatCompletions {
	return &ChatCompletions{name: name, url: url, apiKey: apiKey, model: model, client: client}
}

func (p *ChatCompletions) Name() string { return p.name }

func (p *ChatCompletions) Complete(ctx context.Context, r Request) (string, error) {
	msgs := make([]chatMessage, 0, len(r.Messages)+1)
	if r.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: r.System})
	}
	for _, m := range r.Messages {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	payload := chatRequest{
		Model:       p.model,
		Messages:    msgs,
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
	}
	if r.JSON {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	req, err := newJSONRequest(ctx, p.url, p.name, payload)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	body, err := doJSON(p.client, req, p.name)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", malformed("unreadable provider envelope", err)
	}
	if len(resp.Choices) == 0 {
		return "", malformed("empty response from provider", nil)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
