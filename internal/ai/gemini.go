package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Gemini calls the Generative Language generateContent endpoint.
type Gemini struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewGemini(baseURL, apiKey, model string, client *http.Client) *Gemini {
	return &Gemini{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model, client: client}
}

func (p *Gemini) Name() string { return "gemini" }

func (p *Gemini) Complete(ctx context.Context, r Request) (string, error) {
	payload := geminiRequest{
		GenerationConfig: geminiGenerationConfig{
			Temperature:     r.Temperature,
			MaxOutputTokens: r.MaxTokens,
		},
	}
	if r.System != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: r.System}}}
	}
	if r.JSON {
		payload.GenerationConfig.ResponseMimeType = "application/json"
	}
	for _, m := range r.Messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		payload.Contents = append(payload.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)
	req, err := newJSONRequest(ctx, url, p.Name(), payload)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", p.apiKey)

	body, err := doJSON(p.client, req, p.Name())
	if err != nil {
		return "", err
	}

	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", malformed("unreadable provider envelope", err)
	}
	if resp.PromptFeedback.BlockReason != "" {
		return "", malformed("prompt blocked: "+resp.PromptFeedback.BlockReason, nil)
	}
	if len(resp.Candidates) == 0 {
		return "", malformed("empty response from provider", nil)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
