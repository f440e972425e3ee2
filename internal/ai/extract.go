package ai

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractStructuredJSON pulls one JSON object out of model output. It accepts
// bare JSON, JSON inside a markdown code fence, and JSON surrounded by prose,
// and returns the object compacted.
func ExtractStructuredJSON(raw string) (json.RawMessage, error) {
	text := stripFence(strings.TrimSpace(raw))
	if text == "" {
		return nil, malformed("empty response", nil)
	}

	if doc, ok := compactObject(text); ok {
		return doc, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, malformed("no JSON object found", nil)
	}
	if doc, ok := compactObject(text[start : end+1]); ok {
		return doc, nil
	}
	return nil, malformed("response is not valid JSON", nil)
}

// stripFence removes a leading ``` or ```json line and a trailing ```.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(strings.TrimPrefix(text, "```json"), "```")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func compactObject(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !json.Valid([]byte(s)) {
		return nil, false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return nil, false
	}
	return json.RawMessage(buf.Bytes()), true
}
