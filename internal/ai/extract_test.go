package ai

import (
	"errors"
	"testing"
)

func TestExtractStructuredJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare", `{"a":1}`},
		{"bare with whitespace", "\n  { \"a\" : 1 }\n"},
		{"json fence", "```json\n{\"a\": 1}\n```"},
		{"plain fence", "```\n{\"a\": 1}\n```"},
		{"prose", `Sure! Here is your result: {"a": 1} Hope this helps.`},
		{"prose around fence", "Here you go:\n```json\n{\"a\": 1}\n```\nEnjoy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractStructuredJSON(tt.raw)
			if err != nil {
				t.Fatalf("ExtractStructuredJSON(%q) error: %v", tt.raw, err)
			}
			if string(got) != `{"a":1}` {
				t.Errorf("got %s, want {\"a\":1}", got)
			}
		})
	}
}

func TestExtractStructuredJSONMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"no json here at all",
		"} backwards {",
		`{"a": 1`,
		"[1, 2, 3]",
		"```json\n```",
	} {
		_, err := ExtractStructuredJSON(raw)
		var mErr *MalformedResponseError
		if !errors.As(err, &mErr) {
			t.Errorf("ExtractStructuredJSON(%q) = %v, want MalformedResponseError", raw, err)
		}
	}
}

func TestExtractStructuredJSONNested(t *testing.T) {
	raw := "The course:\n{\"title\":\"Go\",\"modules\":[{\"title\":\"m1\"}]}\nThat's all."
	got, err := ExtractStructuredJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"title":"Go","modules":[{"title":"m1"}]}` {
		t.Errorf("got %s", got)
	}
}
