// Package ai turns natural-language queries into validated Course and
// CareerPath documents through a generative-AI provider.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/validation"
)

// Chat history roles. "model" is accepted as an alias of RoleAssistant.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Gateway struct {
	provider Provider
	timeout  time.Duration
}

// NewGateway wraps provider. A positive timeout bounds every call on top of
// the provider's own http.Client timeout.
func NewGateway(provider Provider, timeout time.Duration) *Gateway {
	return &Gateway{provider: provider, timeout: timeout}
}

func (g *Gateway) ProviderName() string { return g.provider.Name() }

func (g *Gateway) GenerateCourse(ctx context.Context, query string) (*Course, error) {
	q, err := checkQuery(query)
	if err != nil {
		return nil, err
	}
	doc, err := g.structured(ctx, coursePrompt(q), 2048)
	if err != nil {
		return nil, err
	}
	return ParseCourse(doc)
}

// GenerateDetailedCourse is GenerateCourse with chapters and pages per module.
func (g *Gateway) GenerateDetailedCourse(ctx context.Context, query string) (*Course, error) {
	q, err := checkQuery(query)
	if err != nil {
		return nil, err
	}
	doc, err := g.structured(ctx, detailedCoursePrompt(q), 8192)
	if err != nil {
		return nil, err
	}
	return ParseDetailedCourse(doc)
}

func (g *Gateway) GenerateCareerPath(ctx context.Context, query string) (*CareerPath, error) {
	q, err := checkQuery(query)
	if err != nil {
		return nil, err
	}
	doc, err := g.structured(ctx, careerPathPrompt(q), 2048)
	if err != nil {
		return nil, err
	}
	return ParseCareerPath(doc)
}

// GenerateChatReply answers query in free text given the prior conversation.
func (g *Gateway) GenerateChatReply(ctx context.Context, query string, history []Message) (string, error) {
	q, err := checkQuery(query)
	if err != nil {
		return "", err
	}
	if len(history) > MaxHistoryEntries {
		return "", &ValidationError{Field: "history", Message: fmt.Sprintf("History can contain at most %d messages", MaxHistoryEntries)}
	}

	msgs := make([]Message, 0, len(history)+1)
	for i, m := range history {
		role, ok := normalizeRole(m.Role)
		if !ok {
			return "", &ValidationError{Field: "history", Message: fmt.Sprintf("History entry %d has unknown role %q", i, m.Role)}
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			return "", &ValidationError{Field: "history", Message: fmt.Sprintf("History entry %d is empty", i)}
		}
		msgs = append(msgs, Message{Role: role, Content: content})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: q})

	reply, err := g.complete(ctx, Request{
		System:      chatSystemPrompt,
		Messages:    msgs,
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", malformed("empty reply", nil)
	}
	return reply, nil
}

func (g *Gateway) structured(ctx context.Context, prompt string, maxTokens int) (json.RawMessage, error) {
	raw, err := g.complete(ctx, Request{
		System:      courseSystemPrompt,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		JSON:        true,
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, err
	}
	return ExtractStructuredJSON(raw)
}

func (g *Gateway) complete(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	text, err := g.provider.Complete(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return "", &TransportError{Provider: g.provider.Name(), Err: ctx.Err()}
		}
		return "", err
	}
	return text, nil
}

// ParseCourse decodes and validates a course document. Chapters are optional
// but must be well formed when present.
func ParseCourse(doc []byte) (*Course, error) {
	var c Course
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, malformed("course does not match schema", err)
	}
	if err := schemaValidator.Struct(c); err != nil {
		return nil, malformed("invalid course", err)
	}
	return &c, nil
}

// ParseDetailedCourse is ParseCourse plus chapter and page bounds on every module.
func ParseDetailedCourse(doc []byte) (*Course, error) {
	c, err := ParseCourse(doc)
	if err != nil {
		return nil, err
	}
	var errs validation.Errors
	for i, m := range c.Modules {
		if n := len(m.Chapters); n < MinChapters || n > MaxChapters {
			errs = append(errs, boundsError(fmt.Sprintf("modules[%d].chapters", i), n, MinChapters, MaxChapters))
		}
		for j, ch := range m.Chapters {
			if n := len(ch.Pages); n < MinPages || n > MaxPages {
				errs = append(errs, boundsError(fmt.Sprintf("modules[%d].chapters[%d].pages", i, j), n, MinPages, MaxPages))
			}
		}
	}
	if len(errs) > 0 {
		return nil, malformed("invalid course", errs)
	}
	return c, nil
}

// ParseCareerPath decodes and validates a career path. Each stage must hold
// between MinRolesPerStage and MaxRolesPerStage roles.
func ParseCareerPath(doc []byte) (*CareerPath, error) {
	var p CareerPath
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, malformed("career path does not match schema", err)
	}
	if err := schemaValidator.Struct(p); err != nil {
		return nil, malformed("invalid career path", err)
	}

	counts := make(map[Stage]int, len(Stages))
	for _, r := range p.Flowchart.Roles {
		counts[r.Stage]++
	}
	var errs validation.Errors
	for _, s := range Stages {
		if n := counts[s]; n < MinRolesPerStage || n > MaxRolesPerStage {
			errs = append(errs, boundsError(fmt.Sprintf("flowchart.roles[%s]", s), n, MinRolesPerStage, MaxRolesPerStage))
		}
	}
	if len(errs) > 0 {
		return nil, malformed("invalid career path", errs)
	}
	return &p, nil
}

var schemaValidator = validation.New()

func boundsError(field string, got, lo, hi int) validation.FieldError {
	return validation.FieldError{
		Field:   field,
		Rule:    "range",
		Message: fmt.Sprintf("%s must contain between %d and %d items, got %d", field, lo, hi, got),
	}
}

func checkQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", &ValidationError{Field: "query", Message: "Query is required"}
	}
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return "", &ValidationError{Field: "query", Message: fmt.Sprintf("Query must be at most %d characters", MaxQueryLength)}
	}
	return q, nil
}

func normalizeRole(role string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "user":
		return RoleUser, true
	case "assistant", "model":
		return RoleAssistant, true
	default:
		return "", false
	}
}
