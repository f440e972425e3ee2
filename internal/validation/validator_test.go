package validation

import (
	"errors"
	"strings"
	"testing"
)

type signup struct {
	FullName string   `json:"fullName" validate:"required,max=10"`
	Email    string   `json:"email" validate:"required,email"`
	Tags     []string `json:"tags" validate:"min=2,max=3,unique"`
	Level    string   `json:"level" validate:"omitempty,oneof=Beginner Advanced"`
}

func TestStructValid(t *testing.T) {
	v := New()
	if err := v.Struct(signup{FullName: "Ada", Email: "ada@example.com", Tags: []string{"a", "b"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Struct(signup{FullName: "", Email: "nope", Tags: []string{"a"}, Level: "Expert"})
	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected Errors, got %T %v", err, err)
	}

	want := map[string]string{
		"fullName": "required",
		"email":    "email",
		"tags":     "min",
		"level":    "oneof",
	}
	if len(verrs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(verrs), len(want), verrs)
	}
	for _, fe := range verrs {
		if want[fe.Field] != fe.Rule {
			t.Errorf("field %q failed %q, want %q", fe.Field, fe.Rule, want[fe.Field])
		}
	}
	if !strings.Contains(err.Error(), "tags must contain at least 2 items") {
		t.Errorf("message missing list wording: %q", err.Error())
	}
}

func TestStructUnique(t *testing.T) {
	err := New().Struct(signup{FullName: "Ada", Email: "a@b.co", Tags: []string{"x", "x"}})
	if err == nil || !strings.Contains(err.Error(), "duplicates") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}
