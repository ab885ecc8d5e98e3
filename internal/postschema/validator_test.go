package postschema

import (
	"strings"
	"testing"
)

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"payload_version":"v1",
		"id":7,
		"title":"Hello",
		"body":"First post body.",
		"rendered_markup":"<p>First post body.</p>",
		"language":"en",
		"updated_at":"2026-02-14T10:00:00Z",
		"comments":[
			{"id":1,"content":"Nice post"},
			{"id":2,"parent_id":1,"content":"Agreed"}
		]
	}`)

	if err := Validate(payload); err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"payload_version":"v1","id":7,"title":"Hello","comments":[]}`)
	if err := Validate(payload); err == nil {
		t.Fatalf("expected validation to fail for missing body")
	}
}

func TestValidate_WhitespaceBody(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"payload_version":"v1","id":7,"title":"Hello","body":"   ","comments":[]}`)
	err := Validate(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for whitespace-only body")
	}
	if !strings.Contains(err.Error(), "body must not be empty") {
		t.Fatalf("expected body semantic error, got: %v", err)
	}
}

func TestValidate_CommentRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		comments string
		wantErr  string
	}{
		{
			name:     "duplicate id",
			comments: `[{"id":1,"content":"a"},{"id":1,"content":"b"}]`,
			wantErr:  "is duplicated",
		},
		{
			name:     "forward parent",
			comments: `[{"id":1,"parent_id":2,"content":"a"},{"id":2,"content":"b"}]`,
			wantErr:  "does not reference an earlier comment",
		},
		{
			name:     "too long",
			comments: `[{"id":1,"content":"` + strings.Repeat("x", 5001) + `"}]`,
			wantErr:  "schema validation failed",
		},
	}

	for _, tt := range tests {
		payload := []byte(`{"payload_version":"v1","id":7,"title":"Hello","body":"Body","comments":` + tt.comments + `}`)
		err := Validate(payload)
		if err == nil {
			t.Fatalf("%s: expected validation error", tt.name)
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Fatalf("%s: expected error containing %q, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestValidate_TrailingContent(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"payload_version":"v1","id":7,"title":"Hello","body":"Body","comments":[]} {}`)
	if err := Validate(payload); err == nil || !strings.Contains(err.Error(), "trailing content") {
		t.Fatalf("expected trailing content error, got %v", err)
	}
}
