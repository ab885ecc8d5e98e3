package markdown

import (
	"strings"
	"testing"
)

func TestRendererRender(t *testing.T) {
	t.Parallel()

	r := NewRenderer(Options{})
	got, err := r.Render("# Heading\n\nHello **world**")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include heading, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestCommentOptions(t *testing.T) {
	t.Parallel()

	r := NewRenderer(CommentOptions())

	got, err := r.Render("first line\nsecond line")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "<br") {
		t.Fatalf("expected hard wraps in comment HTML, got %q", got)
	}

	got, err = r.Render("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Render table: %v", err)
	}
	if !strings.Contains(got, "<table>") {
		t.Fatalf("expected GFM table, got %q", got)
	}

	got, err = r.Render("<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Render html: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("expected raw HTML to be dropped, got %q", got)
	}
}
