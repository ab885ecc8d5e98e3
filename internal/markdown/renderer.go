// Package markdown renders post and comment Markdown into HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options selects renderer behaviour. The zero value escapes raw HTML and
// keeps soft line breaks.
type Options struct {
	HardWraps  bool
	AllowHTML  bool
	Extensions []goldmark.Extender
}

// CommentOptions mirrors how comments are displayed: tables, fenced code and
// newline-to-<br>, with raw HTML escaped.
func CommentOptions() Options {
	return Options{
		HardWraps:  true,
		Extensions: []goldmark.Extender{extension.GFM},
	}
}

// Renderer converts Markdown to HTML. It holds a single goldmark engine and is
// safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

func NewRenderer(opts Options) *Renderer {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.AllowHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if len(opts.Extensions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(opts.Extensions...))
	}

	return &Renderer{engine: goldmark.New(engineOptions...)}
}

// Render returns the HTML for src.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}
