package core

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns a model's raw markdown answer into display markup.
type Renderer interface {
	Render(text string) (string, error)
}

// RenderFunc adapts a plain function to Renderer.
type RenderFunc func(text string) (string, error)

func (f RenderFunc) Render(text string) (string, error) { return f(text) }

// HTMLRenderer renders markdown to HTML. Single newlines become <br> so
// model output keeps its line structure.
type HTMLRenderer struct {
	md goldmark.Markdown
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

func (r *HTMLRenderer) Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TerminalRenderer renders markdown to ANSI-styled text for the TUI.
type TerminalRenderer struct {
	tr *glamour.TermRenderer
}

// NewTerminalRenderer builds a renderer wrapping at width using one of
// glamour's standard styles ("dark" when style is empty).
func NewTerminalRenderer(width int, style string) (*TerminalRenderer, error) {
	if style == "" {
		style = "dark"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &TerminalRenderer{tr: tr}, nil
}

func (r *TerminalRenderer) Render(text string) (string, error) {
	out, err := r.tr.Render(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
