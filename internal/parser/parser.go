// Package parser extracts the table of contents headings from Markdown pages.
package parser

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	goldparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is one document heading and the anchor id a renderer gives it.
type Heading struct {
	Text  string
	ID    string
	Level int
}

// Extractor parses Markdown with GitHub-flavoured extensions and automatic
// heading ids. The zero value is not usable; call New.
type Extractor struct {
	md goldmark.Markdown
}

// New returns an Extractor. It holds no per-call state and can be shared.
func New() *Extractor {
	return &Extractor{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(goldparser.WithAutoHeadingID()),
		),
	}
}

// Headings returns the most significant headings of source in document
// order: only headings of the highest rank present are kept, so a page made
// of "##" sections lists those sections, and one with a "#" title lists only
// titles.
func (e *Extractor) Headings(source []byte) ([]Heading, error) {
	doc := e.md.Parser().Parse(text.NewReader(source))

	var all []Heading
	top := 0
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		all = append(all, Heading{
			Text:  string(h.Text(source)),
			ID:    headingID(h),
			Level: h.Level,
		})
		if top == 0 || h.Level < top {
			top = h.Level
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	var out []Heading
	for _, h := range all {
		if h.Level == top {
			out = append(out, h)
		}
	}
	return out, nil
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}
