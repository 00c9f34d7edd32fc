// Package markdown parses Markdown with goldmark and renders the result
// for the terminal.
package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Document is a parsed Markdown source. Root refers into Source, so the
// two always travel together.
type Document struct {
	Source []byte
	Root   ast.Node
}

// Parser turns Markdown text into a Document.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a parser with the GitHub flavoured extensions.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Parse parses src. Markdown has no syntax errors, so it always succeeds.
func (p *Parser) Parse(src string) *Document {
	source := []byte(src)
	root := p.md.Parser().Parse(text.NewReader(source))
	return &Document{Source: source, Root: root}
}

// ParseAny is Parse with a signature that fits document.ParseFunc.
func (p *Parser) ParseAny(src string) any {
	return p.Parse(src)
}

// Heading is one entry of a document outline.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Outline lists the headings of doc in source order.
func Outline(doc *Document) []Heading {
	if doc == nil || doc.Root == nil {
		return nil
	}
	var headings []Heading
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		heading := Heading{Level: h.Level, Text: plainText(h, doc.Source)}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				heading.ID = string(b)
			}
		}
		headings = append(headings, heading)
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// Dump writes the node tree of doc to w, one node per line.
func Dump(w io.Writer, doc *Document) error {
	if doc == nil || doc.Root == nil {
		return nil
	}
	depth := 0
	return ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			depth--
			return ast.WalkContinue, nil
		}
		line := strings.Repeat("  ", depth) + n.Kind().String()
		switch n := n.(type) {
		case *ast.Heading:
			line += fmt.Sprintf(" level=%d", n.Level)
		case *ast.List:
			line += fmt.Sprintf(" ordered=%t tight=%t", n.IsOrdered(), n.IsTight)
		case *ast.Text:
			line += fmt.Sprintf(" %q", n.Segment.Value(doc.Source))
		case *ast.Link:
			line += fmt.Sprintf(" destination=%q", n.Destination)
		case *ast.FencedCodeBlock:
			if lang := n.Language(doc.Source); lang != nil {
				line += fmt.Sprintf(" language=%q", lang)
			}
		}
		depth++
		_, err := fmt.Fprintln(w, line)
		return ast.WalkContinue, err
	})
}

// plainText concatenates the text of every inline under n.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
