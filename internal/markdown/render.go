package markdown

import (
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	"github.com/muesli/reflow/wordwrap"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

const (
	defaultWidth = 80
	minWidth     = 10
)

// Styles holds the lipgloss styles used by the Renderer.
type Styles struct {
	Heading   lipgloss.Style
	Subhead   lipgloss.Style
	Emphasis  lipgloss.Style
	Strong    lipgloss.Style
	Strike    lipgloss.Style
	Code      lipgloss.Style
	CodeBlock lipgloss.Style
	Link      lipgloss.Style
	Quote     lipgloss.Style
	Muted     lipgloss.Style
	Rule      lipgloss.Style
}

// DefaultStyles returns the dark terminal palette.
func DefaultStyles() Styles {
	return Styles{
		Heading:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		Subhead:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Emphasis:  lipgloss.NewStyle().Italic(true),
		Strong:    lipgloss.NewStyle().Bold(true),
		Strike:    lipgloss.NewStyle().Strikethrough(true),
		Code:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		CodeBlock: lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		Link:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		Quote:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Rule:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

// Renderer turns a parsed Document into styled terminal text. Embedded
// HTML is reduced to its text content.
type Renderer struct {
	styles    Styles
	sanitizer *bluemonday.Policy
}

// NewRenderer creates a renderer with the default styles.
func NewRenderer() *Renderer {
	return NewRendererWithStyles(DefaultStyles())
}

// NewRendererWithStyles creates a renderer with custom styles.
func NewRendererWithStyles(styles Styles) *Renderer {
	return &Renderer{
		styles:    styles,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Render renders doc wrapped to width columns.
func (r *Renderer) Render(doc *Document, width int) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	if width < minWidth {
		width = minWidth
	}
	return strings.Join(r.blocks(doc.Root, doc.Source, width), "\n\n")
}

func (r *Renderer) blocks(parent ast.Node, src []byte, width int) []string {
	var out []string
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if s := r.block(n, src, width); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *Renderer) block(n ast.Node, src []byte, width int) string {
	// Nested quotes and lists narrow the width at every level.
	width = max(width, 1)

	switch n := n.(type) {
	case *ast.Heading:
		return r.heading(n, src, width)

	case *ast.Paragraph, *ast.TextBlock:
		return wordwrap.String(r.inline(n, src), width)

	case *ast.Blockquote:
		inner := strings.Join(r.blocks(n, src, width-2), "\n\n")
		return prefixLines(inner, r.styles.Quote.Render("│ "), r.styles.Quote.Render("│ "))

	case *ast.List:
		return r.list(n, src, width)

	case *ast.FencedCodeBlock:
		var header string
		if lang := n.Language(src); lang != nil {
			header = r.styles.Muted.Render(string(lang)) + "\n"
		}
		return header + r.codeLines(n, src)

	case *ast.CodeBlock:
		return r.codeLines(n, src)

	case *ast.ThematicBreak:
		return r.styles.Rule.Render(strings.Repeat("─", max(0, width)))

	case *ast.HTMLBlock:
		var b strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		if n.HasClosure() {
			b.Write(n.ClosureLine.Value(src))
		}
		text := strings.TrimSpace(r.stripTags(b.String()))
		if text == "" {
			return ""
		}
		return r.styles.Muted.Render(wordwrap.String(text, width))

	case *east.Table:
		return r.table(n, src)
	}

	return strings.Join(r.blocks(n, src, width), "\n\n")
}

func (r *Renderer) heading(n *ast.Heading, src []byte, width int) string {
	text := wordwrap.String(r.inline(n, src), width)
	switch n.Level {
	case 1:
		underline := strings.Repeat("═", max(0, min(lipgloss.Width(text), width)))
		return r.styles.Heading.Render(text) + "\n" + r.styles.Heading.Render(underline)
	case 2:
		underline := strings.Repeat("─", max(0, min(lipgloss.Width(text), width)))
		return r.styles.Subhead.Render(text) + "\n" + r.styles.Subhead.Render(underline)
	}
	return r.styles.Subhead.Render(text)
}

func (r *Renderer) list(n *ast.List, src []byte, width int) string {
	sep := "\n"
	if !n.IsTight {
		sep = "\n\n"
	}

	var items []string
	i := 0
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n.Start+i)
		}
		indent := strings.Repeat(" ", lipgloss.Width(marker))
		body := strings.Join(r.blocks(item, src, width-len(indent)), sep)
		items = append(items, prefixLines(body, marker, indent))
		i++
	}
	return strings.Join(items, sep)
}

func (r *Renderer) codeLines(n ast.Node, src []byte) string {
	var out []string
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(src)), "\r\n")
		out = append(out, r.styles.CodeBlock.Render("  "+line+"  "))
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) table(n *east.Table, src []byte) string {
	var rows [][]string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, r.inline(cell, src))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}

	var widths []int
	for _, cells := range rows {
		for i, cell := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var out []string
	for ri, cells := range rows {
		padded := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			padded[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		line := strings.Join(padded, " │ ")
		if ri == 0 {
			line = r.styles.Strong.Render(line)
		}
		out = append(out, line)
		if ri == 0 {
			rules := make([]string, len(widths))
			for i, w := range widths {
				rules[i] = strings.Repeat("─", w)
			}
			out = append(out, r.styles.Rule.Render(strings.Join(rules, "─┼─")))
		}
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) inline(parent ast.Node, src []byte) string {
	var b strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		r.inlineNode(&b, c, src)
	}
	return b.String()
}

func (r *Renderer) inlineNode(b *strings.Builder, n ast.Node, src []byte) {
	switch n := n.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(src))
		if n.HardLineBreak() {
			b.WriteByte('\n')
		} else if n.SoftLineBreak() {
			b.WriteByte(' ')
		}

	case *ast.String:
		b.Write(n.Value)

	case *ast.CodeSpan:
		b.WriteString(r.styles.Code.Render(plainText(n, src)))

	case *ast.Emphasis:
		style := r.styles.Emphasis
		if n.Level >= 2 {
			style = r.styles.Strong
		}
		b.WriteString(style.Render(r.inline(n, src)))

	case *ast.Link:
		label := r.inline(n, src)
		b.WriteString(r.styles.Link.Render(label))
		if dest := string(n.Destination); dest != "" && dest != plainText(n, src) {
			b.WriteString(r.styles.Muted.Render(" (" + dest + ")"))
		}

	case *ast.AutoLink:
		b.WriteString(r.styles.Link.Render(string(n.URL(src))))

	case *ast.Image:
		b.WriteString(r.styles.Muted.Render("[image: " + plainText(n, src) + "]"))

	case *ast.RawHTML:
		// Inline tags have no text of their own; the text between an
		// opening and closing tag is a sibling Text node.

	case *east.Strikethrough:
		b.WriteString(r.styles.Strike.Render(r.inline(n, src)))

	case *east.TaskCheckBox:
		if n.IsChecked {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}

	default:
		b.WriteString(r.inline(n, src))
	}
}

// stripTags removes every tag from s and leaves the text.
func (r *Renderer) stripTags(s string) string {
	return html.UnescapeString(r.sanitizer.Sanitize(s))
}

// prefixLines puts first before the first line of s and rest before
// every following line.
func prefixLines(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = first + line
		} else {
			lines[i] = rest + line
		}
	}
	return strings.Join(lines, "\n")
}
