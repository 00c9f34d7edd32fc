package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/strrl/mdwriter/internal/document"
	"github.com/strrl/mdwriter/internal/markdown"
)

// PreviewPane renders the parsed document of a tab. It implements
// document.Preview.
type PreviewPane struct {
	viewport viewport.Model
	renderer *markdown.Renderer
	doc      *markdown.Document
	updates  int
}

// NewPreviewPane creates an empty preview.
func NewPreviewPane(renderer *markdown.Renderer) *PreviewPane {
	return &PreviewPane{
		viewport: viewport.New(0, 0),
		renderer: renderer,
	}
}

// Bind re-renders on every document published on sig.
func (p *PreviewPane) Bind(sig *document.Signal) func() {
	return sig.Subscribe(func(v any) {
		doc, ok := v.(*markdown.Document)
		if !ok {
			return
		}
		p.doc = doc
		p.updates++
		p.refresh()
	})
}

// SetSize resizes the preview and re-renders at the new width.
func (p *PreviewPane) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	p.refresh()
}

// Document returns the document currently shown.
func (p *PreviewPane) Document() *markdown.Document {
	return p.doc
}

func (p *PreviewPane) refresh() {
	p.viewport.SetContent(p.renderer.Render(p.doc, p.viewport.Width))
}

// Update scrolls the preview.
func (p *PreviewPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *PreviewPane) View() string {
	return p.viewport.View()
}
