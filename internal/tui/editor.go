package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/strrl/mdwriter/internal/document"
	"github.com/strrl/mdwriter/internal/markdown"
)

// EditorPane is the editing surface of a tab. It implements
// document.Editor.
type EditorPane struct {
	area   textarea.Model
	text   string
	parser *markdown.Parser
	parsed *document.Signal
}

// NewEditorPane creates an empty, focused editor.
func NewEditorPane(parser *markdown.Parser) *EditorPane {
	area := textarea.New()
	area.CharLimit = 0
	area.MaxHeight = 0
	area.ShowLineNumbers = true
	area.Placeholder = "Start writing..."
	area.Focus()

	return &EditorPane{
		area:   area,
		parser: parser,
		parsed: document.NewSignal(),
	}
}

// SetContent replaces the text and publishes its parse synchronously.
func (e *EditorPane) SetContent(text string) {
	e.text = text
	e.area.SetValue(text)
	e.parsed.Publish(e.parser.Parse(text))
}

// Content returns the document text. Until the user edits, this is the
// exact text passed to SetContent, even where the text area normalizes
// what it displays.
func (e *EditorPane) Content() string {
	return e.text
}

func (e *EditorPane) Parsed() *document.Signal {
	return e.parsed
}

// SetSize resizes the text area.
func (e *EditorPane) SetSize(width, height int) {
	e.area.SetWidth(width)
	e.area.SetHeight(height)
}

// Update forwards msg to the text area. When the text changed, the
// returned command parses it in the background.
func (e *EditorPane) Update(msg tea.Msg) tea.Cmd {
	before := e.area.Value()

	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)

	after := e.area.Value()
	if after == before {
		return cmd
	}
	e.text = after
	return tea.Batch(cmd, e.parseCmd(after))
}

func (e *EditorPane) parseCmd(text string) tea.Cmd {
	rev := e.parsed.Next()
	parser := e.parser
	return func() tea.Msg {
		return parsedMsg{
			editor: e,
			rev:    rev,
			doc:    parser.Parse(text),
		}
	}
}

// apply publishes a background parse unless a newer one already landed.
func (e *EditorPane) apply(msg parsedMsg) bool {
	return e.parsed.PublishAt(msg.rev, msg.doc)
}

func (e *EditorPane) View() string {
	return e.area.View()
}
