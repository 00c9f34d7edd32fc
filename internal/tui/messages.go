package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/strrl/mdwriter/internal/document"
	"github.com/strrl/mdwriter/internal/markdown"
	"github.com/strrl/mdwriter/internal/recent"
)

// Message types for async operations
type (
	// parsedMsg carries a background parse of an editor's text
	parsedMsg struct {
		editor *EditorPane
		rev    uint64
		doc    *markdown.Document
	}

	// recentRecordedMsg reports the outcome of a recent documents update
	recentRecordedMsg struct {
		Path  string
		Error error
	}
)

// recordRecentCmd stores a session event in the recent documents list
func recordRecentCmd(ctx context.Context, store *recent.Store, ev document.Event) tea.Cmd {
	return func() tea.Msg {
		err := store.Touch(ctx, ev.Path, ev.Kind.String())
		return recentRecordedMsg{
			Path:  ev.Path,
			Error: err,
		}
	}
}
