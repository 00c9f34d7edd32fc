package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/strrl/mdwriter/internal/document"
	"github.com/strrl/mdwriter/internal/markdown"
	"github.com/strrl/mdwriter/internal/recent"
	"go.uber.org/zap"
)

// Options configures the editor program.
type Options struct {
	// Paths are opened as tabs; the first one is selected.
	Paths []string
	// Recent, when set, records loaded and saved documents.
	Recent *recent.Store
	Logger *zap.Logger
	// Store defaults to the local file system.
	Store document.FileStore
}

type promptKind int

const (
	promptNone promptKind = iota
	promptOpen
	promptSaveAs
)

// tab pairs a session with the concrete panes it creates on activation.
type tab struct {
	session *document.Session
	editor  *EditorPane
	preview *PreviewPane
}

// shared is the state every copy of the model points to.
type shared struct {
	ctx      context.Context
	parser   *markdown.Parser
	renderer *markdown.Renderer
	alerts   *alertQueue
	store    document.FileStore
	recent   *recent.Store
	log      *zap.Logger
	pending  []document.Event
}

type model struct {
	*shared
	tabs   []*tab
	active int
	keys   keyMap

	prompt     promptKind
	input      textinput.Model
	status     string
	ready      bool
	width      int
	height     int
	bodyHeight int
}

func initialModel(opts Options) model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Store == nil {
		opts.Store = document.OSFileStore{}
	}

	input := textinput.New()
	input.CharLimit = 0

	m := model{
		shared: &shared{
			ctx:      context.Background(),
			parser:   markdown.NewParser(),
			renderer: markdown.NewRenderer(),
			alerts:   &alertQueue{},
			store:    opts.Store,
			recent:   opts.Recent,
			log:      opts.Logger,
		},
		active: -1,
		keys:   defaultKeyMap(),
		input:  input,
	}

	for _, path := range opts.Paths {
		m.addTab(absPath(path))
	}
	if len(m.tabs) == 0 {
		m.addTab("")
	}
	m.selectTab(0)
	return m
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// addTab appends a tab without activating it.
func (m *model) addTab(path string) int {
	sh := m.shared
	t := &tab{}
	t.session = document.New(path, document.Options{
		NewEditor: func() document.Editor {
			t.editor = NewEditorPane(sh.parser)
			return t.editor
		},
		NewPreview: func() document.Preview {
			t.preview = NewPreviewPane(sh.renderer)
			return t.preview
		},
		Store:    sh.store,
		Reporter: sh.alerts,
		Logger:   sh.log,
		OnEvent:  sh.onEvent,
	})
	m.tabs = append(m.tabs, t)
	return len(m.tabs) - 1
}

func (s *shared) onEvent(ev document.Event) {
	s.pending = append(s.pending, ev)
}

// selectTab makes the tab at index the visible one and activates its
// session on first view.
func (m *model) selectTab(index int) {
	if index < 0 || index >= len(m.tabs) {
		return
	}
	m.active = index
	t := m.tabs[index]
	t.session.Activate()
	m.layoutTab(t)
}

func (m *model) activeTab() *tab {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

// findTab returns the index of the tab showing path, or -1.
func (m *model) findTab(path string) int {
	for i, t := range m.tabs {
		if t.session.Path() != "" && t.session.Path() == path {
			return i
		}
	}
	return -1
}

func (m *model) openPath(path string) {
	path = absPath(path)
	if i := m.findTab(path); i >= 0 {
		m.selectTab(i)
		return
	}
	m.selectTab(m.addTab(path))
}

func (m *model) closeTab(index int) {
	if index < 0 || index >= len(m.tabs) {
		return
	}
	m.tabs[index].session.Close()
	m.tabs = append(m.tabs[:index], m.tabs[index+1:]...)

	switch {
	case len(m.tabs) == 0:
		m.active = -1
		return
	case index < m.active:
		m.active--
	case m.active >= len(m.tabs):
		m.active = len(m.tabs) - 1
	}
	m.selectTab(m.active)
}

func (m *model) paneSizes() (editorWidth, previewWidth, height int) {
	editorWidth = m.width/2 - 1
	previewWidth = m.width - editorWidth - 1
	return editorWidth, previewWidth, m.bodyHeight
}

func (m *model) layoutTab(t *tab) {
	if !m.ready || t.editor == nil || t.preview == nil {
		return
	}
	ew, pw, h := m.paneSizes()
	t.editor.SetSize(ew, h)
	t.preview.SetSize(pw, h)
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bodyHeight = max(msg.Height-3, 1)
		m.ready = true
		for _, t := range m.tabs {
			m.layoutTab(t)
		}
		m.input.Width = max(m.width-20, 10)

	case parsedMsg:
		msg.editor.apply(msg)

	case recentRecordedMsg:
		if msg.Error != nil {
			m.log.Warn("failed to record recent document", zap.String("path", msg.Path), zap.Error(msg.Error))
		}

	case tea.KeyMsg:
		if m.alerts.Len() > 0 {
			m.alerts.dismiss()
			return m, nil
		}
		if m.prompt != promptNone {
			cmds = append(cmds, m.updatePrompt(msg))
			break
		}
		if cmd, handled := m.handleKey(msg); handled {
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			break
		}
		if t := m.activeTab(); t != nil && t.editor != nil {
			cmds = append(cmds, t.editor.Update(msg))
		}

	case tea.MouseMsg:
		if t := m.activeTab(); t != nil && t.preview != nil {
			cmds = append(cmds, t.preview.Update(msg))
		}

	default:
		if t := m.activeTab(); t != nil && t.editor != nil {
			cmds = append(cmds, t.editor.Update(msg))
		}
	}

	cmds = append(cmds, m.drainEvents()...)
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keys.New):
		m.selectTab(m.addTab(""))
		m.status = ""

	case key.Matches(msg, m.keys.Open):
		return m.startPrompt(promptOpen, ""), true

	case key.Matches(msg, m.keys.Save):
		t := m.activeTab()
		if t == nil {
			return nil, true
		}
		if t.session.Path() == "" {
			return m.startPrompt(promptSaveAs, ""), true
		}
		if t.session.Save() {
			m.status = "Saved " + t.session.DisplayName()
		}

	case key.Matches(msg, m.keys.SaveAs):
		t := m.activeTab()
		if t == nil {
			return nil, true
		}
		return m.startPrompt(promptSaveAs, t.session.Path()), true

	case key.Matches(msg, m.keys.Close):
		m.closeTab(m.active)
		m.status = ""

	case key.Matches(msg, m.keys.Reload):
		if t := m.activeTab(); t != nil && t.session.Path() != "" {
			t.session.Load()
			if t.session.LoadErr() == nil {
				m.status = "Reloaded " + t.session.DisplayName()
			}
		}

	case key.Matches(msg, m.keys.NextTab):
		if len(m.tabs) > 1 {
			m.selectTab((m.active + 1) % len(m.tabs))
		}

	case key.Matches(msg, m.keys.PrevTab):
		if len(m.tabs) > 1 {
			m.selectTab((m.active - 1 + len(m.tabs)) % len(m.tabs))
		}

	default:
		return nil, false
	}
	return nil, true
}

func (m *model) startPrompt(kind promptKind, value string) tea.Cmd {
	m.prompt = kind
	m.input.SetValue(value)
	m.input.CursorEnd()
	if kind == promptOpen {
		m.input.Prompt = "Open: "
	} else {
		m.input.Prompt = "Save as: "
	}
	if t := m.activeTab(); t != nil && t.editor != nil {
		t.editor.area.Blur()
	}
	return m.input.Focus()
}

func (m *model) endPrompt() tea.Cmd {
	m.prompt = promptNone
	m.input.Blur()
	m.input.SetValue("")
	if t := m.activeTab(); t != nil && t.editor != nil {
		return t.editor.area.Focus()
	}
	return nil
}

func (m *model) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return m.endPrompt()

	case tea.KeyEnter:
		kind := m.prompt
		value := strings.TrimSpace(m.input.Value())
		cmd := m.endPrompt()
		if value == "" {
			return cmd
		}
		switch kind {
		case promptOpen:
			m.openPath(value)
			m.status = ""
		case promptSaveAs:
			if t := m.activeTab(); t != nil && t.session.SaveAs(absPath(value)) {
				m.status = "Saved " + t.session.DisplayName()
			}
		}
		return cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// drainEvents turns queued session events into recent list updates.
func (m *model) drainEvents() []tea.Cmd {
	events := m.pending
	m.pending = nil
	if m.recent == nil {
		return nil
	}

	var cmds []tea.Cmd
	for _, ev := range events {
		if ev.Kind != document.EventLoaded && ev.Kind != document.EventSaved {
			continue
		}
		cmds = append(cmds, recordRecentCmd(m.ctx, m.recent, ev))
	}
	return cmds
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	header := m.renderTabBar()
	footer := m.renderFooter()

	var body string
	if a, ok := m.alerts.current(); ok {
		body = renderAlert(a, m.width, m.bodyHeight)
	} else if t := m.activeTab(); t != nil && t.editor != nil {
		body = m.renderSplitView(t)
	} else {
		body = m.renderEmpty()
	}

	return fmt.Sprintf("%s\n%s\n%s", header, body, footer)
}

func (m model) renderSplitView(t *tab) string {
	ew, pw, h := m.paneSizes()

	leftStyle := lipgloss.NewStyle().
		Width(ew).
		Height(h)

	rightStyle := lipgloss.NewStyle().
		Width(pw).
		Height(h)

	dividerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Height(h)

	divider := strings.TrimSuffix(strings.Repeat("│\n", h), "\n")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Render(t.editor.View()),
		dividerStyle.Render(divider),
		rightStyle.Render(t.preview.View()),
	)
}

func (m model) renderEmpty() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	return lipgloss.Place(m.width, m.bodyHeight, lipgloss.Center, lipgloss.Center,
		style.Render("No open documents. ctrl+n: new • ctrl+o: open"))
}

func (m model) renderTabBar() string {
	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("63")).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Background(lipgloss.Color("236")).
		Padding(0, 1)

	var labels []string
	for i, t := range m.tabs {
		if i == m.active {
			labels = append(labels, activeStyle.Render(t.session.DisplayName()))
		} else {
			labels = append(labels, inactiveStyle.Render(t.session.DisplayName()))
		}
	}
	if len(labels) == 0 {
		return activeStyle.Render("mdwriter")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labels...)
}

func (m model) renderFooter() string {
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	var info string
	if m.prompt != promptNone {
		info = m.input.View()
	} else if t := m.activeTab(); t != nil {
		info = infoStyle.Render(m.describeTab(t))
		if m.status != "" {
			info += "  " + statusStyle.Render(m.status)
		}
	}

	var help []string
	for _, b := range m.keys.help() {
		h := b.Help()
		help = append(help, h.Key+": "+h.Desc)
	}

	return info + "\n" + helpStyle.Render(truncate(strings.Join(help, " • "), m.width))
}

func (m model) describeTab(t *tab) string {
	info := t.session.Tooltip()
	if info == "" {
		info = "new document, not saved yet"
	}
	if t.preview != nil {
		if headings := markdown.Outline(t.preview.Document()); len(headings) > 0 {
			info += fmt.Sprintf(" • %d headings", len(headings))
		}
	}
	return info
}

func truncate(s string, maxLen int) string {
	if maxLen <= 3 || lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) > maxLen-3 {
		runes = runes[:maxLen-3]
	}
	return string(runes) + "..."
}

// Run starts the editor and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(
		initialModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
