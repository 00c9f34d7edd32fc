package document

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	files    map[string][]byte
	readErr  error
	writeErr error
	reads    int
	writes   int
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (m *memStore) ReadAll(path string) ([]byte, error) {
	m.reads++
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *memStore) WriteAll(path string, data []byte) error {
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

type report struct {
	title   string
	message string
}

type recordingReporter struct {
	reports []report
}

func (r *recordingReporter) Report(title, message string) {
	r.reports = append(r.reports, report{title, message})
}

type recordingPreview struct {
	received []any
}

func (p *recordingPreview) Bind(sig *Signal) func() {
	return sig.Subscribe(func(v any) { p.received = append(p.received, v) })
}

type fixture struct {
	store    *memStore
	reporter *recordingReporter
	editors  int
	previews int
	preview  *recordingPreview
	events   []Event
}

func newFixture() *fixture {
	return &fixture{
		store:    newMemStore(),
		reporter: &recordingReporter{},
	}
}

func (f *fixture) options() Options {
	return Options{
		NewEditor: func() Editor {
			f.editors++
			return NewTextBuffer(func(text string) any { return "parsed:" + text })
		},
		NewPreview: func() Preview {
			f.previews++
			f.preview = &recordingPreview{}
			return f.preview
		},
		Store:    f.store,
		Reporter: f.reporter,
		OnEvent:  func(ev Event) { f.events = append(f.events, ev) },
	}
}

func TestSetPathDerivesLabelAndTooltip(t *testing.T) {
	s := New("", Options{})
	assert.Equal(t, Untitled, s.DisplayName())
	assert.Empty(t, s.Tooltip())
	assert.Empty(t, s.Path())

	s.SetPath("/tmp/notes.md")
	assert.Equal(t, "notes.md", s.DisplayName())
	assert.Equal(t, "/tmp/notes.md", s.Tooltip())
	assert.Equal(t, "/tmp/notes.md", s.Path())

	s.SetPath("/var/docs/readme.markdown")
	assert.Equal(t, "readme.markdown", s.DisplayName())
	assert.Equal(t, "/var/docs/readme.markdown", s.Tooltip())

	s.SetPath("")
	assert.Equal(t, Untitled, s.DisplayName())
	assert.Empty(t, s.Tooltip())
}

func TestSetPathDoesNotTouchStore(t *testing.T) {
	f := newFixture()
	s := New("/a.md", f.options())
	s.SetPath("/b.md")

	assert.Zero(t, f.store.reads)
	assert.Zero(t, f.store.writes)
	assert.False(t, s.Activated())
}

func TestNewSessionIsLazy(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("text")

	s := New("/doc.md", f.options())

	assert.False(t, s.Activated())
	assert.Nil(t, s.Editor())
	assert.Nil(t, s.Preview())
	assert.Zero(t, f.editors)
	assert.Zero(t, f.store.reads)
}

func TestActivateLoadsAndBindsPreview(t *testing.T) {
	f := newFixture()
	f.store.files["/tmp/notes.md"] = []byte("# Hi")

	s := New("", f.options())
	s.SetPath("/tmp/notes.md")
	s.Activate()

	require.True(t, s.Activated())
	assert.Equal(t, "notes.md", s.DisplayName())
	assert.Equal(t, "# Hi", s.Editor().Content())
	assert.Equal(t, []any{"parsed:# Hi"}, f.preview.received)
}

func TestActivateIsIdempotent(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("body")

	s := New("/doc.md", f.options())
	s.Activate()
	editor, preview := s.Editor(), s.Preview()

	s.Activate()
	s.Activate()

	assert.Same(t, editor, s.Editor())
	assert.Same(t, preview, s.Preview())
	assert.Equal(t, 1, f.editors)
	assert.Equal(t, 1, f.previews)
	assert.Equal(t, 1, f.store.reads)
	assert.Len(t, f.preview.received, 1)
}

func TestPreviewFollowsEditorUpdates(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("one")

	s := New("/doc.md", f.options())
	s.Activate()
	s.Editor().SetContent("two")
	s.Editor().SetContent("three")

	assert.Equal(t, []any{"parsed:one", "parsed:two", "parsed:three"}, f.preview.received)
}

func TestActivateWithoutPathSkipsLoad(t *testing.T) {
	f := newFixture()

	s := New("", f.options())
	s.Activate()

	require.True(t, s.Activated())
	assert.Zero(t, f.store.reads)
	assert.Empty(t, s.Editor().Content())
	assert.Empty(t, f.preview.received)
	assert.Empty(t, f.reporter.reports)
}

func TestLoadWithoutPathLeavesContent(t *testing.T) {
	f := newFixture()
	s := New("", f.options())
	s.Activate()
	s.Editor().SetContent("draft")

	s.Load()

	assert.Equal(t, "draft", s.Editor().Content())
	assert.Zero(t, f.store.reads)
}

func TestLoadBeforeActivationIsNoop(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("x")
	s := New("/doc.md", f.options())

	s.Load()

	assert.Zero(t, f.store.reads)
	assert.False(t, s.Activated())
}

func TestLoadFailureIsReported(t *testing.T) {
	f := newFixture()
	s := New("/missing.md", f.options())

	s.Activate()

	require.True(t, s.Activated())
	require.Len(t, f.reporter.reports, 1)
	assert.Equal(t, "Load", f.reporter.reports[0].title)
	assert.Contains(t, f.reporter.reports[0].message, "/missing.md")
	assert.Contains(t, f.reporter.reports[0].message, fs.ErrNotExist.Error())
	assert.Empty(t, s.Editor().Content())

	require.Error(t, s.LoadErr())
	assert.True(t, IsIOError(s.LoadErr()))
	assert.ErrorIs(t, s.LoadErr(), fs.ErrNotExist)
}

func TestLoadFailureKeepsPriorContent(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("original")
	s := New("/doc.md", f.options())
	s.Activate()
	s.Editor().SetContent("edited")

	f.store.readErr = errors.New("permission denied")
	s.Load()

	assert.Equal(t, "edited", s.Editor().Content())
	require.Len(t, f.reporter.reports, 1)
	assert.Equal(t, "Failed to load '/doc.md'.\n\nReason: permission denied", f.reporter.reports[0].message)
}

func TestReloadAfterFailureClearsError(t *testing.T) {
	f := newFixture()
	s := New("/late.md", f.options())
	s.Activate()
	require.Error(t, s.LoadErr())

	f.store.files["/late.md"] = []byte("arrived")
	s.Load()

	assert.NoError(t, s.LoadErr())
	assert.Equal(t, "arrived", s.Editor().Content())
}

func TestSaveWritesEditorContent(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("old")
	s := New("/doc.md", f.options())
	s.Activate()
	s.Editor().SetContent("new text")

	assert.True(t, s.Save())
	assert.Equal(t, []byte("new text"), f.store.files["/doc.md"])
	assert.Empty(t, f.reporter.reports)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	content := []byte("# Title\r\n\n\tindented \xff raw\n")
	f := newFixture()
	f.store.files["/doc.md"] = content
	s := New("/doc.md", f.options())

	s.Activate()
	require.True(t, s.Save())

	assert.Equal(t, content, f.store.files["/doc.md"])
}

func TestSaveFailureIsReportedOnce(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("keep me")
	s := New("/doc.md", f.options())
	s.Activate()
	s.Editor().SetContent("unsaved work")

	f.store.writeErr = &fs.PathError{Op: "open", Path: "/doc.md", Err: fs.ErrPermission}
	ok := s.Save()

	assert.False(t, ok)
	require.Len(t, f.reporter.reports, 1)
	assert.Equal(t, "Save", f.reporter.reports[0].title)
	assert.Equal(t, "Failed to save '/doc.md'.\n\nReason: permission denied", f.reporter.reports[0].message)
	assert.Equal(t, "unsaved work", s.Editor().Content())
	assert.Equal(t, []byte("keep me"), f.store.files["/doc.md"])
}

func TestSaveBeforeActivationIsRejected(t *testing.T) {
	f := newFixture()
	s := New("/doc.md", f.options())

	assert.False(t, s.Save())
	assert.Zero(t, f.store.writes)
	assert.Empty(t, f.reporter.reports)
	assert.False(t, s.Activated())
}

func TestSaveWithoutPathIsRejected(t *testing.T) {
	f := newFixture()
	s := New("", f.options())
	s.Activate()
	s.Editor().SetContent("draft")

	assert.False(t, s.Save())
	assert.Zero(t, f.store.writes)
}

func TestSaveAsMovesSession(t *testing.T) {
	f := newFixture()
	s := New("", f.options())
	s.Activate()
	s.Editor().SetContent("draft")

	require.True(t, s.SaveAs("/home/me/draft.md"))

	assert.Equal(t, "draft.md", s.DisplayName())
	assert.Equal(t, "/home/me/draft.md", s.Tooltip())
	assert.Equal(t, []byte("draft"), f.store.files["/home/me/draft.md"])
}

func TestEventsCarrySessionAndPath(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("x")
	s := New("/doc.md", f.options())
	s.Activate()
	s.Save()

	require.Len(t, f.events, 3)
	assert.Equal(t, EventActivated, f.events[0].Kind)
	assert.Equal(t, EventLoaded, f.events[1].Kind)
	assert.Equal(t, EventSaved, f.events[2].Kind)
	for _, ev := range f.events {
		assert.Equal(t, s.ID(), ev.SessionID)
		assert.Equal(t, "/doc.md", ev.Path)
	}
}

func TestCloseReleasesSurfaces(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("x")
	s := New("/doc.md", f.options())
	s.Activate()
	editor := s.Editor()
	preview := f.preview

	s.Close()
	editor.SetContent("after close")

	assert.True(t, s.Activated())
	assert.True(t, s.Closed())
	assert.Nil(t, s.Editor())
	assert.Nil(t, s.Preview())
	assert.Len(t, preview.received, 1)
}

func TestClosedSessionStaysClosed(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("x")
	s := New("/doc.md", f.options())
	s.Activate()
	require.Equal(t, 1, f.store.reads)

	s.Close()
	s.Activate()
	s.Load()

	assert.Equal(t, 1, f.store.reads)
	assert.Nil(t, s.Editor())
	assert.False(t, s.Save())
	assert.Equal(t, []byte("x"), f.store.files["/doc.md"])
	assert.Empty(t, f.reporter.reports)
}

func TestCloseBeforeActivate(t *testing.T) {
	f := newFixture()
	f.store.files["/doc.md"] = []byte("x")
	s := New("/doc.md", f.options())

	s.Close()
	s.Activate()

	assert.False(t, s.Activated())
	assert.Zero(t, f.store.reads)
	assert.Nil(t, s.Editor())
}

func TestDefaultsUseTextBuffer(t *testing.T) {
	s := New("", Options{})
	s.Activate()

	require.True(t, s.Activated())
	_, ok := s.Editor().(*TextBuffer)
	assert.True(t, ok)
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := New("", Options{})
	b := New("", Options{})
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "loaded", EventLoaded.String())
	assert.Equal(t, "save_failed", EventSaveFailed.String())
	assert.Equal(t, "event(42)", EventKind(42).String())
}
