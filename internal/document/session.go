// Package document binds a file path to a lazily created editor and
// preview pair.
package document

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Untitled is the display name of a session without a path.
const Untitled = "Untitled"

// Editor is the surface holding the document text.
type Editor interface {
	SetContent(text string)
	Content() string
	// Parsed publishes the parsed form of the content whenever it changes.
	Parsed() *Signal
}

// Preview renders whatever arrives on a parsed content signal.
type Preview interface {
	// Bind subscribes to sig and returns a func that ends the subscription.
	Bind(sig *Signal) func()
}

// Reporter shows a failure to the user. The session waits for Report to
// return before it continues.
type Reporter interface {
	Report(title, message string)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(title, message string)

func (f ReporterFunc) Report(title, message string) { f(title, message) }

// EventKind identifies a session lifecycle event.
type EventKind int

const (
	EventActivated EventKind = iota
	EventLoaded
	EventLoadFailed
	EventSaved
	EventSaveFailed
)

func (k EventKind) String() string {
	switch k {
	case EventActivated:
		return "activated"
	case EventLoaded:
		return "loaded"
	case EventLoadFailed:
		return "load_failed"
	case EventSaved:
		return "saved"
	case EventSaveFailed:
		return "save_failed"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is emitted after activation and after every load or save attempt.
type Event struct {
	Kind      EventKind
	SessionID string
	Path      string
	Err       error
}

// Options configures a Session. Zero fields get defaults: a TextBuffer
// editor, a preview that discards values, the OS file store, a reporter
// that only logs and a no-op logger.
type Options struct {
	NewEditor  func() Editor
	NewPreview func() Preview
	Store      FileStore
	Reporter   Reporter
	Logger     *zap.Logger
	OnEvent    func(Event)
}

// Session is one open document.
type Session struct {
	id   string
	path string

	displayName string
	tooltip     string

	editor      Editor
	preview     Preview
	unsubscribe func()
	loadErr     error
	activated   bool
	closed      bool

	opts Options
	log  *zap.Logger
}

// New creates a session for path. An empty path is a new, unsaved
// document. No I/O happens until Activate.
func New(path string, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Store == nil {
		opts.Store = OSFileStore{}
	}
	if opts.NewEditor == nil {
		opts.NewEditor = func() Editor { return NewTextBuffer(nil) }
	}
	if opts.NewPreview == nil {
		opts.NewPreview = func() Preview { return PreviewFunc(func(any) {}) }
	}

	s := &Session{
		id:   uuid.New().String(),
		opts: opts,
	}
	s.log = opts.Logger.With(zap.String("session_id", s.id))
	if opts.Reporter == nil {
		s.opts.Reporter = ReporterFunc(func(title, message string) {
			s.log.Warn("unreported session failure", zap.String("title", title), zap.String("message", message))
		})
	}
	s.SetPath(path)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Path returns the current path, or "" for an unsaved document.
func (s *Session) Path() string { return s.path }

// DisplayName returns the file name of the path, or Untitled.
func (s *Session) DisplayName() string { return s.displayName }

// Tooltip returns the full path, or "" when there is none.
func (s *Session) Tooltip() string { return s.tooltip }

// SetPath replaces the path and recomputes the display name and tooltip.
// It neither loads nor saves.
func (s *Session) SetPath(path string) {
	s.path = path
	if path == "" {
		s.displayName = Untitled
		s.tooltip = ""
		return
	}
	s.displayName = filepath.Base(path)
	s.tooltip = path
}

// Activated reports whether the session has been activated. It stays
// true after Close.
func (s *Session) Activated() bool { return s.activated }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed }

// Editor returns the editor surface, or nil before activation.
func (s *Session) Editor() Editor { return s.editor }

// Preview returns the preview surface, or nil before activation.
func (s *Session) Preview() Preview { return s.preview }

// LoadErr returns the error of the last failed load. A successful load
// clears it.
func (s *Session) LoadErr() error { return s.loadErr }

// Activate creates the editor and preview, loads the file and binds the
// preview to the editor's parsed content. Only the first call has any
// effect, and a closed session is never activated.
func (s *Session) Activate() {
	if s.activated || s.closed {
		return
	}

	editor := s.opts.NewEditor()
	preview := s.opts.NewPreview()
	if editor == nil || preview == nil {
		s.log.Error("surface factory returned nil", zap.Bool("editor", editor != nil), zap.Bool("preview", preview != nil))
		return
	}
	s.editor = editor
	s.preview = preview
	s.activated = true
	s.log.Debug("session activated", zap.String("path", s.path))
	s.emit(Event{Kind: EventActivated})

	s.Load()

	s.unsubscribe = s.preview.Bind(s.editor.Parsed())
}

// Load reads the file into the editor. It does nothing for an unsaved
// document or before activation. A failure is reported and leaves the
// editor content as it was.
func (s *Session) Load() {
	if s.path == "" || !s.activated || s.closed {
		return
	}
	path := s.path

	data, err := s.opts.Store.ReadAll(path)
	if err != nil {
		ioErr := &IOError{Op: "load", Path: path, Err: err}
		s.loadErr = ioErr
		s.log.Warn("load failed", zap.String("path", path), zap.Error(err))
		s.opts.Reporter.Report("Load", fmt.Sprintf("Failed to load '%s'.\n\nReason: %s", path, ioErr.Reason()))
		s.emit(Event{Kind: EventLoadFailed, Err: ioErr})
		return
	}

	s.loadErr = nil
	s.editor.SetContent(string(data))
	s.log.Info("document loaded", zap.String("path", path), zap.Int("bytes", len(data)))
	s.emit(Event{Kind: EventLoaded})
}

// Save writes the editor content to the path and reports whether it
// succeeded. It returns false without touching the disk before
// activation or when there is no path. A failure is reported; the editor
// content is kept for a retry.
func (s *Session) Save() bool {
	if !s.activated {
		s.log.Warn("save before activation ignored", zap.String("path", s.path))
		return false
	}
	if s.closed {
		s.log.Warn("save after close ignored", zap.String("path", s.path))
		return false
	}
	if s.path == "" {
		s.log.Warn("save without path ignored")
		return false
	}
	path := s.path

	if err := s.opts.Store.WriteAll(path, []byte(s.editor.Content())); err != nil {
		ioErr := &IOError{Op: "save", Path: path, Err: err}
		s.log.Warn("save failed", zap.String("path", path), zap.Error(err))
		s.opts.Reporter.Report("Save", fmt.Sprintf("Failed to save '%s'.\n\nReason: %s", path, ioErr.Reason()))
		s.emit(Event{Kind: EventSaveFailed, Err: ioErr})
		return false
	}

	s.log.Info("document saved", zap.String("path", path))
	s.emit(Event{Kind: EventSaved})
	return true
}

// SaveAs moves the session to path and saves it there.
func (s *Session) SaveAs(path string) bool {
	s.SetPath(path)
	return s.Save()
}

// Close ends the preview subscription and releases both surfaces.
// Load, Save and Activate do nothing afterwards.
func (s *Session) Close() {
	s.closed = true
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.editor = nil
	s.preview = nil
}

func (s *Session) emit(ev Event) {
	if s.opts.OnEvent == nil {
		return
	}
	ev.SessionID = s.id
	ev.Path = s.path
	s.opts.OnEvent(ev)
}

// IsIOError reports whether err is a session load or save failure.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
