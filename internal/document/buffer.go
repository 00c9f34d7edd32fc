package document

// ParseFunc turns editor text into the payload published on the parsed
// content signal.
type ParseFunc func(text string) any

// TextBuffer is an Editor without a user interface. It parses on every
// SetContent and publishes the result synchronously.
type TextBuffer struct {
	text   string
	parse  ParseFunc
	parsed *Signal
}

// NewTextBuffer creates an empty buffer. A nil parse publishes the raw
// text.
func NewTextBuffer(parse ParseFunc) *TextBuffer {
	if parse == nil {
		parse = func(text string) any { return text }
	}
	return &TextBuffer{
		parse:  parse,
		parsed: NewSignal(),
	}
}

func (b *TextBuffer) SetContent(text string) {
	b.text = text
	b.parsed.Publish(b.parse(text))
}

func (b *TextBuffer) Content() string {
	return b.text
}

func (b *TextBuffer) Parsed() *Signal {
	return b.parsed
}

// PreviewFunc adapts a plain function to the Preview interface.
type PreviewFunc func(v any)

func (f PreviewFunc) Bind(sig *Signal) func() {
	return sig.Subscribe(func(v any) { f(v) })
}
