// Package style defines the styled-text primitives shared by the whole
// ingestion pipeline: a color, a character style, and a styled span.
package style

// Color is a terminal color as configured: a hex code ("#53a684") or an ANSI
// color number ("3"). The zero value means "terminal default".
type Color string

// IsSet reports whether the color overrides the terminal default.
func (c Color) IsSet() bool { return c != "" }

// Style is the visual attribute set of a run of text.
type Style struct {
	Fg   Color
	Bg   Color
	Bold bool
}

// Merge returns s with any set fields of o layered on top. Bold is sticky:
// it stays on if either side has it.
func (s Style) Merge(o Style) Style {
	if o.Fg.IsSet() {
		s.Fg = o.Fg
	}
	if o.Bg.IsSet() {
		s.Bg = o.Bg
	}
	if o.Bold {
		s.Bold = true
	}
	return s
}

// Span is a run of text with a single uniform style. Spans are immutable once
// produced; stages that need to restyle a region derive new spans instead of
// mutating.
type Span struct {
	Text  string
	Style Style
}

// Text returns the plain-text projection of a span sequence.
func Text(spans []Span) string {
	n := 0
	for _, sp := range spans {
		n += len(sp.Text)
	}
	b := make([]byte, 0, n)
	for _, sp := range spans {
		b = append(b, sp.Text...)
	}
	return string(b)
}

// RuneLen returns the total rune count of a span sequence.
func RuneLen(spans []Span) int {
	n := 0
	for _, sp := range spans {
		for range sp.Text {
			n++
		}
	}
	return n
}
