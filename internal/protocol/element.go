package protocol

import (
	"time"

	"mudlark/internal/style"
)

// Element is one parsed unit of the server stream. The parser emits elements
// in input order; consumers type-switch on the concrete types below.
type Element interface {
	element()
}

// Text is a styled run of characters, tagged with the stream that was active
// when it was flushed. Spans never straddle a style change.
type Text struct {
	Span   style.Span
	Stream string
}

// StreamPush records that the server switched output to a named stream.
type StreamPush struct {
	Name string
}

// StreamPop records a return to the previously active stream.
type StreamPop struct{}

// LineBreak terminates the current logical line. It carries the stream active
// at the newline so an empty line still has a routing target.
type LineBreak struct {
	Stream string
}

// ControlKind identifies the game-state update carried by a ControlUpdate.
type ControlKind int

const (
	ControlProgress ControlKind = iota // vitals / progress bar
	ControlRoundTime
	ControlCastTime
	ControlPrompt
	ControlLink
	ControlMenuItem
)

// String returns the wire tag name for the control kind.
func (k ControlKind) String() string {
	switch k {
	case ControlProgress:
		return "progressBar"
	case ControlRoundTime:
		return "roundTime"
	case ControlCastTime:
		return "castTime"
	case ControlPrompt:
		return "prompt"
	case ControlLink:
		return "link"
	case ControlMenuItem:
		return "menuItem"
	}
	return "unknown"
}

// ControlUpdate is a leaf game-state event. Fields are populated per Kind and
// passed through to external collaborators untouched; the pipeline itself
// never interprets them.
type ControlUpdate struct {
	Kind  ControlKind
	ID    string    // progress bar id, link exist id
	Value int       // progress current value
	Max   int       // progress max value
	Text  string    // progress label, prompt text
	End   time.Time // round/cast timer end
	Noun  string    // link / menu noun
	Coord string    // menu item coordinate
}

func (Text) element()          {}
func (StreamPush) element()    {}
func (StreamPop) element()     {}
func (LineBreak) element()     {}
func (ControlUpdate) element() {}
