// Package route maps parsed stream elements to destinations. A destination is
// the buffering unit a stream's text lands in (a window, in UI terms); the
// subscription table says which destination owns which stream name.
package route

import (
	"sort"

	"github.com/charmbracelet/log"

	"mudlark/internal/protocol"
	"mudlark/internal/style"
)

// Table maps stream names to destination ids. If several destinations declare
// the same stream, the most recently registered one wins. That is documented
// legacy behavior, not an accident of iteration order; tests pin it, so think
// twice before "fixing" it to first-wins or fan-out.
type Table struct {
	subs map[string]string
}

// NewTable returns an empty subscription table.
func NewTable() *Table {
	return &Table{subs: map[string]string{}}
}

// Register subscribes a destination to the given stream names, displacing any
// previous owner of each name.
func (t *Table) Register(dest string, streams []string) {
	for _, s := range streams {
		t.subs[s] = dest
	}
}

// Unregister removes every subscription held by a destination. Streams it
// owned become unrouted; their text is produced and discarded.
func (t *Table) Unregister(dest string) {
	for s, d := range t.subs {
		if d == dest {
			delete(t.subs, s)
		}
	}
}

// Lookup returns the destination owning a stream name.
func (t *Table) Lookup(stream string) (string, bool) {
	d, ok := t.subs[stream]
	return d, ok
}

// Destinations returns the distinct destination ids present in the table,
// sorted for deterministic iteration.
func (t *Table) Destinations() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range t.subs {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// Line is a completed logical line attached to its destination, ready for
// highlight evaluation and wrapping.
type Line struct {
	Dest  string
	Spans []style.Span
}

// Router consumes parser elements and assembles per-destination logical
// lines. Text lands in the accumulator of the destination subscribed to its
// stream; a LineBreak closes the line of every destination that has pending
// text (plus the break's own destination, so blank lines survive).
//
// The router is single-writer: it is only ever driven from the pipeline's
// consumer side, and table swaps happen between Route calls, never mid-batch,
// so a logical line cannot be split across two destinations.
type Router struct {
	table  *Table
	logger *log.Logger

	pending map[string][]style.Span
	// destinations in first-pend order, so flushed lines keep arrival order
	pendingOrder []string

	misses uint64
}

// NewRouter creates a router over the given table. A nil logger falls back to
// the package default.
func NewRouter(table *Table, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}
	return &Router{
		table:   table,
		logger:  logger,
		pending: map[string][]style.Span{},
	}
}

// SetTable swaps the subscription table. Callers must invoke this between
// Route batches only.
func (r *Router) SetTable(table *Table) {
	r.table = table
}

// Misses returns how many Text elements arrived for streams with no
// subscriber. Diagnostic only; a routing miss is expected, not an error.
func (r *Router) Misses() uint64 {
	return r.misses
}

// Route processes one batch of elements and returns the logical lines that
// completed during it. StreamPush/StreamPop are already reflected in each
// Text element's stream tag and are consumed here without further effect.
// ControlUpdate elements are not the router's business and must be filtered
// out by the caller beforehand.
func (r *Router) Route(elements []protocol.Element) []Line {
	var done []Line
	for _, el := range elements {
		switch e := el.(type) {
		case protocol.Text:
			dest, ok := r.table.Lookup(e.Stream)
			if !ok {
				r.misses++
				continue
			}
			r.pend(dest, e.Span)

		case protocol.LineBreak:
			done = r.flushLine(done, e.Stream)

		case protocol.StreamPush, protocol.StreamPop:
			// consumed; routing state lives in the Text tags
		}
	}
	return done
}

func (r *Router) pend(dest string, span style.Span) {
	if _, ok := r.pending[dest]; !ok {
		r.pendingOrder = append(r.pendingOrder, dest)
	}
	r.pending[dest] = append(r.pending[dest], span)
}

// flushLine closes the current logical line. Every destination with pending
// text gets its line; the destination owning the break's stream gets one even
// when empty, which is how blank lines reach the scrollback.
func (r *Router) flushLine(done []Line, breakStream string) []Line {
	breakDest, routed := r.table.Lookup(breakStream)

	sawBreakDest := false
	for _, dest := range r.pendingOrder {
		if dest == breakDest {
			sawBreakDest = true
		}
		done = append(done, Line{Dest: dest, Spans: r.pending[dest]})
		delete(r.pending, dest)
	}
	r.pendingOrder = r.pendingOrder[:0]

	if routed && !sawBreakDest {
		done = append(done, Line{Dest: breakDest})
	}
	return done
}

// PendingDestinations reports which destinations currently hold a partial
// line. On disconnect these partials are discarded, never flushed.
func (r *Router) PendingDestinations() []string {
	out := make([]string, len(r.pendingOrder))
	copy(out, r.pendingOrder)
	return out
}

// DropPending discards all partially accumulated lines.
func (r *Router) DropPending() {
	r.pending = map[string][]style.Span{}
	r.pendingOrder = r.pendingOrder[:0]
}
