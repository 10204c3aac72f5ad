// Package buffer holds the per-destination scrollback: finished, highlighted
// logical lines wrapped to the destination's width and stored in a bounded
// FIFO of display rows.
package buffer

import (
	"mudlark/internal/style"
)

// Line is one physical display row of a wrapped logical line.
type Line struct {
	Spans []style.Span

	// logical groups the rows of one logical line so a resize can re-wrap
	// them without ever merging two originally distinct lines.
	logical int
}

// Text returns the row's plain text.
func (l Line) Text() string {
	return style.Text(l.Spans)
}

// Buffer is the scrollback store of a single destination. It is single-writer
// by design: only the pipeline consumer appends, only the render layer reads,
// and both run on the same loop.
type Buffer struct {
	capacity int
	width    int
	lines    []Line

	// scroll is the absolute index of the bottom-most visible row. While
	// pinned it rides the newest row; while scrolled into history it stays
	// on the same content until eviction shifts it.
	scroll int
	pinned bool

	nextLogical int
}

// New creates a buffer holding at most capacity rows, wrapping at width
// columns. Both are floored at 1.
func New(capacity, width int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	if width < 1 {
		width = 1
	}
	return &Buffer{capacity: capacity, width: width, pinned: true}
}

// AppendLogical wraps a finished logical line and appends its rows, evicting
// the oldest rows beyond capacity.
func (b *Buffer) AppendLogical(spans []style.Span) {
	rows := wrapSpans(spans, b.width, b.nextLogical)
	b.nextLogical++
	b.lines = append(b.lines, rows...)
	if b.pinned {
		b.scroll = len(b.lines) - 1
	}
	b.evict()
}

func (b *Buffer) evict() {
	n := len(b.lines) - b.capacity
	if n <= 0 {
		return
	}
	b.lines = b.lines[:copy(b.lines, b.lines[n:])]
	b.scroll -= n
	if b.scroll < 0 {
		b.scroll = 0
	}
	if b.pinned {
		b.scroll = len(b.lines) - 1
	}
}

// SetWidth re-wraps the buffered content to a new column width. Rows are
// regrouped by their logical line before re-wrapping, so two distinct logical
// lines can never merge into one.
func (b *Buffer) SetWidth(width int) {
	if width < 1 {
		width = 1
	}
	if width == b.width {
		return
	}
	b.width = width
	if len(b.lines) == 0 {
		return
	}

	var rewrapped []Line
	start := 0
	for i := 1; i <= len(b.lines); i++ {
		if i == len(b.lines) || b.lines[i].logical != b.lines[start].logical {
			rewrapped = append(rewrapped, wrapSpans(joinRows(b.lines[start:i]), width, b.lines[start].logical)...)
			start = i
		}
	}
	b.lines = rewrapped
	b.evict()
	if b.pinned || b.scroll >= len(b.lines) {
		b.scroll = len(b.lines) - 1
	}
	if b.scroll < 0 {
		b.scroll = 0
	}
}

// joinRows concatenates the spans of consecutive rows of one logical line.
// Wrap never drops characters, so this is the exact original content.
func joinRows(rows []Line) []style.Span {
	var spans []style.Span
	for _, row := range rows {
		for _, sp := range row.Spans {
			if n := len(spans); n > 0 && spans[n-1].Style == sp.Style {
				spans[n-1].Text += sp.Text
				continue
			}
			spans = append(spans, sp)
		}
	}
	return spans
}

// Len returns the number of buffered rows.
func (b *Buffer) Len() int { return len(b.lines) }

// Capacity returns the row capacity.
func (b *Buffer) Capacity() int { return b.capacity }

// Width returns the current wrap width.
func (b *Buffer) Width() int { return b.width }

// Lines returns the buffered rows, oldest first. Callers must treat the
// slice as read-only.
func (b *Buffer) Lines() []Line { return b.lines }

// ScrollOffset returns the absolute index of the bottom-most visible row.
func (b *Buffer) ScrollOffset() int { return b.scroll }

// Pinned reports whether the view follows new output.
func (b *Buffer) Pinned() bool { return b.pinned }

// View returns up to height rows ending at the scroll position, for drawing.
func (b *Buffer) View(height int) []Line {
	if height < 1 || len(b.lines) == 0 {
		return nil
	}
	end := b.scroll + 1
	if end > len(b.lines) {
		end = len(b.lines)
	}
	start := end - height
	if start < 0 {
		start = 0
	}
	return b.lines[start:end]
}

// ScrollUp moves the view n rows into history and unpins it.
func (b *Buffer) ScrollUp(n int) {
	b.scroll -= n
	if b.scroll < 0 {
		b.scroll = 0
	}
	b.pinned = false
}

// ScrollDown moves the view n rows toward the live edge, re-pinning when it
// arrives.
func (b *Buffer) ScrollDown(n int) {
	b.scroll += n
	if b.scroll >= len(b.lines)-1 {
		b.ScrollToBottom()
	}
}

// ScrollToBottom re-pins the view to the newest row.
func (b *Buffer) ScrollToBottom() {
	b.scroll = len(b.lines) - 1
	if b.scroll < 0 {
		b.scroll = 0
	}
	b.pinned = true
}
