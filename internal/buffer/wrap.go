package buffer

import (
	"github.com/mattn/go-runewidth"

	"mudlark/internal/style"
)

// cell is one character carrying the style of the span it came from and its
// display width in columns.
type cell struct {
	r  rune
	w  int
	st style.Style
}

func flattenCells(spans []style.Span) []cell {
	var cells []cell
	for _, sp := range spans {
		for _, r := range sp.Text {
			w := runewidth.RuneWidth(r)
			if w < 0 {
				w = 0
			}
			cells = append(cells, cell{r: r, w: w, st: sp.Style})
		}
	}
	return cells
}

func isBreakable(r rune) bool {
	return r == ' ' || r == '\t'
}

// wrapSpans wraps one logical line to the given column width. Breaks prefer
// the most recent whitespace at or before the width; a single word longer
// than the width is force-broken at the width. Every input character lands in
// exactly one output row — whitespace at a break stays at the end of the row
// it broke, so concatenating the rows reconstructs the logical line exactly.
// An empty logical line yields one empty row, preserving blank lines.
func wrapSpans(spans []style.Span, width int, logical int) []Line {
	if width < 1 {
		width = 1
	}
	cells := flattenCells(spans)
	if len(cells) == 0 {
		return []Line{{logical: logical}}
	}

	var rows []Line
	start := 0
	for start < len(cells) {
		col := 0
		lastWS := -1
		i := start
		for i < len(cells) {
			c := cells[i]
			// A character wider than the remaining row wraps, except at the
			// row start: a glyph wider than the whole width still has to go
			// somewhere.
			if col+c.w > width && i > start {
				break
			}
			if isBreakable(c.r) {
				lastWS = i
			}
			col += c.w
			i++
		}
		if i < len(cells) && lastWS >= start {
			i = lastWS + 1
		}
		rows = append(rows, Line{Spans: regroup(cells[start:i]), logical: logical})
		start = i
	}
	return rows
}

// regroup rebuilds spans from consecutive cells, merging runs with identical
// style back into single spans.
func regroup(cells []cell) []style.Span {
	var spans []style.Span
	for _, c := range cells {
		if n := len(spans); n > 0 && spans[n-1].Style == c.st {
			spans[n-1].Text += string(c.r)
			continue
		}
		spans = append(spans, style.Span{Text: string(c.r), Style: c.st})
	}
	return spans
}
