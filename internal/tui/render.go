package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"mudlark/internal/buffer"
	"mudlark/internal/game"
	"mudlark/internal/style"
)

// renderSpan turns one styled span into terminal output.
func (s *Styles) renderSpan(sp style.Span) string {
	if s.mono || sp.Style == (style.Style{}) {
		return sp.Text
	}
	ls := lipgloss.NewStyle()
	if sp.Style.Fg.IsSet() {
		ls = ls.Foreground(lipgloss.Color(sp.Style.Fg))
	}
	if sp.Style.Bg.IsSet() {
		ls = ls.Background(lipgloss.Color(sp.Style.Bg))
	}
	if sp.Style.Bold {
		ls = ls.Bold(true)
	}
	return ls.Render(sp.Text)
}

// renderRow renders one display row of a buffer.
func (s *Styles) renderRow(row buffer.Line) string {
	var b strings.Builder
	for _, sp := range row.Spans {
		b.WriteString(s.renderSpan(sp))
	}
	return b.String()
}

// renderWindow renders a window's visible rows padded to exactly height
// lines, with a title row on top.
func (s *Styles) renderWindow(title string, buf *buffer.Buffer, height int, focused bool) string {
	titleStyle := s.Title
	if focused {
		titleStyle = s.TitleFocused
	}
	label := title
	if !buf.Pinned() {
		label += " [scroll]"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate.String(label, uint(buf.Width()))))
	b.WriteString("\n")

	rows := buf.View(height)
	for i := 0; i < height-len(rows); i++ {
		b.WriteString("\n")
	}
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.renderRow(row))
	}
	return b.String()
}

// wholeSeconds rounds a remaining duration up, so a timer with any time left
// never shows 0.
func wholeSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

// renderStatus renders the one-line status bar: vitals, timers, prompt.
func (s *Styles) renderStatus(st *game.State, now time.Time, width int) string {
	var parts []string
	for _, v := range st.Vitals() {
		parts = append(parts, fmt.Sprintf("%s %d%%", v.ID, int(v.Percent()*100)))
	}
	if rt := st.RoundRemaining(now); rt > 0 {
		parts = append(parts, s.Roundtime.Render(fmt.Sprintf("RT %d", wholeSeconds(rt))))
	}
	if ct := st.CastRemaining(now); ct > 0 {
		parts = append(parts, s.Roundtime.Render(fmt.Sprintf("CT %d", wholeSeconds(ct))))
	}
	if p := st.Prompt(); p != "" {
		parts = append(parts, s.Prompt.Render(p))
	}

	line := strings.Join(parts, "  ")
	line = truncate.String(line, uint(width))
	return s.StatusBar.Width(width).Render(line)
}
