package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"mudlark/internal/buffer"
	"mudlark/internal/game"
	"mudlark/internal/protocol"
	"mudlark/internal/style"
)

func newTestInput() textinput.Model {
	return textinput.New()
}

func TestHistoryRecall(t *testing.T) {
	m := &Model{input: newTestInput(), history: []string{"look", "north"}, histIdx: 2}

	m.recallHistory(-1)
	if got := m.input.Value(); got != "north" {
		t.Errorf("recall = %q, want %q", got, "north")
	}
	m.recallHistory(-1)
	if got := m.input.Value(); got != "look" {
		t.Errorf("recall = %q, want %q", got, "look")
	}
	m.recallHistory(-1) // already at oldest
	if got := m.input.Value(); got != "look" {
		t.Errorf("recall past oldest = %q, want %q", got, "look")
	}
	m.recallHistory(1)
	m.recallHistory(1) // back past newest clears the input
	if got := m.input.Value(); got != "" {
		t.Errorf("recall past newest = %q, want empty", got)
	}
}

func TestPrimaryHeightLeavesRoomForChrome(t *testing.T) {
	m := &Model{height: 30, windows: []string{"main", "chat", "deaths"}}
	// 30 total - status - input - 2 secondaries at (6+1) - own title = 13
	if got := m.primaryHeight(); got != 13 {
		t.Errorf("primaryHeight = %d, want 13", got)
	}

	m.height = 5 // too small; floor at one body row
	if got := m.primaryHeight(); got != 1 {
		t.Errorf("primaryHeight = %d, want floor of 1", got)
	}
}

func TestRenderStatusShowsVitalsAndTimers(t *testing.T) {
	st := game.NewState()
	now := time.Unix(1700000000, 0)
	st.HandleControl(protocol.ControlUpdate{Kind: protocol.ControlProgress, ID: "health", Value: 75, Max: 100})
	st.HandleControl(protocol.ControlUpdate{Kind: protocol.ControlRoundTime, End: now.Add(4 * time.Second)})
	st.HandleControl(protocol.ControlUpdate{Kind: protocol.ControlPrompt, Text: ">"})

	out := NewStyles(DefaultTheme()).renderStatus(st, now, 120)
	for _, want := range []string{"health 75%", "RT 4", ">"} {
		if !strings.Contains(out, want) {
			t.Errorf("status %q missing %q", out, want)
		}
	}
}

func TestRenderWindowPadsToHeight(t *testing.T) {
	buf := buffer.New(10, 20)
	buf.AppendLogical([]style.Span{{Text: "hello"}})

	out := NewStyles(DefaultTheme()).renderWindow("main", buf, 4, false)
	// title row + 4 body rows = 5 lines
	if got := strings.Count(out, "\n"); got != 4 {
		t.Errorf("rendered %d newlines, want 4:\n%q", got, out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("window output missing content: %q", out)
	}
}
