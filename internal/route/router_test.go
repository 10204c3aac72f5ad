package route

import (
	"reflect"
	"testing"

	"mudlark/internal/protocol"
	"mudlark/internal/style"
)

func span(text string) style.Span {
	return style.Span{Text: text}
}

func TestLastRegistrationWins(t *testing.T) {
	table := NewTable()
	table.Register("win-a", []string{"speech", "thoughts"})
	table.Register("win-b", []string{"speech"})

	if d, _ := table.Lookup("speech"); d != "win-b" {
		t.Errorf("speech routed to %q, want win-b", d)
	}
	if d, _ := table.Lookup("thoughts"); d != "win-a" {
		t.Errorf("thoughts routed to %q, want win-a", d)
	}

	// Re-registering the original owner takes the stream back.
	table.Register("win-a", []string{"speech"})
	if d, _ := table.Lookup("speech"); d != "win-a" {
		t.Errorf("speech routed to %q after re-register, want win-a", d)
	}
}

func TestUnregisterDropsOwnership(t *testing.T) {
	table := NewTable()
	table.Register("win-a", []string{"speech", "deaths"})
	table.Unregister("win-a")
	if _, ok := table.Lookup("speech"); ok {
		t.Error("speech still routed after unregister")
	}
	if _, ok := table.Lookup("deaths"); ok {
		t.Error("deaths still routed after unregister")
	}
}

func TestRouteSimpleLine(t *testing.T) {
	table := NewTable()
	table.Register("main-win", []string{"main"})
	r := NewRouter(table, nil)

	lines := r.Route([]protocol.Element{
		protocol.Text{Span: span("hello"), Stream: "main"},
		protocol.LineBreak{Stream: "main"},
	})
	want := []Line{{Dest: "main-win", Spans: []style.Span{span("hello")}}}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %#v, want %#v", lines, want)
	}
}

func TestUnroutedStreamDiscardedAndCounted(t *testing.T) {
	table := NewTable()
	table.Register("main-win", []string{"main"})
	r := NewRouter(table, nil)

	lines := r.Route([]protocol.Element{
		protocol.StreamPush{Name: "ghost"},
		protocol.Text{Span: span("into the void"), Stream: "ghost"},
		protocol.StreamPop{},
		protocol.LineBreak{Stream: "main"},
	})
	for _, l := range lines {
		if len(l.Spans) != 0 {
			t.Errorf("unrouted text surfaced in a line: %#v", l)
		}
	}
	if r.Misses() != 1 {
		t.Errorf("misses = %d, want 1", r.Misses())
	}
}

func TestBlankLineReachesDestination(t *testing.T) {
	table := NewTable()
	table.Register("main-win", []string{"main"})
	r := NewRouter(table, nil)

	lines := r.Route([]protocol.Element{protocol.LineBreak{Stream: "main"}})
	if len(lines) != 1 || lines[0].Dest != "main-win" || len(lines[0].Spans) != 0 {
		t.Errorf("blank line not delivered: %#v", lines)
	}
}

func TestMixedStreamsWithinOneLine(t *testing.T) {
	table := NewTable()
	table.Register("main-win", []string{"main"})
	table.Register("speech-win", []string{"speech"})
	r := NewRouter(table, nil)

	lines := r.Route([]protocol.Element{
		protocol.Text{Span: span("Bob "), Stream: "main"},
		protocol.StreamPush{Name: "speech"},
		protocol.Text{Span: span("says hi"), Stream: "speech"},
		protocol.StreamPop{},
		protocol.LineBreak{Stream: "main"},
	})
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %#v", lines)
	}
	byDest := map[string]Line{}
	for _, l := range lines {
		byDest[l.Dest] = l
	}
	if got := style.Text(byDest["main-win"].Spans); got != "Bob " {
		t.Errorf("main line = %q", got)
	}
	if got := style.Text(byDest["speech-win"].Spans); got != "says hi" {
		t.Errorf("speech line = %q", got)
	}
}

func TestReRegisterRedirectsSubsequentText(t *testing.T) {
	table := NewTable()
	table.Register("old-win", []string{"speech"})
	r := NewRouter(table, nil)

	first := r.Route([]protocol.Element{
		protocol.Text{Span: span("one"), Stream: "speech"},
		protocol.LineBreak{Stream: "speech"},
	})
	if first[0].Dest != "old-win" {
		t.Fatalf("first line dest = %q", first[0].Dest)
	}

	// Applied between batches, per the routing contract.
	table.Register("new-win", []string{"speech"})

	second := r.Route([]protocol.Element{
		protocol.Text{Span: span("two"), Stream: "speech"},
		protocol.LineBreak{Stream: "speech"},
	})
	if len(second) != 1 || second[0].Dest != "new-win" {
		t.Errorf("post-reregister line = %#v, want new-win only", second)
	}
}

func TestPartialLineDiscardedOnDrop(t *testing.T) {
	table := NewTable()
	table.Register("main-win", []string{"main"})
	r := NewRouter(table, nil)

	r.Route([]protocol.Element{protocol.Text{Span: span("half a li"), Stream: "main"}})
	if got := r.PendingDestinations(); len(got) != 1 || got[0] != "main-win" {
		t.Fatalf("pending = %#v", got)
	}
	r.DropPending()
	if len(r.PendingDestinations()) != 0 {
		t.Error("pending survived DropPending")
	}
	lines := r.Route([]protocol.Element{protocol.LineBreak{Stream: "main"}})
	if len(lines) != 1 || len(lines[0].Spans) != 0 {
		t.Errorf("discarded partial resurfaced: %#v", lines)
	}
}
