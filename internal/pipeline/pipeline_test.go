package pipeline

import (
	"context"
	"strings"
	"testing"

	"mudlark/internal/highlight"
	"mudlark/internal/style"
)

type recordedSound struct {
	path   string
	volume float64
}

type capturePlayer struct {
	played []recordedSound
}

func (c *capturePlayer) Play(path string, volume float64) {
	c.played = append(c.played, recordedSound{path, volume})
}

type captureRecorder struct {
	lines []string
}

func (c *captureRecorder) Append(_ context.Context, dest, text string) error {
	c.lines = append(c.lines, dest+": "+text)
	return nil
}

func newTestPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	if opts.Width == 0 {
		opts.Width = 80
	}
	p := New(opts)
	p.AddWindow("main", []string{"main"}, 100)
	return p
}

func bufferTexts(t *testing.T, p *Pipeline, dest string) []string {
	t.Helper()
	buf, ok := p.Buffer(dest)
	if !ok {
		t.Fatalf("no buffer for %q", dest)
	}
	var out []string
	for _, l := range buf.Lines() {
		out = append(out, l.Text())
	}
	return out
}

func TestFeedDeliversCompletedLines(t *testing.T) {
	p := newTestPipeline(t, Options{})
	p.Feed("You are standing in a field.\nA cow ")
	p.Feed("watches you.\n")

	got := bufferTexts(t, p, "main")
	want := []string{"You are standing in a field.", "A cow watches you."}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("lines = %#v, want %#v", got, want)
	}
}

func TestStreamsRouteToTheirWindows(t *testing.T) {
	p := newTestPipeline(t, Options{})
	p.AddWindow("chat", []string{"speech", "thoughts"}, 100)

	p.Feed("A guard walks by.\n<pushStream id=\"speech\"/>Rennik says, \"Hail.\"\n<popStream/>The guard leaves.\n")

	main := bufferTexts(t, p, "main")
	if len(main) != 2 || main[0] != "A guard walks by." || main[1] != "The guard leaves." {
		t.Errorf("main = %#v", main)
	}
	chat := bufferTexts(t, p, "chat")
	if len(chat) != 1 || chat[0] != "Rennik says, \"Hail.\"" {
		t.Errorf("chat = %#v", chat)
	}
}

func TestUnroutedStreamsAreCounted(t *testing.T) {
	p := newTestPipeline(t, Options{})
	p.Feed("<pushStream id=\"logons\"/>Somebody joined.\n<popStream/>")

	if p.Misses() == 0 {
		t.Error("expected routing misses for unsubscribed stream")
	}
	if got := bufferTexts(t, p, "main"); len(got) != 0 {
		t.Errorf("main = %#v, want empty", got)
	}
}

func TestControlUpdatesReachGameState(t *testing.T) {
	p := newTestPipeline(t, Options{})
	p.Feed("<progressBar id=\"health\" value=\"72\" max=\"100\"/>Still here.\n")

	vitals := p.State().Vitals()
	if len(vitals) != 1 || vitals[0].ID != "health" || vitals[0].Value != 72 {
		t.Errorf("vitals = %#v", vitals)
	}
	if got := bufferTexts(t, p, "main"); len(got) != 1 || got[0] != "Still here." {
		t.Errorf("main = %#v", got)
	}
}

func TestHighlightAppliedAndSoundFired(t *testing.T) {
	player := &capturePlayer{}
	p := newTestPipeline(t, Options{
		Rules: []highlight.Rule{
			{Name: "swing", Pattern: "^You swing", Fg: "#ff0000", Sound: "swing.wav", SoundVolume: 0.5},
		},
		Player: player,
	})

	p.Feed("You swing a sword at the orc\n")

	buf, _ := p.Buffer("main")
	spans := buf.Lines()[0].Spans
	if len(spans) < 2 {
		t.Fatalf("spans = %#v, want highlighted prefix split off", spans)
	}
	if spans[0].Text != "You swing" || spans[0].Style.Fg != "#ff0000" {
		t.Errorf("spans[0] = %#v", spans[0])
	}
	if len(player.played) != 1 || player.played[0].path != "swing.wav" || player.played[0].volume != 0.5 {
		t.Errorf("played = %#v", player.played)
	}
}

func TestSetRulesSwapsBetweenLines(t *testing.T) {
	p := newTestPipeline(t, Options{})
	p.Feed("an orc arrives\n")
	p.SetRules([]highlight.Rule{{Name: "orc", Pattern: "orc", Fg: "#00ff00"}})
	p.Feed("an orc attacks\n")

	buf, _ := p.Buffer("main")
	lines := buf.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines = %#v", lines)
	}
	for _, sp := range lines[0].Spans {
		if sp.Style.Fg != "" {
			t.Errorf("first line styled before rules existed: %#v", sp)
		}
	}
	var hit bool
	for _, sp := range lines[1].Spans {
		if sp.Text == "orc" && sp.Style.Fg == "#00ff00" {
			hit = true
		}
	}
	if !hit {
		t.Errorf("second line not highlighted: %#v", lines[1].Spans)
	}
}

func TestRecorderGetsPlainText(t *testing.T) {
	rec := &captureRecorder{}
	p := newTestPipeline(t, Options{
		Presets:  map[string]style.Style{"speech": {Fg: "#53a684"}},
		Recorder: rec,
	})

	p.Feed("<preset id=\"speech\">Hello</preset> there\n")

	if len(rec.lines) != 1 || rec.lines[0] != "main: Hello there" {
		t.Errorf("recorded = %#v", rec.lines)
	}
}

func TestSetWidthRewrapsAllWindows(t *testing.T) {
	p := newTestPipeline(t, Options{Width: 80})
	p.Feed("Hello there friend of mine\n")

	p.SetWidth(10)
	buf, _ := p.Buffer("main")
	if buf.Len() < 2 {
		t.Fatalf("expected wrap at width 10, got %#v", buf.Lines())
	}
	var b strings.Builder
	for _, l := range buf.Lines() {
		b.WriteString(l.Text())
	}
	if b.String() != "Hello there friend of mine" {
		t.Errorf("rewrap lost text: %q", b.String())
	}
}

func TestDisconnectDropsPartialLines(t *testing.T) {
	p := newTestPipeline(t, Options{})
	p.Feed("half a line with no break")
	p.Disconnect()
	p.Feed("fresh line\n")

	got := bufferTexts(t, p, "main")
	if len(got) != 1 || got[0] != "fresh line" {
		t.Errorf("lines = %#v, want only the post-reconnect line", got)
	}
}

func TestLastRegistrationWinsAcrossWindows(t *testing.T) {
	p := newTestPipeline(t, Options{})
	p.AddWindow("first", []string{"deaths"}, 10)
	p.AddWindow("second", []string{"deaths"}, 10)

	p.Feed("<pushStream id=\"deaths\"/>Someone was slain.\n<popStream/>")

	if got := bufferTexts(t, p, "second"); len(got) != 1 || got[0] != "Someone was slain." {
		t.Errorf("second = %#v", got)
	}
	if got := bufferTexts(t, p, "first"); len(got) != 0 {
		t.Errorf("first = %#v, want empty", got)
	}
}
