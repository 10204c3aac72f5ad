// Package pipeline wires the ingestion stages together: raw chunks go into
// the tag parser, parsed elements are routed to destinations, completed lines
// are highlighted and appended to each destination's scrollback, and control
// updates land in the game state.
package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"mudlark/internal/buffer"
	"mudlark/internal/game"
	"mudlark/internal/highlight"
	"mudlark/internal/protocol"
	"mudlark/internal/rawlog"
	"mudlark/internal/route"
	"mudlark/internal/sound"
	"mudlark/internal/style"
)

// Recorder persists completed lines. The logbook store implements it; a nil
// recorder disables transcript logging.
type Recorder interface {
	Append(ctx context.Context, destination, text string) error
}

// Pipeline is the single consumer of the connection's chunk stream. All of
// its methods must be called from one goroutine; none of its stages carry
// locks.
type Pipeline struct {
	parser *protocol.Parser
	table  *route.Table
	router *route.Router
	rules  *highlight.Set

	buffers map[string]*buffer.Buffer
	width   int

	state    *game.State
	player   sound.Player
	recorder Recorder
	capture  *rawlog.Writer
	logger   *log.Logger
}

// Options configures a pipeline.
type Options struct {
	// Presets maps preset names to their styles for the parser.
	Presets map[string]style.Style
	// Rules is the initial highlight rule set; nil means no highlighting.
	Rules []highlight.Rule
	// Width is the initial wrap width for all destinations.
	Width int
	// Player receives highlight sound events; nil disables sound.
	Player sound.Player
	// Recorder receives completed lines; nil disables logging.
	Recorder Recorder
	// Capture receives every raw chunk before parsing; nil disables it.
	Capture *rawlog.Writer
	Logger  *log.Logger
}

// New builds an empty pipeline. Destinations are added with AddWindow before
// the first Feed.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	player := opts.Player
	if player == nil {
		player = sound.Nop{}
	}
	width := opts.Width
	if width < 1 {
		width = 80
	}
	table := route.NewTable()
	return &Pipeline{
		parser:   protocol.New(opts.Presets, logger),
		table:    table,
		router:   route.NewRouter(table, logger),
		rules:    highlight.NewSet(opts.Rules, logger),
		buffers:  map[string]*buffer.Buffer{},
		width:    width,
		state:    game.NewState(),
		player:   player,
		recorder: opts.Recorder,
		capture:  opts.Capture,
		logger:   logger,
	}
}

// AddWindow registers a destination for the given stream names, displacing
// any previous owner of each name, and allocates its scrollback. Call it
// between Feed calls only; registrations never land mid-batch.
func (p *Pipeline) AddWindow(dest string, streams []string, scrollback int) {
	p.table.Register(dest, streams)
	if _, ok := p.buffers[dest]; !ok {
		p.buffers[dest] = buffer.New(scrollback, p.width)
	}
}

// RemoveWindow drops a destination's subscriptions and its scrollback. Text
// for its streams becomes unrouted until another window claims them.
func (p *Pipeline) RemoveWindow(dest string) {
	p.table.Unregister(dest)
	delete(p.buffers, dest)
}

// Feed pushes one received chunk through the stages.
func (p *Pipeline) Feed(chunk string) {
	if p.capture != nil {
		if err := p.capture.Append(chunk); err != nil {
			p.logger.Debug("raw capture failed", "err", err)
		}
	}
	elements := p.parser.Feed(chunk)

	routable := elements[:0:0]
	for _, el := range elements {
		if cu, ok := el.(protocol.ControlUpdate); ok {
			p.state.HandleControl(cu)
			continue
		}
		routable = append(routable, el)
	}

	for _, line := range p.router.Route(routable) {
		p.deliver(line)
	}
}

func (p *Pipeline) deliver(line route.Line) {
	buf, ok := p.buffers[line.Dest]
	if !ok {
		// Subscribed but never allocated; treat as a routing miss.
		p.logger.Warn("no buffer for destination", "dest", line.Dest)
		return
	}

	overrides, sounds := p.rules.Evaluate(line.Spans)
	spans := highlight.Apply(line.Spans, overrides)
	buf.AppendLogical(spans)

	for _, ev := range sounds {
		p.player.Play(ev.Path, ev.Volume)
	}
	if p.recorder != nil {
		if err := p.recorder.Append(context.Background(), line.Dest, style.Text(line.Spans)); err != nil {
			p.logger.Debug("logbook append failed", "err", err)
		}
	}
}

// SetRules swaps the highlight rule set. Evaluation is per completed line, so
// a swap never applies to half a line.
func (p *Pipeline) SetRules(rules []highlight.Rule) {
	p.rules = highlight.NewSet(rules, p.logger)
}

// SetWidth re-wraps every destination's scrollback to a new width.
func (p *Pipeline) SetWidth(width int) {
	p.width = width
	for _, buf := range p.buffers {
		buf.SetWidth(width)
	}
}

// Buffer returns the scrollback of a destination.
func (p *Pipeline) Buffer(dest string) (*buffer.Buffer, bool) {
	buf, ok := p.buffers[dest]
	return buf, ok
}

// State returns the game state updated by control elements.
func (p *Pipeline) State() *game.State { return p.state }

// Misses reports how many text elements had no subscribed destination.
func (p *Pipeline) Misses() uint64 { return p.router.Misses() }

// Disconnect discards partially accumulated lines on both sides of the
// router: text the parser is still holding and lines the router has started
// but not finished. Nothing is flushed; a half-received line is gone.
func (p *Pipeline) Disconnect() {
	for _, dest := range p.router.PendingDestinations() {
		p.logger.Debug("dropping partial line", "dest", dest)
	}
	p.router.DropPending()
	p.parser.Reset()
}
