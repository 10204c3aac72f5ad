// Package protocol implements the streaming tag parser for the game-server
// wire format: plain text interleaved with inline markup that carries styling,
// stream routing, and game-state updates.
//
// The parser is a single-pass scanner that may be fed arbitrary chunks from a
// live socket. Any partially received tag or entity is carried inside the
// Parser between calls, so feeding a transcript byte-by-byte produces exactly
// the same elements as feeding it in one call.
package protocol

import (
	"strings"

	"github.com/charmbracelet/log"

	"mudlark/internal/style"
)

// MainStream is the implicit bottom of the stream stack. Output that arrives
// outside any pushStream/popStream pair belongs to it.
const MainStream = "main"

type scanMode int

const (
	modeText scanMode = iota
	modeTag
	modeEntity
)

// Parser converts the raw text stream into Elements. One instance exists per
// connection; it owns all parse state and is only touched from the consumer
// side of the pipeline, so it needs no locking.
type Parser struct {
	presets map[string]style.Style
	logger  *log.Logger

	mode     scanMode
	pending  strings.Builder // literal text not yet flushed as a Text element
	tagBuf   strings.Builder // partial tag body, between '<' and '>'
	tagQuote rune            // active quote char inside the tag, 0 if none
	entBuf   strings.Builder // partial entity name, between '&' and ';'

	colorStack  []style.Style
	presetStack []string
	boldDepth   int
	streamStack []string

	// prompt tags wrap their text in the tag body; while one is open the
	// literal stream is diverted here instead of into pending.
	capturingPrompt bool
	promptTime      string
	promptText      strings.Builder
}

// New creates a parser with the given preset-id to color table. A nil logger
// falls back to the package default.
func New(presets map[string]style.Style, logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	if presets == nil {
		presets = map[string]style.Style{}
	}
	return &Parser{
		presets:     presets,
		logger:      logger,
		streamStack: []string{MainStream},
	}
}

// ActiveStream returns the stream currently receiving text.
func (p *Parser) ActiveStream() string {
	return p.streamStack[len(p.streamStack)-1]
}

// StreamDepth returns the depth of the stream stack. It is never below 1.
func (p *Parser) StreamDepth() int {
	return len(p.streamStack)
}

// Reset discards all held state: partial text, an unterminated tag or
// entity, and the style and stream stacks. Used on disconnect, where a
// half-received line is dropped rather than flushed.
func (p *Parser) Reset() {
	p.mode = modeText
	p.pending.Reset()
	p.tagBuf.Reset()
	p.tagQuote = 0
	p.entBuf.Reset()
	p.colorStack = nil
	p.presetStack = nil
	p.boldDepth = 0
	p.streamStack = []string{MainStream}
	p.capturingPrompt = false
	p.promptTime = ""
	p.promptText.Reset()
}

// Feed scans one chunk and returns the elements completed by it. Partial
// constructs at the end of the chunk are held, not flushed, so results are
// identical for any chunking of the same input.
func (p *Parser) Feed(chunk string) []Element {
	var out []Element
	for _, r := range chunk {
		out = p.feedRune(r, out)
	}
	return out
}

func (p *Parser) feedRune(r rune, out []Element) []Element {
	switch p.mode {
	case modeText:
		return p.textRune(r, out)
	case modeTag:
		return p.tagRune(r, out)
	case modeEntity:
		return p.entityRune(r, out)
	}
	return out
}

func (p *Parser) textRune(r rune, out []Element) []Element {
	switch r {
	case '<':
		out = p.flushText(out)
		p.mode = modeTag
		p.tagBuf.Reset()
		p.tagQuote = 0
	case '&':
		p.mode = modeEntity
		p.entBuf.Reset()
	case '\n':
		if p.capturingPrompt {
			p.promptText.WriteRune(r)
			break
		}
		out = p.flushText(out)
		out = append(out, LineBreak{Stream: p.ActiveStream()})
	case '\r':
		// bare carriage returns are wire noise
	default:
		p.literal(r)
	}
	return out
}

// literal appends a decoded character to whichever buffer is collecting text.
func (p *Parser) literal(r rune) {
	if p.capturingPrompt {
		p.promptText.WriteRune(r)
		return
	}
	p.pending.WriteRune(r)
}

func (p *Parser) entityRune(r rune, out []Element) []Element {
	if r == ';' {
		name := p.entBuf.String()
		p.mode = modeText
		if dec, ok := decodeEntity(name); ok {
			p.literal(dec)
			return out
		}
		// Unknown entity: pass it through untouched.
		for _, lr := range "&" + name + ";" {
			p.literal(lr)
		}
		return out
	}
	if !entityChar(r) || p.entBuf.Len() >= maxEntityLen {
		// Not an entity after all. Emit what we swallowed and rescan the
		// current rune as ordinary text.
		name := p.entBuf.String()
		p.mode = modeText
		p.literal('&')
		for _, lr := range name {
			p.literal(lr)
		}
		return p.textRune(r, out)
	}
	p.entBuf.WriteRune(r)
	return out
}

func (p *Parser) tagRune(r rune, out []Element) []Element {
	if p.tagQuote != 0 {
		if r == p.tagQuote {
			p.tagQuote = 0
		}
		p.tagBuf.WriteRune(r)
		return out
	}
	switch r {
	case '\'', '"':
		p.tagQuote = r
		p.tagBuf.WriteRune(r)
	case '>':
		raw := p.tagBuf.String()
		p.mode = modeText
		p.tagBuf.Reset()
		out = p.handleTag(raw, out)
	default:
		p.tagBuf.WriteRune(r)
	}
	return out
}

// flushText converts accumulated literal text into a Text element using the
// current effective style and active stream.
func (p *Parser) flushText(out []Element) []Element {
	if p.pending.Len() == 0 {
		return out
	}
	text := p.pending.String()
	p.pending.Reset()
	return append(out, Text{
		Span:   style.Span{Text: text, Style: p.effectiveStyle()},
		Stream: p.ActiveStream(),
	})
}

// effectiveStyle derives the style for the next flushed span: the active
// preset's color, overridden by the innermost explicit color, bold while any
// pushBold is outstanding.
func (p *Parser) effectiveStyle() style.Style {
	var st style.Style
	if n := len(p.presetStack); n > 0 {
		if ps, ok := p.presets[p.presetStack[n-1]]; ok {
			st = ps
		}
	}
	if n := len(p.colorStack); n > 0 {
		st = st.Merge(p.colorStack[n-1])
	}
	if p.boldDepth > 0 {
		st.Bold = true
	}
	return st
}

func (p *Parser) handleTag(raw string, out []Element) []Element {
	name, attrs, closing := parseTag(raw)
	if name == "" {
		return out
	}

	// Pending text was already flushed when '<' was seen, so tag effects
	// cannot restyle or reroute characters that preceded them.
	switch name {
	case "pushStream":
		id := attrs["id"]
		if id == "" {
			p.logger.Debug("pushStream without id ignored")
			return out
		}
		p.streamStack = append(p.streamStack, id)
		// A stream's text renders in the preset named after it, so the
		// stream id doubles as a preset push.
		p.presetStack = append(p.presetStack, id)
		return append(out, StreamPush{Name: id})

	case "popStream":
		// The bottom "main" entry is permanent: an unbalanced pop is a
		// no-op rather than a corruption.
		if len(p.streamStack) > 1 {
			p.streamStack = p.streamStack[:len(p.streamStack)-1]
			if len(p.presetStack) > 0 {
				p.presetStack = p.presetStack[:len(p.presetStack)-1]
			}
			return append(out, StreamPop{})
		}
		return out

	case "pushBold":
		p.boldDepth++
		return out

	case "popBold":
		if p.boldDepth > 0 {
			p.boldDepth--
		}
		return out

	case "preset":
		if closing {
			if len(p.presetStack) > 0 {
				p.presetStack = p.presetStack[:len(p.presetStack)-1]
			}
			return out
		}
		p.presetStack = append(p.presetStack, attrs["id"])
		return out

	case "color":
		if closing {
			if len(p.colorStack) > 0 {
				p.colorStack = p.colorStack[:len(p.colorStack)-1]
			}
			return out
		}
		p.colorStack = append(p.colorStack, style.Style{
			Fg: style.Color(attrs["fg"]),
			Bg: style.Color(attrs["bg"]),
		})
		return out

	case "prompt":
		if closing {
			return p.finishPrompt(out)
		}
		p.capturingPrompt = true
		p.promptTime = attrs["time"]
		p.promptText.Reset()
		return out

	case "progressBar", "roundTime", "castTime", "a", "mi":
		if closing {
			// </a> and friends carry no state of their own.
			return out
		}
		if cu, ok := p.parseControl(name, attrs); ok {
			out = append(out, cu)
		}
		return out
	}

	// Unknown tag: attributes ignored, no element. Inner text keeps flowing
	// with the current style.
	return out
}
