package protocol

import (
	"strconv"
	"strings"
	"time"
)

// parseTag splits a raw tag body (the text between '<' and '>') into its name,
// attribute map, and whether it is a closing tag. Attribute values may be
// single-quoted, double-quoted, or bare. Self-closing slashes are ignored; the
// distinction does not matter to the dispatcher.
func parseTag(raw string) (name string, attrs map[string]string, closing bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "/")
	if strings.HasPrefix(raw, "/") {
		closing = true
		raw = raw[1:]
	}

	i := 0
	for i < len(raw) && !isSpace(raw[i]) {
		i++
	}
	name = raw[:i]
	attrs = map[string]string{}

	for i < len(raw) {
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		start := i
		for i < len(raw) && raw[i] != '=' && !isSpace(raw[i]) {
			i++
		}
		key := raw[start:i]
		if key == "" {
			break
		}
		if i >= len(raw) || raw[i] != '=' {
			attrs[key] = ""
			continue
		}
		i++ // '='
		var val string
		if i < len(raw) && (raw[i] == '\'' || raw[i] == '"') {
			quote := raw[i]
			i++
			vstart := i
			for i < len(raw) && raw[i] != quote {
				i++
			}
			val = raw[vstart:i]
			if i < len(raw) {
				i++ // closing quote
			}
		} else {
			vstart := i
			for i < len(raw) && !isSpace(raw[i]) {
				i++
			}
			val = raw[vstart:i]
		}
		attrs[key] = val
	}
	return name, attrs, closing
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// parseControl builds a ControlUpdate from a leaf data tag. A malformed
// numeric attribute drops the whole update so collaborators never see a
// half-valid value; the previous external state stays as it was.
func (p *Parser) parseControl(name string, attrs map[string]string) (ControlUpdate, bool) {
	switch name {
	case "progressBar":
		value, err := strconv.Atoi(attrs["value"])
		if err != nil {
			p.logger.Warn("progressBar with bad value dropped", "id", attrs["id"], "value", attrs["value"])
			return ControlUpdate{}, false
		}
		max := 100
		if m, ok := attrs["max"]; ok && m != "" {
			max, err = strconv.Atoi(m)
			if err != nil {
				p.logger.Warn("progressBar with bad max dropped", "id", attrs["id"], "max", m)
				return ControlUpdate{}, false
			}
		}
		return ControlUpdate{
			Kind:  ControlProgress,
			ID:    attrs["id"],
			Value: value,
			Max:   max,
			Text:  attrs["text"],
		}, true

	case "roundTime", "castTime":
		end, err := strconv.ParseInt(attrs["value"], 10, 64)
		if err != nil {
			p.logger.Warn("timer with bad value dropped", "tag", name, "value", attrs["value"])
			return ControlUpdate{}, false
		}
		kind := ControlRoundTime
		if name == "castTime" {
			kind = ControlCastTime
		}
		return ControlUpdate{Kind: kind, End: time.Unix(end, 0)}, true

	case "a":
		return ControlUpdate{
			Kind: ControlLink,
			ID:   attrs["exist"],
			Noun: attrs["noun"],
		}, true

	case "mi":
		return ControlUpdate{
			Kind:  ControlMenuItem,
			Coord: attrs["coord"],
			Noun:  attrs["noun"],
		}, true
	}
	return ControlUpdate{}, false
}

// finishPrompt closes an open prompt capture and emits the prompt update.
func (p *Parser) finishPrompt(out []Element) []Element {
	if !p.capturingPrompt {
		return out
	}
	p.capturingPrompt = false
	text := p.promptText.String()
	p.promptText.Reset()

	var end time.Time
	if p.promptTime != "" {
		secs, err := strconv.ParseInt(p.promptTime, 10, 64)
		if err != nil {
			p.logger.Warn("prompt with bad time dropped", "time", p.promptTime)
			return out
		}
		end = time.Unix(secs, 0)
	}
	return append(out, ControlUpdate{Kind: ControlPrompt, Text: text, End: end})
}
