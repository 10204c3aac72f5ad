// Package game holds the client-side view of server-pushed game state:
// vitals, round/cast timers, the prompt, link anchors, and menu entries. It
// is the collaborator that ControlUpdate elements are forwarded to; the
// ingestion pipeline itself never interprets them.
package game

import (
	"time"

	"mudlark/internal/protocol"
)

// Vital is one progress bar (health, mana, stamina, spirit...).
type Vital struct {
	ID    string
	Value int
	Max   int
	Text  string
}

// Percent returns the fill ratio in [0,1].
func (v Vital) Percent() float64 {
	if v.Max <= 0 {
		return 0
	}
	p := float64(v.Value) / float64(v.Max)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Link is the most recent link anchor seen in the stream.
type Link struct {
	ID   string
	Noun string
}

// MenuEntry is one entry of the server's context menu response.
type MenuEntry struct {
	Coord string
	Noun  string
}

// State is mutated only from the pipeline consumer loop and read only from
// the render layer, which runs on the same loop, so it carries no lock.
type State struct {
	vitals     map[string]Vital
	vitalOrder []string

	roundEnd time.Time
	castEnd  time.Time
	prompt   string

	lastLink Link
	menu     []MenuEntry
}

// NewState returns an empty game state.
func NewState() *State {
	return &State{vitals: map[string]Vital{}}
}

// HandleControl applies one control update. Values arrive already validated
// by the parser; malformed updates were dropped there and previous state
// kept.
func (s *State) HandleControl(cu protocol.ControlUpdate) {
	switch cu.Kind {
	case protocol.ControlProgress:
		if _, ok := s.vitals[cu.ID]; !ok {
			s.vitalOrder = append(s.vitalOrder, cu.ID)
		}
		s.vitals[cu.ID] = Vital{ID: cu.ID, Value: cu.Value, Max: cu.Max, Text: cu.Text}
	case protocol.ControlRoundTime:
		s.roundEnd = cu.End
	case protocol.ControlCastTime:
		s.castEnd = cu.End
	case protocol.ControlPrompt:
		s.prompt = cu.Text
	case protocol.ControlLink:
		s.lastLink = Link{ID: cu.ID, Noun: cu.Noun}
	case protocol.ControlMenuItem:
		s.menu = append(s.menu, MenuEntry{Coord: cu.Coord, Noun: cu.Noun})
	}
}

// Vitals returns the known vitals in first-seen order.
func (s *State) Vitals() []Vital {
	out := make([]Vital, 0, len(s.vitalOrder))
	for _, id := range s.vitalOrder {
		out = append(out, s.vitals[id])
	}
	return out
}

// Prompt returns the latest server prompt text.
func (s *State) Prompt() string { return s.prompt }

// RoundRemaining returns how much of the round timer is left at now.
func (s *State) RoundRemaining(now time.Time) time.Duration {
	return remaining(s.roundEnd, now)
}

// CastRemaining returns how much of the cast timer is left at now.
func (s *State) CastRemaining(now time.Time) time.Duration {
	return remaining(s.castEnd, now)
}

func remaining(end, now time.Time) time.Duration {
	if end.IsZero() || !end.After(now) {
		return 0
	}
	return end.Sub(now)
}

// LastLink returns the most recent link anchor.
func (s *State) LastLink() Link { return s.lastLink }

// Menu returns the accumulated menu entries.
func (s *State) Menu() []MenuEntry { return s.menu }

// ClearMenu resets the menu between context-menu responses.
func (s *State) ClearMenu() { s.menu = nil }
