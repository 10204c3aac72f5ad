package highlight

import (
	"regexp"
	"strings"
	"unicode/utf8"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
	"github.com/charmbracelet/log"

	"mudlark/internal/style"
)

// matcher is the single capability both matching strategies implement: find
// every match in a line's plain-text projection as half-open byte ranges.
// The variant is chosen once, at rule-compile time.
type matcher interface {
	find(plain string) [][2]int
}

// regexMatcher searches with a compiled stdlib regexp. Go's regexp is RE2:
// linear in the input, so hostile server text cannot trigger catastrophic
// backtracking.
type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) find(plain string) [][2]int {
	idx := m.re.FindAllStringIndex(plain, -1)
	out := make([][2]int, 0, len(idx))
	for _, p := range idx {
		out = append(out, [2]int{p[0], p[1]})
	}
	return out
}

// literalMatcher searches with an Aho-Corasick automaton built from the
// rule's |-delimited alternatives.
type literalMatcher struct {
	trie *ahocorasick.Trie
}

func (m literalMatcher) find(plain string) [][2]int {
	matches := m.trie.MatchString(plain)
	out := make([][2]int, 0, len(matches))
	for _, mt := range matches {
		start := int(mt.Pos())
		out = append(out, [2]int{start, start + len(mt.Match())})
	}
	return out
}

type compiledRule struct {
	Rule
	m matcher
}

// Set is an ordered, compiled rule list. It is immutable after construction;
// hot reload builds a fresh Set and swaps it in between lines.
type Set struct {
	rules    []compiledRule
	disabled []string
	logger   *log.Logger
}

// NewSet compiles rules in order. A rule whose pattern fails to compile is
// disabled and reported; the rest keep working.
func NewSet(rules []Rule, logger *log.Logger) *Set {
	if logger == nil {
		logger = log.Default()
	}
	s := &Set{logger: logger}
	for _, r := range rules {
		m, err := compileMatcher(r)
		if err != nil {
			s.disabled = append(s.disabled, r.Name)
			logger.Warn("highlight rule disabled", "rule", r.Name, "err", err)
			continue
		}
		s.rules = append(s.rules, compiledRule{Rule: r, m: m})
	}
	return s
}

func compileMatcher(r Rule) (matcher, error) {
	if r.Literal {
		patterns := make([]string, 0, 4)
		for _, p := range strings.Split(r.Pattern, "|") {
			if p != "" {
				patterns = append(patterns, p)
			}
		}
		trie := ahocorasick.NewTrieBuilder().AddStrings(patterns).Build()
		return literalMatcher{trie: trie}, nil
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return nil, err
	}
	return regexMatcher{re: re}, nil
}

// Len returns the number of active (compiled) rules.
func (s *Set) Len() int {
	return len(s.rules)
}

// Disabled lists the names of rules that failed to compile.
func (s *Set) Disabled() []string {
	return s.disabled
}

// Override restyles a half-open rune range of a logical line.
type Override struct {
	Start int
	End   int
	Style style.Style
}

// SoundEvent asks the sound collaborator to play a file. Fire-and-forget; it
// never affects styling.
type SoundEvent struct {
	Path   string
	Volume float64
}

// Evaluate runs every rule against the line's plain-text projection, in
// configuration order. Overrides come back in that order so a later rule's
// style wins where ranges overlap. A rule with a sound fires it at most once
// per line.
func (s *Set) Evaluate(spans []style.Span) ([]Override, []SoundEvent) {
	if len(s.rules) == 0 || len(spans) == 0 {
		return nil, nil
	}
	plain := style.Text(spans)
	if plain == "" {
		return nil, nil
	}
	byteToRune := runeIndex(plain)
	lineRunes := byteToRune[len(plain)]

	var overrides []Override
	var sounds []SoundEvent
	for _, cr := range s.rules {
		ranges := cr.m.find(plain)
		if len(ranges) == 0 {
			continue
		}
		if cr.ColorEntireLine {
			overrides = append(overrides, Override{Start: 0, End: lineRunes, Style: cr.Style()})
		} else {
			for _, rg := range ranges {
				overrides = append(overrides, Override{
					Start: byteToRune[rg[0]],
					End:   byteToRune[rg[1]],
					Style: cr.Style(),
				})
			}
		}
		if cr.Sound != "" {
			sounds = append(sounds, SoundEvent{Path: cr.Sound, Volume: cr.SoundVolume})
		}
	}
	return overrides, sounds
}

// runeIndex maps every byte offset of s (inclusive of len(s)) to its rune
// offset, so matcher byte ranges can be placed back onto span characters.
// Continuation bytes map to the rune they belong to.
func runeIndex(s string) []int {
	idx := make([]int, len(s)+1)
	n := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		for j := 0; j < size; j++ {
			idx[i+j] = n
		}
		i += size
		n++
	}
	idx[len(s)] = n
	return idx
}
