package highlight

import (
	"sort"

	"mudlark/internal/style"
)

// Apply rewrites a logical line's spans with the given overrides. Spans are
// split at every override boundary, never merged, so the output carries the
// exact same text as the input in potentially more, narrower spans. Overrides
// are applied in slice order: where two overlap, the later one's style wins
// for the overlapping runes.
func Apply(spans []style.Span, overrides []Override) []style.Span {
	if len(overrides) == 0 || len(spans) == 0 {
		return spans
	}

	runes, spanStyles, spanStarts := flatten(spans)
	total := len(runes)
	if total == 0 {
		return spans
	}

	// Cut points: original span starts plus every override edge, clamped to
	// the line. Each segment between consecutive cuts is style-uniform.
	cutSet := map[int]bool{0: true, total: true}
	for _, s := range spanStarts {
		cutSet[s] = true
	}
	for _, ov := range overrides {
		cutSet[clamp(ov.Start, 0, total)] = true
		cutSet[clamp(ov.End, 0, total)] = true
	}
	cuts := make([]int, 0, len(cutSet))
	for c := range cutSet {
		cuts = append(cuts, c)
	}
	sort.Ints(cuts)

	out := make([]style.Span, 0, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		start, end := cuts[i], cuts[i+1]
		if start == end {
			continue
		}
		st := spanStyles[start]
		for _, ov := range overrides {
			if ov.Start <= start && end <= clamp(ov.End, 0, total) && ov.Start < ov.End {
				st = st.Merge(ov.Style)
			}
		}
		out = append(out, style.Span{Text: string(runes[start:end]), Style: st})
	}
	return out
}

// flatten expands spans into a rune array with a parallel per-rune base
// style, plus the rune offset where each span starts.
func flatten(spans []style.Span) (runes []rune, styles []style.Style, starts []int) {
	for _, sp := range spans {
		starts = append(starts, len(runes))
		for _, r := range sp.Text {
			runes = append(runes, r)
			styles = append(styles, sp.Style)
		}
	}
	return runes, styles, starts
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
