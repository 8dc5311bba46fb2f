package fuzzy

import "slices"

type candidate struct {
	span Span
	errs int
}

// locate finds the occurrences of p in t with at most maxErrors edits.
// It returns the lowest edit count found and the non-overlapping spans of
// every accepted occurrence.
func locate(p, t []rune, maxErrors int) (int, []Span, bool) {
	if len(p) == 0 || len(t) == 0 {
		return 0, nil, false
	}
	if spans := exact(p, t); len(spans) > 0 {
		return 0, spans, true
	}
	if maxErrors <= 0 {
		return 0, nil, false
	}
	return approximate(p, t, maxErrors)
}

// exact returns every non-overlapping exact occurrence of p in t.
func exact(p, t []rune) []Span {
	var spans []Span
	for i := 0; i+len(p) <= len(t); {
		if slices.Equal(t[i:i+len(p)], p) {
			spans = append(spans, Span{Start: i, End: i + len(p) - 1})
			i += len(p)
			continue
		}
		i++
	}
	return spans
}

// approximate runs Sellers' algorithm: edit distance where the match may
// start anywhere in t. Alongside each cell it carries the text offset the
// alignment started at, so accepted end positions map back to spans.
func approximate(p, t []rune, maxErrors int) (int, []Span, bool) {
	m := len(p)
	prev := make([]int, m+1)
	prevStart := make([]int, m+1)
	cur := make([]int, m+1)
	curStart := make([]int, m+1)
	for i := range prev {
		prev[i] = i
	}

	var cands []candidate
	for j := 1; j <= len(t); j++ {
		cur[0], curStart[0] = 0, j
		for i := 1; i <= m; i++ {
			cost := 1
			if p[i-1] == t[j-1] {
				cost = 0
			}
			best, start := prev[i-1]+cost, prevStart[i-1]
			if v := prev[i] + 1; v < best {
				best, start = v, prevStart[i]
			}
			if v := cur[i-1] + 1; v < best {
				best, start = v, curStart[i-1]
			}
			cur[i], curStart[i] = best, start
		}
		if cur[m] <= maxErrors && curStart[m] <= j-1 {
			cands = append(cands, candidate{span: Span{Start: curStart[m], End: j - 1}, errs: cur[m]})
		}
		prev, cur = cur, prev
		prevStart, curStart = curStart, prevStart
	}
	if len(cands) == 0 {
		return 0, nil, false
	}

	spans, minErrs := pickNonOverlapping(cands)
	return minErrs, spans, true
}

// pickNonOverlapping collapses runs of overlapping candidates into the one
// with the fewest edits (earliest wins ties).
func pickNonOverlapping(cands []candidate) ([]Span, int) {
	var spans []Span
	best := cands[0]
	minErrs := best.errs
	for _, c := range cands[1:] {
		if c.errs < minErrs {
			minErrs = c.errs
		}
		if c.span.Start <= best.span.End {
			if c.errs < best.errs {
				best = c
			}
			continue
		}
		spans = append(spans, best.span)
		best = c
	}
	spans = append(spans, best.span)
	return spans, minErrs
}
