package kansuji

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// Match is one numeral expression found in a text.
type Match struct {
	Kind Kind
	// Start and End are byte offsets of the matched span.
	Start, End int
	// Text is the matched span, prefix and suffix included.
	Text string
	// Run is the numeral run. For fractions it is the numerator.
	Run string
	// Denominator is the run before 分の. Fractions only.
	Denominator string
}

// Matches returns the non-overlapping numeral expressions of text from
// left to right. At every position the patterns are tried in priority
// order and the first one that matches is taken; otherwise the scan
// moves on by one character. The sequence can be ranged over any
// number of times.
func Matches(text string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for i := 0; i < len(text); {
			if m, ok := matchAt(text, i); ok {
				if !yield(m) {
					return
				}
				i = m.End
				continue
			}
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
		}
	}
}

// FindAll collects every match of text.
func FindAll(text string) []Match {
	var out []Match
	for m := range Matches(text) {
		out = append(out, m)
	}
	return out
}

func matchAt(text string, i int) (Match, bool) {
	for idx := range patterns {
		if m, ok := patterns[idx].match(text, i); ok {
			return m, true
		}
	}
	return Match{}, false
}

func (p *pattern) match(text string, start int) (Match, bool) {
	pos := start
	if p.prefix != "" {
		if !strings.HasPrefix(text[pos:], p.prefix) {
			return Match{}, false
		}
		pos += len(p.prefix)
		if hasAnyPrefix(text[pos:], p.notAfterPrefix) {
			return Match{}, false
		}
	}

	ends := scanRun(text, pos, p.alphabet)
	if len(ends) == 0 {
		return Match{}, false
	}
	runEnd := ends[len(ends)-1]
	m := Match{Kind: p.kind, Start: start}

	switch {
	case p.separator != "":
		if !strings.HasPrefix(text[runEnd:], p.separator) {
			return Match{}, false
		}
		second := runEnd + len(p.separator)
		tail := scanRun(text, second, p.alphabet)
		if len(tail) == 0 {
			return Match{}, false
		}
		m.Denominator = text[pos:runEnd]
		m.Run = text[second:tail[len(tail)-1]]
		m.End = tail[len(tail)-1]

	case p.suffix != "":
		if !strings.HasPrefix(text[runEnd:], p.suffix) {
			return Match{}, false
		}
		m.Run = text[pos:runEnd]
		m.End = runEnd + len(p.suffix)

	default:
		// Back off one character at a time until the run is no longer
		// followed by an excluded token.
		found := false
		for j := len(ends) - 1; j >= 0; j-- {
			if !hasAnyPrefix(text[ends[j]:], p.notAfterRun) {
				runEnd, found = ends[j], true
				break
			}
		}
		if !found {
			return Match{}, false
		}
		m.Run = text[pos:runEnd]
		m.End = runEnd
	}

	m.Text = text[start:m.End]
	return m, true
}

// scanRun returns the byte offset after each character of the longest
// run starting at pos, so ends[len(ends)-1] is the end of the run.
func scanRun(text string, pos int, alpha runAlphabet) []int {
	var ends []int
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !alpha.contains(r) {
			break
		}
		pos += size
		ends = append(ends, pos)
	}
	return ends
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
