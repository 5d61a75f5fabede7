// Package report describes the numeral expressions of a text for the
// command-line tool and the HTTP API.
package report

import "github.com/kansuji-go/kansuji"

// Match is one numeral expression with its rendering.
type Match struct {
	Kind        string `json:"kind"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Source      string `json:"source"`
	Run         string `json:"run"`
	Denominator string `json:"denominator,omitempty"`
	// Value is the decoded run with digit grouping, without affixes.
	Value       string `json:"value,omitempty"`
	Replacement string `json:"replacement"`
	// Error is set when the expression is left unchanged.
	Error string `json:"error,omitempty"`
}

// Describe lists the matches of text in order. Declined matches keep
// their source text as replacement.
func Describe(conv *kansuji.Converter, text string) []Match {
	out := []Match{}
	for m := range kansuji.Matches(text) {
		out = append(out, describe(conv, m))
	}
	return out
}

func describe(conv *kansuji.Converter, m kansuji.Match) Match {
	rm := Match{
		Kind:        m.Kind.String(),
		Start:       m.Start,
		End:         m.End,
		Source:      m.Text,
		Run:         m.Run,
		Denominator: m.Denominator,
	}
	if v, err := kansuji.Decode(m.Run); err == nil {
		rm.Value = conv.FormatValue(v)
	}
	rep, err := conv.Format(m)
	if err != nil {
		rm.Replacement = m.Text
		rm.Error = err.Error()
		return rm
	}
	rm.Replacement = kansuji.Normalize(rep)
	return rm
}
