// Package kansuji rewrites Japanese numerals written in kanji as Arabic
// numerals with digit grouping, keeping the counter or prefix that gives
// the number its meaning (二千二十四年 → 2,024年, 三分の一 → 1/3).
//
// Only numerals inside the recognized contexts are converted; any other
// text, numerals included, is copied through unchanged.
package kansuji

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Converter holds the rendering settings and provides the public API.
// A Converter is safe for concurrent use.
type Converter struct {
	// tag selects the digit grouping of rendered numbers.
	tag language.Tag

	// log receives one debug entry per declined match.
	log *zap.Logger

	// printers pools message.Printer values, which are not safe for
	// concurrent use.
	printers sync.Pool
}

// An Option configures a Converter.
type Option func(*Converter)

// WithLanguage sets the locale used for digit grouping. The default is
// Japanese.
func WithLanguage(t language.Tag) Option {
	return func(c *Converter) {
		c.tag = t
	}
}

// WithLogger sets the logger for declined matches.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Converter configured by opts.
func New(opts ...Option) *Converter {
	c := &Converter{
		tag: language.Japanese,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.printers.New = func() any {
		return message.NewPrinter(c.tag)
	}
	return c
}

// Language returns the locale used for digit grouping.
func (c *Converter) Language() language.Tag {
	return c.tag
}

var defaultConverter = New()

// Convert rewrites every recognized numeral expression in text using
// Japanese digit grouping. It never fails: text without a recognized
// expression is returned unchanged.
func Convert(text string) string {
	return defaultConverter.Convert(text)
}

// Convert rewrites every recognized numeral expression in text.
func (c *Converter) Convert(text string) string {
	return c.ConvertReport(text).Text
}

// Decline is a match whose value could not be rendered. Its span is
// left unchanged in the output.
type Decline struct {
	Match Match
	Err   error
}

// Report holds the result of a conversion along with what happened to
// each match.
type Report struct {
	// Text is the converted text.
	Text string
	// Replaced counts the matches that were rewritten.
	Replaced int
	// Declined lists the matches left as they were.
	Declined []Decline
}

// Changed reports whether the conversion altered the input.
func (r Report) Changed(input string) bool {
	return r.Text != input
}

// ConvertReport is Convert with per-match bookkeeping.
func (c *Converter) ConvertReport(text string) Report {
	var rep Report
	if !containsNumeral(text) {
		rep.Text = Normalize(text)
		return rep
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for m := range Matches(text) {
		b.WriteString(text[last:m.Start])
		last = m.End

		out, err := c.Format(m)
		if err != nil {
			c.log.Debug("numeral left unchanged",
				zap.String("kind", m.Kind.String()),
				zap.String("text", m.Text),
				zap.Error(err))
			rep.Declined = append(rep.Declined, Decline{Match: m, Err: err})
			b.WriteString(m.Text)
			continue
		}
		rep.Replaced++
		b.WriteString(out)
	}
	b.WriteString(text[last:])

	rep.Text = Normalize(b.String())
	return rep
}
