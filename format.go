package kansuji

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format renders the replacement text of m: the decoded value with
// thousands grouping, wrapped in the literal prefix or suffix of its
// kind. Fractions render as numerator/denominator.
func (c *Converter) Format(m Match) (string, error) {
	p := patternFor(m.Kind)
	if p == nil {
		return "", fmt.Errorf("format %q: unknown kind %d", m.Text, m.Kind)
	}

	v, err := Decode(m.Run)
	if err != nil {
		return "", err
	}

	if m.Kind == KindFraction {
		den, err := Decode(m.Denominator)
		if err != nil {
			return "", err
		}
		return c.group(v) + "/" + c.group(den), nil
	}

	if p.scale != 0 {
		n, ok := mulInt(v.Int, p.scale)
		if !ok {
			return "", fmt.Errorf("scale %q: %w", m.Run, ErrOverflow)
		}
		v = IntValue(n)
	}
	return m.Kind.Prefix() + c.group(v) + m.Kind.Suffix(), nil
}

// FormatValue renders v with the converter's digit grouping.
func (c *Converter) FormatValue(v Value) string {
	return c.group(v)
}

// maxFractionDigits bounds the fraction digits of decimal values.
const maxFractionDigits = 3

func (c *Converter) group(v Value) string {
	pr := c.printers.Get().(*message.Printer)
	defer c.printers.Put(pr)
	if v.Decimal {
		f := roundHalfUp(v.Float, maxFractionDigits)
		return pr.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(maxFractionDigits)))
	}
	return pr.Sprintf("%v", number.Decimal(v.Int))
}

// roundHalfUp rounds the shortest decimal representation of a
// non-negative f to places fraction digits, ties away from zero.
// 0.1235 becomes 0.124 even though its binary value lies below the tie.
func roundHalfUp(f float64, places int) float64 {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	if len(frac) <= places {
		return f
	}
	up := frac[places] >= '5'
	digits := []byte(intPart + frac[:places])
	if up {
		i := len(digits) - 1
		for ; i >= 0 && digits[i] == '9'; i-- {
			digits[i] = '0'
		}
		if i < 0 {
			digits = append([]byte{'1'}, digits...)
		} else {
			digits[i]++
		}
	}
	n := len(digits) - places
	r, err := strconv.ParseFloat(string(digits[:n])+"."+string(digits[n:]), 64)
	if err != nil {
		return f
	}
	return r
}
