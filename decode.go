package kansuji

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownNumeral is returned when a decoder meets a character
	// outside the numeral alphabet. The matcher never produces such runs.
	ErrUnknownNumeral = errors.New("unknown numeral character")
	// ErrMalformedDecimal is returned for a percentage run with more than
	// one decimal marker, nothing but the marker, or a marker mixed with
	// unit characters.
	ErrMalformedDecimal = errors.New("malformed decimal run")
	// ErrOverflow is returned when a value does not fit in an int64.
	ErrOverflow = errors.New("numeral value overflows int64")
)

// Value is a decoded non-negative magnitude. Decimal values only come
// from positional runs that carry the decimal marker.
type Value struct {
	Int     int64
	Float   float64
	Decimal bool
}

// IntValue returns an integral Value.
func IntValue(n int64) Value {
	return Value{Int: n}
}

func (v Value) String() string {
	if v.Decimal {
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	}
	return strconv.FormatInt(v.Int, 10)
}

// Decode converts a numeral run to its value, picking the decoder by
// the run's grammar.
func Decode(run string) (Value, error) {
	if run == "" {
		return Value{}, fmt.Errorf("decode %q: %w", run, ErrUnknownNumeral)
	}
	if Classify(run) == Hierarchical {
		if strings.ContainsRune(run, DecimalMarker) {
			return Value{}, fmt.Errorf("decode %q: %w", run, ErrMalformedDecimal)
		}
		n, err := decodeHierarchical(run)
		if err != nil {
			return Value{}, fmt.Errorf("decode %q: %w", run, err)
		}
		return IntValue(n), nil
	}
	v, err := decodePositional(run)
	if err != nil {
		return Value{}, fmt.Errorf("decode %q: %w", run, err)
	}
	return v, nil
}

// decodePositional reads each character as one decimal digit, the
// decimal marker as the point.
func decodePositional(run string) (Value, error) {
	var b strings.Builder
	b.Grow(len(run))
	points := 0
	for _, r := range run {
		if r == DecimalMarker {
			points++
			b.WriteByte('.')
			continue
		}
		d, ok := DigitValue(r)
		if !ok {
			return Value{}, fmt.Errorf("%w %q", ErrUnknownNumeral, r)
		}
		b.WriteByte(byte('0' + d))
	}
	s := b.String()

	switch {
	case points > 1 || s == ".":
		return Value{}, ErrMalformedDecimal
	case points == 1:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, ErrMalformedDecimal
		}
		return Value{Float: f, Decimal: true}, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}, ErrOverflow
	}
	return IntValue(n), nil
}

// parseState is the scan state of the hierarchical decoder.
type parseState struct {
	// total holds segments already closed by a large unit.
	total int64
	// block accumulates digit-unit pairs of the open segment.
	block int64
	// digit is the pending digit, -1 when none.
	digit int64
}

// decodeHierarchical folds the run through parseState. Two adjacent
// digits are treated as separate addends, and a large unit with an
// empty segment counts as one of that unit.
func decodeHierarchical(run string) (int64, error) {
	st := parseState{digit: -1}
	for _, r := range run {
		if err := st.step(r); err != nil {
			return 0, err
		}
	}
	return st.finish()
}

func (st *parseState) step(r rune) error {
	if d, ok := DigitValue(r); ok {
		if st.digit != -1 {
			var ok bool
			if st.block, ok = addInt(st.block, st.digit); !ok {
				return ErrOverflow
			}
		}
		st.digit = d
		return nil
	}

	if u, ok := SmallUnitValue(r); ok {
		coef := int64(1)
		if st.digit != -1 {
			coef = st.digit
		}
		var ok bool
		if st.block, ok = addInt(st.block, coef*u); !ok {
			return ErrOverflow
		}
		st.digit = -1
		return nil
	}

	if u, ok := LargeUnitValue(r); ok {
		segment := st.block
		if st.digit != -1 {
			segment += st.digit
		}
		if segment == 0 {
			segment = 1
		}
		scaled, ok := mulInt(segment, u)
		if !ok {
			return ErrOverflow
		}
		if st.total, ok = addInt(st.total, scaled); !ok {
			return ErrOverflow
		}
		st.block = 0
		st.digit = -1
		return nil
	}

	return fmt.Errorf("%w %q", ErrUnknownNumeral, r)
}

func (st *parseState) finish() (int64, error) {
	rest := st.block
	if st.digit != -1 {
		rest += st.digit
	}
	total, ok := addInt(st.total, rest)
	if !ok {
		return 0, ErrOverflow
	}
	return total, nil
}

func addInt(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}
