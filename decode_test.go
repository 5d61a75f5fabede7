package kansuji

import (
	"errors"
	"strings"
	"testing"
)

func TestAlphabet(t *testing.T) {
	lookups := []struct {
		name string
		fn   func(rune) (int64, bool)
		in   rune
		want int64
		ok   bool
	}{
		{"DigitValue", DigitValue, '〇', 0, true},
		{"DigitValue", DigitValue, '七', 7, true},
		{"DigitValue", DigitValue, '九', 9, true},
		{"DigitValue", DigitValue, '十', 0, false},
		{"DigitValue", DigitValue, '7', 0, false},
		{"SmallUnitValue", SmallUnitValue, '十', 10, true},
		{"SmallUnitValue", SmallUnitValue, '百', 100, true},
		{"SmallUnitValue", SmallUnitValue, '千', 1_000, true},
		{"SmallUnitValue", SmallUnitValue, '万', 0, false},
		{"LargeUnitValue", LargeUnitValue, '万', 10_000, true},
		{"LargeUnitValue", LargeUnitValue, '億', 100_000_000, true},
		{"LargeUnitValue", LargeUnitValue, '兆', 1_000_000_000_000, true},
		{"LargeUnitValue", LargeUnitValue, '一', 0, false},
	}
	for _, tt := range lookups {
		got, ok := tt.fn(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s(%q) = %d, %v, want %d, %v", tt.name, tt.in, got, ok, tt.want, tt.ok)
		}
	}

	for _, r := range "〇一二三四五六七八九十百千万億兆" {
		if !IsNumeral(r) {
			t.Errorf("IsNumeral(%q) = false, want true", r)
		}
	}
	for _, r := range "・円aあ零" {
		if IsNumeral(r) {
			t.Errorf("IsNumeral(%q) = true, want false", r)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want Grammar
	}{
		{"二〇二四", Positional},
		{"〇・五", Positional},
		{"五", Positional},
		{"二千二十四", Hierarchical},
		{"十", Hierarchical},
		{"万", Hierarchical},
		{"一億", Hierarchical},
	}
	for _, tt := range tests {
		if got := Classify(tt.in); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeInteger(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		// positional
		{"二〇二四", 2024},
		{"〇", 0},
		{"〇〇一", 1},
		{"五五", 55},
		{"一九九五", 1995},
		// hierarchical
		{"二千二十四", 2024},
		{"百〇八", 108},
		{"一万", 10_000},
		{"二千五百万", 25_000_000},
		{"万", 10_000},
		{"十", 10},
		{"千", 1_000},
		{"二十五", 25},
		{"十二", 12},
		{"三百六十五", 365},
		{"一億二千万", 120_000_000},
		{"三兆", 3_000_000_000_000},
		{"九千九百九十九兆九千九百九十九億九千九百九十九万九千九百九十九", 9_999_999_999_999_999},
		// adjacent digits fold the first one into the block
		{"十五五", 20},
		// a large unit with an empty segment counts once
		{"億万", 100_010_000},
	}
	for _, tt := range tests {
		got, err := Decode(tt.in)
		if err != nil {
			t.Errorf("Decode(%q): %v", tt.in, err)
			continue
		}
		if got.Decimal || got.Int != tt.want {
			t.Errorf("Decode(%q) = %v, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDecodeDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"〇・五", 0.5},
		{"一二・五", 12.5},
		{"・五", 0.5},
		{"五・", 5},
	}
	for _, tt := range tests {
		got, err := Decode(tt.in)
		if err != nil {
			t.Errorf("Decode(%q): %v", tt.in, err)
			continue
		}
		if !got.Decimal || got.Float != tt.want {
			t.Errorf("Decode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrUnknownNumeral},
		{"二x", ErrUnknownNumeral},
		{"千・五", ErrMalformedDecimal},
		{"・", ErrMalformedDecimal},
		{"一・二・三", ErrMalformedDecimal},
		{"一二三四五六七八九〇一二三四五六七八九〇", ErrOverflow},
		{strings.Repeat("九千兆", 2000), ErrOverflow},
	}
	for _, tt := range tests {
		_, err := Decode(tt.in)
		if !errors.Is(err, tt.want) {
			t.Errorf("Decode(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestPositionalRoundTrip(t *testing.T) {
	digits := []rune("〇一二三四五六七八九")
	for i := range digits {
		for j := range digits {
			run := string([]rune{digits[i], digits[j], digits[i]})
			want := int64(i*100 + j*10 + i)
			got, err := Decode(run)
			if err != nil {
				t.Fatalf("Decode(%q): %v", run, err)
			}
			if got.Int != want {
				t.Errorf("Decode(%q) = %d, want %d", run, got.Int, want)
			}
		}
	}
}
