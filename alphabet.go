package kansuji

// Numeral alphabet. Digits are positional symbols, small units multiply
// the digit before them inside a four-digit block, large units close a
// block and scale it.
const (
	// DecimalMarker is the middle dot used as a decimal point in
	// percentage runs (〇・五パーセント).
	DecimalMarker = '・'

	// Man is the ×10,000 large unit. A bare-man quantity is a run
	// immediately followed by it.
	Man = '万'
)

var digitValues = map[rune]int64{
	'〇': 0,
	'一': 1,
	'二': 2,
	'三': 3,
	'四': 4,
	'五': 5,
	'六': 6,
	'七': 7,
	'八': 8,
	'九': 9,
}

var smallUnitValues = map[rune]int64{
	'十': 10,
	'百': 100,
	'千': 1_000,
}

var largeUnitValues = map[rune]int64{
	'万': 10_000,
	'億': 100_000_000,
	'兆': 1_000_000_000_000,
}

// DigitValue returns the value 0-9 of a digit character.
func DigitValue(r rune) (int64, bool) {
	v, ok := digitValues[r]
	return v, ok
}

// SmallUnitValue returns the multiplier of 十, 百 or 千.
func SmallUnitValue(r rune) (int64, bool) {
	v, ok := smallUnitValues[r]
	return v, ok
}

// LargeUnitValue returns the multiplier of 万, 億 or 兆.
func LargeUnitValue(r rune) (int64, bool) {
	v, ok := largeUnitValues[r]
	return v, ok
}

// IsNumeral reports whether r is a digit, small unit or large unit.
// The decimal marker is not included; only percentage runs accept it.
func IsNumeral(r rune) bool {
	_, d := digitValues[r]
	_, s := smallUnitValues[r]
	_, l := largeUnitValues[r]
	return d || s || l
}

func isUnit(r rune) bool {
	_, s := smallUnitValues[r]
	_, l := largeUnitValues[r]
	return s || l
}

// runAlphabet selects which characters may extend a run.
type runAlphabet int

const (
	// alphaFull is digits plus every unit.
	alphaFull runAlphabet = iota
	// alphaDecimal is alphaFull plus the decimal marker.
	alphaDecimal
	// alphaNoLarge is digits plus small units (runs before a bare 万).
	alphaNoLarge
)

func (a runAlphabet) contains(r rune) bool {
	switch a {
	case alphaDecimal:
		return r == DecimalMarker || IsNumeral(r)
	case alphaNoLarge:
		_, d := digitValues[r]
		_, s := smallUnitValues[r]
		return d || s
	default:
		return IsNumeral(r)
	}
}
