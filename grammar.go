package kansuji

// Grammar is the notation a numeral run is written in.
type Grammar int

const (
	// Positional runs spell one digit per character (二〇二四).
	Positional Grammar = iota
	// Hierarchical runs carry unit characters (二千二十四).
	Hierarchical
)

func (g Grammar) String() string {
	if g == Hierarchical {
		return "hierarchical"
	}
	return "positional"
}

// Classify returns Hierarchical if run contains any small or large unit
// character and Positional otherwise.
func Classify(run string) Grammar {
	for _, r := range run {
		if isUnit(r) {
			return Hierarchical
		}
	}
	return Positional
}
