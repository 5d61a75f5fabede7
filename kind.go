package kansuji

// Kind is the context a numeral run was found in. Kinds are declared in
// matching priority order.
type Kind int

const (
	KindFraction Kind = iota
	KindCurrency
	KindYear
	KindMonth
	KindDay
	KindPersonCount
	KindRatio
	KindPercentage
	KindMonthCount
	KindWeek
	KindPeriod
	KindKinshipDegree
	KindCount
	KindAge
	KindCrimeCount
	KindOrdinalPrefix
	KindPreviousPrefix
	KindPossessivePrefix
	KindBareMan
)

var kindNames = [...]string{
	KindFraction:         "fraction",
	KindCurrency:         "currency",
	KindYear:             "year",
	KindMonth:            "month",
	KindDay:              "day",
	KindPersonCount:      "person_count",
	KindRatio:            "ratio",
	KindPercentage:       "percentage",
	KindMonthCount:       "month_count",
	KindWeek:             "week",
	KindPeriod:           "period",
	KindKinshipDegree:    "kinship_degree",
	KindCount:            "count",
	KindAge:              "age",
	KindCrimeCount:       "crime_count",
	KindOrdinalPrefix:    "ordinal_prefix",
	KindPreviousPrefix:   "previous_prefix",
	KindPossessivePrefix: "possessive_prefix",
	KindBareMan:          "bare_man",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every context kind in matching priority order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// pattern describes how one kind is recognized and rendered.
type pattern struct {
	kind Kind
	// prefix is matched before the run (第, 前, の).
	prefix string
	// notAfterPrefix rejects the match when the text right after the
	// prefix starts with one of these tokens.
	notAfterPrefix []string
	// separator splits the two runs of a fraction.
	separator string
	// suffix must follow the run.
	suffix string
	// notAfterRun rejects a run followed by one of these tokens; shorter
	// runs are retried.
	notAfterRun []string
	// output replaces suffix when rendering; empty keeps suffix.
	output   string
	alphabet runAlphabet
	// scale multiplies the decoded value (bare 万 quantities).
	scale int64
}

var compoundSuffixes = []string{"取得者", "債務者", "者", "方", "般"}

var directionSuffixes = []string{"方", "般"}

// patterns is ordered by priority: the first pattern that matches at a
// position wins.
var patterns = []pattern{
	{kind: KindFraction, separator: "分の"},
	{kind: KindCurrency, suffix: "円"},
	{kind: KindYear, suffix: "年"},
	{kind: KindMonth, suffix: "月"},
	{kind: KindDay, suffix: "日"},
	{kind: KindPersonCount, suffix: "人"},
	{kind: KindRatio, suffix: "割"},
	{kind: KindPercentage, suffix: "パーセント", output: "%", alphabet: alphaDecimal},
	{kind: KindMonthCount, suffix: "箇月"},
	{kind: KindWeek, suffix: "週"},
	{kind: KindPeriod, suffix: "期"},
	{kind: KindKinshipDegree, suffix: "親等"},
	{kind: KindCount, suffix: "個"},
	{kind: KindAge, suffix: "歳"},
	{kind: KindCrimeCount, suffix: "犯"},
	{kind: KindOrdinalPrefix, prefix: "第", notAfterRun: compoundSuffixes},
	{kind: KindPreviousPrefix, prefix: "前", notAfterRun: directionSuffixes},
	{kind: KindPossessivePrefix, prefix: "の", notAfterPrefix: []string{"一部"}, notAfterRun: directionSuffixes},
	{kind: KindBareMan, suffix: string(Man), alphabet: alphaNoLarge, scale: 10_000},
}

// Suffix returns the literal the kind appends to the rendered number,
// or "" for prefix kinds, fractions and bare 万 quantities.
func (k Kind) Suffix() string {
	p := patternFor(k)
	if p == nil || p.scale != 0 {
		return ""
	}
	if p.output != "" {
		return p.output
	}
	return p.suffix
}

// Prefix returns the literal the kind puts before the rendered number.
func (k Kind) Prefix() string {
	if p := patternFor(k); p != nil {
		return p.prefix
	}
	return ""
}

func patternFor(k Kind) *pattern {
	for i := range patterns {
		if patterns[i].kind == k {
			return &patterns[i]
		}
	}
	return nil
}
