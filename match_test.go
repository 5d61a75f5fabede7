package kansuji

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindAll(t *testing.T) {
	tests := []struct {
		in   string
		want []Match
	}{
		{
			in: "三分の一",
			want: []Match{
				{Kind: KindFraction, Start: 0, End: 12, Text: "三分の一", Run: "一", Denominator: "三"},
			},
		},
		{
			// の五 starts before 五割, so the possessive prefix wins.
			in: "第三期の五割",
			want: []Match{
				{Kind: KindOrdinalPrefix, Start: 0, End: 6, Text: "第三", Run: "三"},
				{Kind: KindPossessivePrefix, Start: 9, End: 15, Text: "の五", Run: "五"},
			},
		},
		{
			in: "約十万",
			want: []Match{
				{Kind: KindBareMan, Start: 3, End: 9, Text: "十万", Run: "十"},
			},
		},
		{
			in: "〇・五パーセント",
			want: []Match{
				{Kind: KindPercentage, Start: 0, End: 24, Text: "〇・五パーセント", Run: "〇・五"},
			},
		},
		{
			in: "第十一方",
			want: []Match{
				{Kind: KindOrdinalPrefix, Start: 0, End: 9, Text: "第十", Run: "十"},
			},
		},
		{in: "第一方"},
		{in: "その一部"},
		// malformed decimals still match; Convert leaves them unchanged
		{
			in: "十・五パーセント",
			want: []Match{
				{Kind: KindPercentage, Start: 0, End: 24, Text: "十・五パーセント", Run: "十・五"},
			},
		},
	}
	for _, tt := range tests {
		got := FindAll(tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("FindAll(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

// kindSamples holds one input per kind, each a single match of that kind.
var kindSamples = []struct {
	in   string
	want Kind
}{
	{"三分の一", KindFraction},
	{"五円", KindCurrency},
	{"五年", KindYear},
	{"五月", KindMonth},
	{"五日", KindDay},
	{"五人", KindPersonCount},
	{"五割", KindRatio},
	{"五パーセント", KindPercentage},
	{"五箇月", KindMonthCount},
	{"五週", KindWeek},
	{"五期", KindPeriod},
	{"五親等", KindKinshipDegree},
	{"五個", KindCount},
	{"五歳", KindAge},
	{"五犯", KindCrimeCount},
	{"第五", KindOrdinalPrefix},
	{"前五", KindPreviousPrefix},
	{"の五", KindPossessivePrefix},
	{"五万", KindBareMan},
	// the currency pattern takes the whole run, 万 included
	{"五万円", KindCurrency},
}

func TestMatchesPriority(t *testing.T) {
	for _, tt := range kindSamples {
		ms := FindAll(tt.in)
		if len(ms) != 1 {
			t.Errorf("FindAll(%q) = %v, want one match", tt.in, ms)
			continue
		}
		if ms[0].Kind != tt.want {
			t.Errorf("FindAll(%q)[0].Kind = %v, want %v", tt.in, ms[0].Kind, tt.want)
		}
	}
}

func TestMatchesRestartable(t *testing.T) {
	text := "一円と二円と三円"
	seq := Matches(text)

	var first, second []string
	for m := range seq {
		first = append(first, m.Text)
	}
	for m := range seq {
		second = append(second, m.Text)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}

	var stopped []string
	for m := range seq {
		stopped = append(stopped, m.Text)
		if len(stopped) == 2 {
			break
		}
	}
	if diff := cmp.Diff([]string{"一円", "二円"}, stopped); diff != "" {
		t.Errorf("early stop mismatch (-want +got):\n%s", diff)
	}
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != len(patterns) {
		t.Fatalf("Kinds() has %d entries, patterns has %d", len(kinds), len(patterns))
	}
	for i, k := range kinds {
		if patterns[i].kind != k {
			t.Errorf("patterns[%d].kind = %v, want %v", i, patterns[i].kind, k)
		}
		if k.String() == "unknown" {
			t.Errorf("Kind(%d) has no name", k)
		}
	}
	if got := KindPercentage.Suffix(); got != "%" {
		t.Errorf("KindPercentage.Suffix() = %q, want %q", got, "%")
	}
	if got := KindBareMan.Suffix(); got != "" {
		t.Errorf("KindBareMan.Suffix() = %q, want empty", got)
	}
	if got := KindOrdinalPrefix.Prefix(); got != "第" {
		t.Errorf("KindOrdinalPrefix.Prefix() = %q, want %q", got, "第")
	}
}
