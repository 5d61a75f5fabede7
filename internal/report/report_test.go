package report

import (
	"testing"

	"github.com/kansuji-go/kansuji"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDescribe(t *testing.T) {
	got := Describe(kansuji.New(), "三分の一と二千五百万円と三箇月")
	require.Len(t, got, 3)

	assert.Equal(t, Match{
		Kind: "fraction", Start: 0, End: 12, Source: "三分の一",
		Run: "一", Denominator: "三", Value: "1", Replacement: "1/3",
	}, got[0])
	assert.Equal(t, "currency", got[1].Kind)
	assert.Equal(t, "25,000,000", got[1].Value)
	assert.Equal(t, "25,000,000円", got[1].Replacement)
	assert.Equal(t, "3か月", got[2].Replacement)
}

func TestDescribe_Declined(t *testing.T) {
	in := "一二三四五六七八九〇一二三四五六七八九〇円"
	got := Describe(kansuji.New(), in)
	require.Len(t, got, 1)
	assert.Equal(t, in, got[0].Replacement)
	assert.Empty(t, got[0].Value)
	assert.Contains(t, got[0].Error, "overflows")
}

func TestDescribe_Language(t *testing.T) {
	got := Describe(kansuji.New(kansuji.WithLanguage(language.German)), "一万")
	require.Len(t, got, 1)
	assert.Equal(t, "bare_man", got[0].Kind)
	assert.Equal(t, "1", got[0].Value)
	assert.Equal(t, "10.000", got[0].Replacement)
}

func TestDescribe_Empty(t *testing.T) {
	got := Describe(kansuji.New(), "numerals: none")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
