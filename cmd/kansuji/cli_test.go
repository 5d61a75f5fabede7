package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kansuji-go/kansuji/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertStdin(t *testing.T) {
	out, err := execute(t, "令和六年の予算は二千五百万円", "convert")
	require.NoError(t, err)
	assert.Equal(t, "令和6年の予算は25,000,000円", out)
}

func TestConvertFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, text := range []string{"一円\n", "二円\n", "三円\n", "四円\n", "五円\n"} {
		p := filepath.Join(dir, string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(p, []byte(text), 0644))
		paths = append(paths, p)
	}

	out, err := execute(t, "", append([]string{"convert", "--jobs", "2"}, paths...)...)
	require.NoError(t, err)
	assert.Equal(t, "1円\n2円\n3円\n4円\n5円\n", out)
}

func TestConvertWriteShiftJIS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sjis.txt")
	src, err := japanese.ShiftJIS.NewEncoder().String("三箇月で十万人")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	out, err := execute(t, "", "convert", "--write", "--encoding", "shift_jis", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
	require.NoError(t, err)
	assert.Equal(t, "3か月で100,000人", string(got))
}

func TestConvertEncodingFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "kansuji.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("convert:\n  encoding: sjis\n"), 0644))

	src, err := japanese.ShiftJIS.NewEncoder().String("五円")
	require.NoError(t, err)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(src))
	cmd.SetArgs([]string{"--config", cfgPath, "convert"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "5円", out.String())
}

func TestConvertHTML(t *testing.T) {
	out, err := execute(t, "<p>五割</p><pre>五割</pre>", "convert", "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<p>5割</p><pre>五割</pre>")
}

func TestConvertErrors(t *testing.T) {
	_, err := execute(t, "", "convert", "--encoding", "latin1")
	assert.Error(t, err)

	_, err = execute(t, "", "convert", "--write")
	assert.Error(t, err)

	_, err = execute(t, "", "convert", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestMatchesJSON(t *testing.T) {
	out, err := execute(t, "", "matches", "--json", "三分の一と三箇月")
	require.NoError(t, err)

	var got []report.Match
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "fraction", got[0].Kind)
	assert.Equal(t, "1/3", got[0].Replacement)
	assert.Equal(t, "month_count", got[1].Kind)
	assert.Equal(t, "3か月", got[1].Replacement)
}

func TestMatchesText(t *testing.T) {
	out, err := execute(t, "第三期", "matches")
	require.NoError(t, err)
	assert.Equal(t, "ordinal_prefix\t0-6\t第三\t第3\n", out)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "kansuji "+version+"\n", out)
}
