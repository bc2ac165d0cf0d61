package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	tests := []struct {
		input   string
		want    Script
		wantErr bool
	}{
		{"Latin", ScriptLatin, false},
		{"latin", ScriptLatin, false},
		{"CHINESE", ScriptChinese, false},
		{"japanese", ScriptJapanese, false},
		{"Korean", ScriptKorean, false},
		{"devanagari", ScriptDevanagari, false},
		{"klingon", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScript(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestLaunchOrder(t *testing.T) {
	want := []Script{ScriptLatin, ScriptJapanese, ScriptChinese, ScriptKorean, ScriptDevanagari}
	assert.Equal(t, want, LaunchOrder())
}

func TestTessLang(t *testing.T) {
	assert.Equal(t, "eng", ScriptLatin.TessLang())
	assert.Equal(t, "chi_sim", ScriptChinese.TessLang())
	assert.Equal(t, "jpn", ScriptJapanese.TessLang())
	assert.Equal(t, "kor", ScriptKorean.TessLang())
	assert.Equal(t, "script/Devanagari", ScriptDevanagari.TessLang())
}

func TestBlockTextLenCountsRunes(t *testing.T) {
	b := Block{Text: "こんにちは"}
	assert.Equal(t, 5, b.TextLen())

	b = Block{Text: "Hello"}
	assert.Equal(t, 5, b.TextLen())

	b = Block{}
	assert.Equal(t, 0, b.TextLen())
}

func TestResultAggregates(t *testing.T) {
	r := Result{
		Script: ScriptJapanese,
		Blocks: []Block{{Text: "東京"}, {Text: "こんにちは"}},
	}
	assert.Equal(t, 7, r.TextLen())
	assert.Equal(t, "東京\nこんにちは", r.Text())
	assert.False(t, r.Blank())
}

func TestResultBlank(t *testing.T) {
	empty := Result{Script: ScriptLatin}
	assert.True(t, empty.Blank())

	whitespace := Result{Script: ScriptLatin, Blocks: []Block{{Text: "  "}, {Text: "\n"}}}
	assert.True(t, whitespace.Blank())

	real := Result{Script: ScriptLatin, Blocks: []Block{{Text: "a"}}}
	assert.False(t, real.Blank())
}
