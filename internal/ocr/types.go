package ocr

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MeKo-Tech/mosaic/internal/utils"
)

// Script identifies a script-specialized recognition engine.
type Script string

const (
	ScriptLatin      Script = "Latin"
	ScriptChinese    Script = "Chinese"
	ScriptJapanese   Script = "Japanese"
	ScriptKorean     Script = "Korean"
	ScriptDevanagari Script = "Devanagari"
)

// LaunchOrder returns all scripts in the order engines are launched and
// iterated. The order matters: the merge stage's flattened working list and
// the best-of selector's tie-break both follow it.
func LaunchOrder() []Script {
	return []Script{ScriptLatin, ScriptJapanese, ScriptChinese, ScriptKorean, ScriptDevanagari}
}

// ParseScript converts a case-insensitive script name into a Script.
func ParseScript(s string) (Script, error) {
	for _, sc := range LaunchOrder() {
		if strings.EqualFold(s, string(sc)) {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unknown script %q", s)
}

// TessLang returns the Tesseract traineddata identifier for the script.
func (s Script) TessLang() string {
	switch s {
	case ScriptLatin:
		return "eng"
	case ScriptChinese:
		return "chi_sim"
	case ScriptJapanese:
		return "jpn"
	case ScriptKorean:
		return "kor"
	case ScriptDevanagari:
		return "script/Devanagari"
	default:
		return ""
	}
}

// Element is the smallest recognized unit, typically a word.
// Box is nil when the engine reports no geometry for it.
type Element struct {
	Text string     `json:"text"`
	Box  *utils.Box `json:"box,omitempty"`
}

// Line is an ordered sequence of elements on one visual line.
// A line exclusively owns its elements.
type Line struct {
	Text     string     `json:"text"`
	Box      *utils.Box `json:"box,omitempty"`
	Elements []Element  `json:"elements,omitempty"`
}

// Block is a paragraph-level region. A block exclusively owns its lines.
// Script records the engine that produced the block; Language is the
// mutable label assigned during later processing stages.
type Block struct {
	Text     string     `json:"text"`
	Box      *utils.Box `json:"box,omitempty"`
	Lines    []Line     `json:"lines,omitempty"`
	Script   Script     `json:"script,omitempty"`
	Language string     `json:"language,omitempty"`
}

// TextLen returns the number of recognized characters (runes) in the block.
func (b *Block) TextLen() int { return utf8.RuneCountInString(b.Text) }

// Result is the per-engine output: an ordered list of blocks plus the
// identity of the engine that produced them.
type Result struct {
	Script Script  `json:"script"`
	Blocks []Block `json:"blocks"`
}

// Text returns the concatenated text of all blocks.
func (r *Result) Text() string {
	parts := make([]string, 0, len(r.Blocks))
	for i := range r.Blocks {
		parts = append(parts, r.Blocks[i].Text)
	}
	return strings.Join(parts, "\n")
}

// TextLen returns the aggregate recognized character count across blocks.
func (r *Result) TextLen() int {
	n := 0
	for i := range r.Blocks {
		n += r.Blocks[i].TextLen()
	}
	return n
}

// Blank reports whether the result contains no blocks or only whitespace.
func (r *Result) Blank() bool {
	if len(r.Blocks) == 0 {
		return true
	}
	return strings.TrimSpace(r.Text()) == ""
}
