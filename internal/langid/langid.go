// Package langid scores text against known languages and returns the best
// code above a confidence floor, or undetermined.
package langid

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
)

const (
	// DefaultConfidenceFloor is the engine-enforced confidence below which a
	// result is treated as undetermined.
	DefaultConfidenceFloor = 0.3
	// DefaultMinChars is the minimum text length worth scoring at all.
	DefaultMinChars = 2
)

// Undetermined is the code returned when no language clears the floor.
const Undetermined = "und"

// Result is a scored identification. Code is Undetermined when no language
// cleared the confidence floor; Tag is language.Und in that case.
type Result struct {
	Tag        language.Tag `json:"-"`
	Code       string       `json:"code"`
	Confidence float64      `json:"confidence"`
}

// Undetermined reports whether the identification did not clear the floor.
func (r Result) Undetermined() bool { return r.Code == Undetermined }

// Identifier scores a text string against known languages.
type Identifier interface {
	Identify(text string) (Result, error)
	Close() error
}

// Config holds identifier settings.
type Config struct {
	ConfidenceFloor float64 `mapstructure:"confidence_floor" yaml:"confidence_floor" json:"confidence_floor"`
	MinChars        int     `mapstructure:"min_chars" yaml:"min_chars" json:"min_chars"`
}

// DefaultConfig returns the default identifier configuration.
func DefaultConfig() Config {
	return Config{ConfidenceFloor: DefaultConfidenceFloor, MinChars: DefaultMinChars}
}

// Heuristic is a rune-class language scorer. It distinguishes the CJK,
// Hangul and Devanagari scripts directly and separates Latin-script
// languages by diacritic frequency. Confidence is the share of letters
// supporting the winning language.
type Heuristic struct {
	cfg Config
}

// NewHeuristic creates a heuristic identifier.
func NewHeuristic(cfg Config) *Heuristic {
	if cfg.ConfidenceFloor <= 0 {
		cfg.ConfidenceFloor = DefaultConfidenceFloor
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = DefaultMinChars
	}
	return &Heuristic{cfg: cfg}
}

type runeCounts struct {
	letters    int
	ascii      int
	han        int
	kana       int
	hangul     int
	devanagari int
	german     int
	french     int
	spanish    int
}

func countRunes(s string) runeCounts {
	var c runeCounts
	for _, r := range s {
		if unicode.IsLetter(r) {
			c.letters++
		}
		switch {
		case r <= 0x007F:
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				c.ascii++
			}
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			c.kana++
		case unicode.Is(unicode.Han, r):
			c.han++
		case unicode.Is(unicode.Hangul, r):
			c.hangul++
		case unicode.Is(unicode.Devanagari, r):
			c.devanagari++
		case r >= 0x00C0 && r <= 0x017F:
			switch r {
			case 'ä', 'ö', 'ü', 'Ä', 'Ö', 'Ü', 'ß':
				c.german++
			case 'è', 'ê', 'à', 'ù', 'ç', 'È', 'À', 'Ç':
				c.french++
			case 'á', 'í', 'ó', 'ú', 'ñ', 'Á', 'Í', 'Ó', 'Ú', 'Ñ':
				c.spanish++
			}
		}
	}
	return c
}

// Identify scores the text. It never returns an error; the error return
// exists for identifier implementations backed by fallible engines.
func (h *Heuristic) Identify(text string) (Result, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < h.cfg.MinChars {
		return undetermined(0), nil
	}
	c := countRunes(text)
	if c.letters == 0 {
		return undetermined(0), nil
	}

	code, support := classify(c)
	conf := float64(support) / float64(c.letters)
	// Combining marks count toward support but not letters, so clamp.
	if conf > 1 {
		conf = 1
	}
	if code == "" || conf < h.cfg.ConfidenceFloor {
		return undetermined(conf), nil
	}
	tag := language.Make(code)
	return Result{Tag: tag, Code: tag.String(), Confidence: conf}, nil
}

// classify picks the best language code and the count of letters supporting it.
func classify(c runeCounts) (string, int) {
	// Any kana at all marks Japanese; Han characters then count toward it.
	if c.kana > 0 {
		return "ja", c.kana + c.han
	}
	if c.han > 0 && c.han >= c.hangul && c.han >= c.devanagari {
		return "zh", c.han
	}
	if c.hangul > 0 && c.hangul >= c.devanagari {
		return "ko", c.hangul
	}
	if c.devanagari > 0 {
		return "hi", c.devanagari
	}
	// Latin script: diacritics first, then predominantly-ASCII English.
	if c.german > c.french && c.german > c.spanish {
		return "de", c.ascii + c.german
	}
	if c.french > c.german && c.french > c.spanish {
		return "fr", c.ascii + c.french
	}
	if c.spanish > c.german && c.spanish > c.french {
		return "es", c.ascii + c.spanish
	}
	if c.ascii > 0 && c.ascii*100/c.letters > 80 {
		return "en", c.ascii
	}
	return "", 0
}

func undetermined(conf float64) Result {
	return Result{Tag: language.Und, Code: Undetermined, Confidence: conf}
}

// Close releases the identifier. The heuristic holds no native resources but
// keeps interface parity with engine-backed identifiers.
func (h *Heuristic) Close() error { return nil }
