package pipeline

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/mosaic/internal/ocr"
	"github.com/MeKo-Tech/mosaic/internal/utils"
)

// Region is one deduplicated text region of the final output.
type Region struct {
	Text     string     `json:"text"`
	Box      *utils.Box `json:"box,omitempty"`
	Lines    []ocr.Line `json:"lines,omitempty"`
	Script   ocr.Script `json:"script,omitempty"`
	Language string     `json:"language,omitempty"`
}

// RegionSet is the final output of one process invocation: an ordered,
// deduplicated, language-labeled list of regions. Ownership transfers to the
// caller on return.
type RegionSet struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Mode    string   `json:"mode"`
	Regions []Region `json:"regions"`

	Processing struct {
		RecognitionNs int64 `json:"recognition_ns"`
		LangIDNs      int64 `json:"langid_ns"`
		TotalNs       int64 `json:"total_ns"`
	} `json:"processing"`
}

// Text returns the concatenated region texts, one region per line.
func (rs *RegionSet) Text() string {
	parts := make([]string, 0, len(rs.Regions))
	for i := range rs.Regions {
		if t := strings.TrimSpace(rs.Regions[i].Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

type modeKind int

const (
	modeExplicit modeKind = iota
	modeAutoSingle
	modeAutoParallel
)

// Mode selects how the orchestrator dispatches recognition: a single explicit
// script, sequential best-single-engine selection, or parallel merge.
type Mode struct {
	kind   modeKind
	script ocr.Script
}

// AutoSingle tries every engine sequentially and keeps the richest result.
var AutoSingle = Mode{kind: modeAutoSingle}

// AutoParallel runs every engine concurrently and merges overlapping regions.
var AutoParallel = Mode{kind: modeAutoParallel}

// Explicit bypasses selection and merge entirely for a known script.
func Explicit(script ocr.Script) Mode {
	return Mode{kind: modeExplicit, script: script}
}

// ParseMode converts a CLI/API mode string: "auto-single", "auto-parallel",
// or a script name for explicit mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "auto-single", "single":
		return AutoSingle, nil
	case "auto-parallel", "parallel", "auto":
		return AutoParallel, nil
	}
	script, err := ocr.ParseScript(s)
	if err != nil {
		return Mode{}, fmt.Errorf("invalid mode %q: want auto-single, auto-parallel or a script name", s)
	}
	return Explicit(script), nil
}

func (m Mode) String() string {
	switch m.kind {
	case modeAutoSingle:
		return "auto-single"
	case modeAutoParallel:
		return "auto-parallel"
	default:
		return string(m.script)
	}
}
