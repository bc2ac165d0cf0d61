package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/MeKo-Tech/mosaic/internal/utils"
)

// TesseractConfig holds settings for Tesseract-backed engines.
type TesseractConfig struct {
	// TessdataDir overrides the traineddata directory (TESSDATA_PREFIX).
	TessdataDir string
}

// TesseractEngine recognizes text in a single script family using a Tesseract
// client handle. The handle is not reentrant, so Recognize serializes access;
// the five script engines still run against each other concurrently.
type TesseractEngine struct {
	script Script

	mu        sync.Mutex
	client    *gosseract.Client
	closeOnce sync.Once
	closeErr  error
}

// NewTesseractEngine creates an engine bound to the script's traineddata.
func NewTesseractEngine(script Script, cfg TesseractConfig) (*TesseractEngine, error) {
	client := gosseract.NewClient()
	if cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataDir); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(script.TessLang()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set language %s: %w", script.TessLang(), err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set page seg mode: %w", err)
	}
	return &TesseractEngine{script: script, client: client}, nil
}

// Script returns the engine's script family.
func (e *TesseractEngine) Script() Script { return e.script }

// Recognize runs Tesseract over the image and assembles the word-level output
// into the block/line/element hierarchy.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (*Result, error) {
	if img == nil {
		return nil, &EngineError{Script: e.script, Err: fmt.Errorf("nil image")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &EngineError{Script: e.script, Err: err}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &EngineError{Script: e.script, Err: fmt.Errorf("encode image: %w", err)}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil, &EngineError{Script: e.script, Err: fmt.Errorf("engine closed")}
	}

	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, &EngineError{Script: e.script, Err: fmt.Errorf("set image: %w", err)}
	}
	boxes, err := e.client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, &EngineError{Script: e.script, Err: fmt.Errorf("recognize: %w", err)}
	}

	return &Result{Script: e.script, Blocks: assembleBlocks(e.script, boxes)}, nil
}

// Close releases the Tesseract client. Safe to call multiple times.
func (e *TesseractEngine) Close() error {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.client != nil {
			e.closeErr = e.client.Close()
			e.client = nil
		}
	})
	return e.closeErr
}

// assembleBlocks groups word-level bounding boxes into blocks and lines using
// Tesseract's block/paragraph/line numbering, which arrives in reading order.
func assembleBlocks(script Script, boxes []gosseract.BoundingBox) []Block {
	var blocks []Block
	var curBlock *Block
	var curLine *Line
	lastBlock, lastPar, lastLine := -1, -1, -1

	flushLine := func() {
		if curLine == nil || len(curLine.Elements) == 0 {
			curLine = nil
			return
		}
		words := make([]string, 0, len(curLine.Elements))
		box := utils.Box{}
		for _, el := range curLine.Elements {
			words = append(words, el.Text)
			if el.Box != nil {
				box = box.Union(*el.Box)
			}
		}
		curLine.Text = strings.Join(words, " ")
		if !box.Empty() {
			b := box
			curLine.Box = &b
		}
		curBlock.Lines = append(curBlock.Lines, *curLine)
		curLine = nil
	}
	flushBlock := func() {
		flushLine()
		if curBlock == nil || len(curBlock.Lines) == 0 {
			curBlock = nil
			return
		}
		lines := make([]string, 0, len(curBlock.Lines))
		box := utils.Box{}
		for _, ln := range curBlock.Lines {
			lines = append(lines, ln.Text)
			if ln.Box != nil {
				box = box.Union(*ln.Box)
			}
		}
		curBlock.Text = strings.Join(lines, "\n")
		if !box.Empty() {
			b := box
			curBlock.Box = &b
		}
		blocks = append(blocks, *curBlock)
		curBlock = nil
	}

	for _, bb := range boxes {
		word := strings.TrimSpace(bb.Word)
		if word == "" {
			continue
		}
		if curBlock == nil || bb.BlockNum != lastBlock {
			flushBlock()
			curBlock = &Block{Script: script}
			lastBlock = bb.BlockNum
			lastPar, lastLine = -1, -1
		}
		if curLine == nil || bb.ParNum != lastPar || bb.LineNum != lastLine {
			flushLine()
			curLine = &Line{}
			lastPar, lastLine = bb.ParNum, bb.LineNum
		}
		box := utils.NewBox(
			float64(bb.Box.Min.X), float64(bb.Box.Min.Y),
			float64(bb.Box.Max.X), float64(bb.Box.Max.Y),
		)
		curLine.Elements = append(curLine.Elements, Element{Text: word, Box: &box})
	}
	flushBlock()
	return blocks
}
