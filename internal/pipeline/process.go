package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/mosaic/internal/merge"
	"github.com/MeKo-Tech/mosaic/internal/ocr"
	"github.com/MeKo-Tech/mosaic/internal/utils"
)

// ErrImageDecode marks input images that cannot be read at all. It is the
// only failure Process surfaces to callers: engine failures degrade to an
// empty result so callers can distinguish "no text detected" from "could not
// process image".
var ErrImageDecode = errors.New("image decode failed")

// Process dispatches the image according to mode, then applies language
// identification over every region before returning. Engine failures never
// fail the call; if every engine fails the result is simply empty.
func (p *Pipeline) Process(ctx context.Context, img image.Image, mode Mode) (*RegionSet, error) {
	return p.ProcessWithProgress(ctx, img, mode, p.cfg.Progress)
}

// ProcessWithProgress is Process with a per-call engine completion observer,
// used by streaming callers. obs is only invoked in parallel mode.
func (p *Pipeline) ProcessWithProgress(ctx context.Context, img image.Image, mode Mode, obs merge.Observer) (*RegionSet, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrImageDecode)
	}
	start := time.Now()

	var blocks []ocr.Block
	switch mode.kind {
	case modeExplicit:
		blocks = p.recognizeExplicit(ctx, img, mode.script)
	case modeAutoSingle:
		blocks = merge.BestSingle(ctx, p.Pool, img)
	case modeAutoParallel:
		blocks = merge.Parallel(ctx, p.Pool, img, obs)
	}
	recognized := time.Now()

	regions := make([]Region, 0, len(blocks))
	for i := range blocks {
		regions = append(regions, p.labelRegion(&blocks[i]))
	}

	bounds := img.Bounds()
	rs := &RegionSet{
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Mode:    mode.String(),
		Regions: regions,
	}
	done := time.Now()
	rs.Processing.RecognitionNs = recognized.Sub(start).Nanoseconds()
	rs.Processing.LangIDNs = done.Sub(recognized).Nanoseconds()
	rs.Processing.TotalNs = done.Sub(start).Nanoseconds()
	return rs, nil
}

// ProcessFile decodes an image file and processes it.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, mode Mode) (*RegionSet, error) {
	img, err := utils.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return p.Process(ctx, img, mode)
}

// ProcessReader decodes an image from a reader and processes it.
func (p *Pipeline) ProcessReader(ctx context.Context, r io.Reader, mode Mode) (*RegionSet, error) {
	img, err := utils.DecodeImage(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return p.Process(ctx, img, mode)
}

// recognizeExplicit performs the single recognize call of explicit mode.
// An engine failure yields no blocks, not an error.
func (p *Pipeline) recognizeExplicit(ctx context.Context, img image.Image, script ocr.Script) []ocr.Block {
	res, err := p.Pool.Recognize(ctx, img, script)
	if err != nil {
		slog.Debug("explicit recognition failed", "script", script, "error", err)
		return nil
	}
	blocks := res.Blocks
	for i := range blocks {
		blocks[i].Script = script
	}
	return blocks
}

// labelRegion converts a block into a region and runs the language
// identification post-pass over it. An identifier failure keeps whichever
// label the block already carries; an undetermined result keeps the script
// label as fallback.
func (p *Pipeline) labelRegion(b *ocr.Block) Region {
	region := Region{
		Text:     b.Text,
		Box:      b.Box,
		Lines:    b.Lines,
		Script:   b.Script,
		Language: b.Language,
	}
	res, err := p.Identifier.Identify(b.Text)
	if err != nil {
		slog.Debug("language identification failed", "error", err)
		return region
	}
	if !res.Undetermined() {
		region.Language = res.Code
	}
	return region
}
