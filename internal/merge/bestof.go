// Package merge implements the two policies for reconciling the outputs of
// multiple script-specific recognizers: best-single-engine selection and
// parallel merge by geometric overlap.
package merge

import (
	"context"
	"image"
	"log/slog"

	"github.com/MeKo-Tech/mosaic/internal/ocr"
	"github.com/MeKo-Tech/mosaic/internal/pool"
)

// BestSingle runs every engine sequentially and returns the blocks of the one
// whose aggregate recognized character count is largest among engines that
// produced at least one non-blank block. Individual engine failures are
// skipped. Ties go to the engine earlier in pool order. Every returned block
// is labeled with the winning engine's script name. Returns an empty slice
// when no engine survives.
func BestSingle(ctx context.Context, p *pool.Pool, img image.Image) []ocr.Block {
	var best *ocr.Result
	bestLen := 0
	for _, script := range p.Scripts() {
		res, err := p.Recognize(ctx, img, script)
		if err != nil {
			slog.Debug("engine failed, skipping", "script", script, "error", err)
			continue
		}
		if res.Blank() {
			continue
		}
		if n := res.TextLen(); n > bestLen {
			best = res
			bestLen = n
		}
	}
	if best == nil {
		return []ocr.Block{}
	}
	blocks := best.Blocks
	for i := range blocks {
		blocks[i].Script = best.Script
		blocks[i].Language = string(best.Script)
	}
	return blocks
}
