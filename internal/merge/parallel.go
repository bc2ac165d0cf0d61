package merge

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/MeKo-Tech/mosaic/internal/ocr"
	"github.com/MeKo-Tech/mosaic/internal/pool"
	"github.com/MeKo-Tech/mosaic/internal/utils"
)

// OverlapThreshold is the overlap ratio (intersection area over the smaller
// block's area) above which two blocks are considered duplicates.
const OverlapThreshold = 0.5

// Observer is notified as each engine's task completes, in no particular
// order. blocks is nil when the engine failed.
type Observer func(script ocr.Script, blocks []ocr.Block, err error)

// Parallel runs every engine concurrently, waits for all of them, and merges
// the flattened block list by geometric overlap. Engine failures are swallowed
// at the task boundary: they contribute an empty result and never abort
// sibling tasks. The flattened list preserves engine launch order followed by
// per-engine output order. Language labels are not assigned here.
func Parallel(ctx context.Context, p *pool.Pool, img image.Image, obs Observer) []ocr.Block {
	scripts := p.Scripts()
	perEngine := make([][]ocr.Block, len(scripts))

	var wg sync.WaitGroup
	for i, script := range scripts {
		wg.Add(1)
		go func(i int, script ocr.Script) {
			defer wg.Done()
			res, err := p.Recognize(ctx, img, script)
			if err != nil {
				slog.Debug("engine failed, contributing empty result", "script", script, "error", err)
				if obs != nil {
					obs(script, nil, err)
				}
				return
			}
			blocks := res.Blocks
			for j := range blocks {
				blocks[j].Script = script
			}
			perEngine[i] = blocks
			if obs != nil {
				obs(script, blocks, nil)
			}
		}(i, script)
	}
	wg.Wait()

	var flat []ocr.Block
	for _, blocks := range perEngine {
		flat = append(flat, blocks...)
	}
	return Dedup(flat)
}

// Dedup resolves geometric duplicates in list order. For each unconsumed
// block it scans the remaining unconsumed blocks, and whenever the running
// best match and a candidate overlap by more than OverlapThreshold, the block
// with the longer recognized text survives as the cluster's best match while
// the loser is consumed immediately. Blocks without a bounding box are never
// considered overlapping and always pass through. The scan resolves pairs in
// index order, so the surviving block of a 3+ way mutual overlap can depend on
// engine launch order.
func Dedup(blocks []ocr.Block) []ocr.Block {
	out := make([]ocr.Block, 0, len(blocks))
	consumed := make([]bool, len(blocks))

	for i := range blocks {
		if consumed[i] {
			continue
		}
		best := i
		for j := 0; j < len(blocks); j++ {
			if j == best || consumed[j] {
				continue
			}
			if !duplicate(&blocks[best], &blocks[j]) {
				continue
			}
			if blocks[j].TextLen() > blocks[best].TextLen() {
				consumed[best] = true
				best = j
				// The new best may overlap blocks already passed over,
				// so the scan restarts to keep the cluster closed.
				j = -1
			} else {
				consumed[j] = true
			}
		}
		consumed[best] = true
		out = append(out, blocks[best])
	}
	return out
}

func duplicate(a, b *ocr.Block) bool {
	if a.Box == nil || b.Box == nil {
		return false
	}
	if !a.Box.Intersects(*b.Box) {
		return false
	}
	return utils.OverlapRatio(*a.Box, *b.Box) > OverlapThreshold
}
