package ocr

import (
	"context"
	"image"
	"time"
)

// StubEngine is a deterministic in-memory engine used by tests and the
// stub CLI backend. It returns a fixed script of blocks or a fixed error.
type StubEngine struct {
	script Script
	blocks []Block
	err    error
	delay  time.Duration
	closed bool
}

// NewStubEngine creates a stub that returns the given blocks.
func NewStubEngine(script Script, blocks ...Block) *StubEngine {
	return &StubEngine{script: script, blocks: blocks}
}

// NewFailingStubEngine creates a stub whose Recognize always fails.
func NewFailingStubEngine(script Script, err error) *StubEngine {
	return &StubEngine{script: script, err: err}
}

// WithDelay makes Recognize sleep before returning, for concurrency tests.
func (e *StubEngine) WithDelay(d time.Duration) *StubEngine {
	e.delay = d
	return e
}

// Script returns the engine's script family.
func (e *StubEngine) Script() Script { return e.script }

// Recognize returns a copy of the configured blocks so callers can mutate
// their result without affecting later invocations.
func (e *StubEngine) Recognize(ctx context.Context, _ image.Image) (*Result, error) {
	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
			return nil, &EngineError{Script: e.script, Err: ctx.Err()}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, &EngineError{Script: e.script, Err: err}
	}
	if e.err != nil {
		return nil, &EngineError{Script: e.script, Err: e.err}
	}
	blocks := make([]Block, len(e.blocks))
	copy(blocks, e.blocks)
	for i := range blocks {
		blocks[i].Script = e.script
		if blocks[i].Box != nil {
			b := *blocks[i].Box
			blocks[i].Box = &b
		}
	}
	return &Result{Script: e.script, Blocks: blocks}, nil
}

// Closed reports whether Close has been called, for resource-release tests.
func (e *StubEngine) Closed() bool { return e.closed }

// Close marks the engine released.
func (e *StubEngine) Close() error {
	e.closed = true
	return nil
}
