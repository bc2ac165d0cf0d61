// Package pool provides named access to the fixed set of script-specific
// recognition engines and guarantees orderly release of their native
// resources.
package pool

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/MeKo-Tech/mosaic/internal/ocr"
)

// ErrClosed is returned when recognizing through a pool after Close.
var ErrClosed = errors.New("recognizer pool is closed")

// Pool holds the process-lifetime engine handles in launch order. Engine
// teardown and in-flight recognition are mutually exclusive: Recognize holds
// a read lock for the duration of the call and Close takes the write lock.
type Pool struct {
	mu       sync.RWMutex
	engines  []ocr.Engine
	byScript map[ocr.Script]ocr.Engine
	closed   bool
}

// New builds a pool from the given engines, preserving their order.
// Duplicate scripts are rejected.
func New(engines ...ocr.Engine) (*Pool, error) {
	if len(engines) == 0 {
		return nil, errors.New("pool requires at least one engine")
	}
	byScript := make(map[ocr.Script]ocr.Engine, len(engines))
	for _, e := range engines {
		if _, dup := byScript[e.Script()]; dup {
			return nil, fmt.Errorf("duplicate engine for script %s", e.Script())
		}
		byScript[e.Script()] = e
	}
	return &Pool{engines: engines, byScript: byScript}, nil
}

// Scripts returns the pool's scripts in launch order.
func (p *Pool) Scripts() []ocr.Script {
	out := make([]ocr.Script, len(p.engines))
	for i, e := range p.engines {
		out[i] = e.Script()
	}
	return out
}

// Size returns the number of engines in the pool.
func (p *Pool) Size() int { return len(p.engines) }

// Recognize dispatches the image to the engine for the named script.
func (p *Pool) Recognize(ctx context.Context, img image.Image, script ocr.Script) (*ocr.Result, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}
	eng, ok := p.byScript[script]
	if !ok {
		return nil, fmt.Errorf("no engine for script %s", script)
	}
	return eng.Recognize(ctx, img)
}

// Close releases every engine handle. It must run on all exit paths; engines
// hold native memory that is not reclaimed by garbage collection. Close waits
// for in-flight recognitions to drain and is safe to call more than once.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	var firstErr error
	for _, e := range p.engines {
		if err := e.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
