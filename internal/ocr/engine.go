package ocr

import (
	"context"
	"fmt"
	"image"
)

// Engine is a script-specialized recognition capability. Implementations may
// hold native resources; Close must release them. Engines are process-lifetime
// handles shared across recognitions, so Recognize must be safe for concurrent
// callers (serializing internally if the underlying handle is not reentrant).
type Engine interface {
	// Script returns the engine's script family.
	Script() Script
	// Recognize processes an image and returns a hierarchical text result.
	Recognize(ctx context.Context, img image.Image) (*Result, error)
	// Close releases any underlying native resources.
	Close() error
}

// EngineError reports a single recognizer failure. It is recovered locally by
// the selection and merge stages: the failing engine's contribution is empty
// and the overall operation continues.
type EngineError struct {
	Script Script
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %s: %v", e.Script, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }
