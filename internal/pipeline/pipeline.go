// Package pipeline wires the recognizer pool, the merge policies and the
// language identifier into the single entry point exposed to callers.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/mosaic/internal/langid"
	"github.com/MeKo-Tech/mosaic/internal/merge"
	"github.com/MeKo-Tech/mosaic/internal/ocr"
	"github.com/MeKo-Tech/mosaic/internal/pool"
)

// Backend names for engine construction.
const (
	BackendTesseract = "tesseract"
	BackendStub      = "stub"
)

// Config holds configuration for the recognition pipeline.
type Config struct {
	Backend     string
	TessdataDir string
	Scripts     []ocr.Script
	LangID      langid.Config

	// Progress is notified per engine during parallel merge. Optional.
	Progress merge.Observer
}

// DefaultConfig returns a default pipeline config.
func DefaultConfig() Config {
	return Config{
		Backend: BackendTesseract,
		Scripts: ocr.LaunchOrder(),
		LangID:  langid.DefaultConfig(),
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg        Config
	engines    []ocr.Engine
	identifier langid.Identifier
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithBackend selects the engine backend ("tesseract" or "stub").
func (b *Builder) WithBackend(backend string) *Builder {
	if backend != "" {
		b.cfg.Backend = backend
	}
	return b
}

// WithTessdataDir sets the traineddata directory for Tesseract engines.
func (b *Builder) WithTessdataDir(dir string) *Builder {
	b.cfg.TessdataDir = dir
	return b
}

// WithScripts restricts the pool to the given scripts, keeping launch order.
func (b *Builder) WithScripts(scripts ...ocr.Script) *Builder {
	if len(scripts) > 0 {
		b.cfg.Scripts = scripts
	}
	return b
}

// WithEngines supplies pre-built engines, overriding backend construction.
// Used by embedders and tests.
func (b *Builder) WithEngines(engines ...ocr.Engine) *Builder {
	b.engines = engines
	return b
}

// WithIdentifier supplies a custom language identifier.
func (b *Builder) WithIdentifier(id langid.Identifier) *Builder {
	b.identifier = id
	return b
}

// WithLangIDFloor sets the identification confidence floor.
func (b *Builder) WithLangIDFloor(floor float64) *Builder {
	if floor > 0 {
		b.cfg.LangID.ConfidenceFloor = floor
	}
	return b
}

// WithProgress sets a per-engine completion callback for parallel merge.
func (b *Builder) WithProgress(obs merge.Observer) *Builder {
	b.cfg.Progress = obs
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// Pipeline is the recognition orchestrator. Pool and Identifier are
// process-lifetime handles released by Close.
type Pipeline struct {
	cfg        Config
	Pool       *pool.Pool
	Identifier langid.Identifier
}

// Build initializes the engine pool and the language identifier.
func (b *Builder) Build() (*Pipeline, error) {
	if len(b.cfg.Scripts) == 0 {
		return nil, errors.New("no scripts configured")
	}

	engines := b.engines
	if engines == nil {
		built, err := b.buildEngines()
		if err != nil {
			return nil, err
		}
		engines = built
	}

	p, err := pool.New(engines...)
	if err != nil {
		for _, e := range engines {
			_ = e.Close()
		}
		return nil, fmt.Errorf("init pool: %w", err)
	}

	identifier := b.identifier
	if identifier == nil {
		identifier = langid.NewHeuristic(b.cfg.LangID)
	}

	return &Pipeline{cfg: b.cfg, Pool: p, Identifier: identifier}, nil
}

func (b *Builder) buildEngines() ([]ocr.Engine, error) {
	engines := make([]ocr.Engine, 0, len(b.cfg.Scripts))
	for _, script := range b.cfg.Scripts {
		var (
			eng ocr.Engine
			err error
		)
		switch b.cfg.Backend {
		case BackendTesseract:
			eng, err = ocr.NewTesseractEngine(script, ocr.TesseractConfig{TessdataDir: b.cfg.TessdataDir})
		case BackendStub:
			eng = ocr.NewStubEngine(script)
		default:
			err = fmt.Errorf("unknown backend %q", b.cfg.Backend)
		}
		if err != nil {
			for _, built := range engines {
				_ = built.Close()
			}
			return nil, fmt.Errorf("init %s engine: %w", script, err)
		}
		engines = append(engines, eng)
	}
	return engines, nil
}

// Close releases all resources. It must run on every exit path.
func (p *Pipeline) Close() error {
	var firstErr error
	if p.Pool != nil {
		if err := p.Pool.Close(); err != nil {
			firstErr = err
		}
		p.Pool = nil
	}
	if p.Identifier != nil {
		if err := p.Identifier.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.Identifier = nil
	}
	return firstErr
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Info returns a map with key pipeline properties.
func (p *Pipeline) Info() map[string]interface{} {
	info := map[string]interface{}{
		"backend": p.cfg.Backend,
	}
	if p.Pool != nil {
		scripts := p.Pool.Scripts()
		names := make([]string, len(scripts))
		for i, s := range scripts {
			names[i] = string(s)
		}
		info["scripts"] = names
		info["engines"] = p.Pool.Size()
	}
	info["langid"] = map[string]interface{}{
		"confidence_floor": p.cfg.LangID.ConfidenceFloor,
		"min_chars":        p.cfg.LangID.MinChars,
	}
	return info
}
