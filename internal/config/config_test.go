package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/mosaic/internal/ocr"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "tesseract", cfg.Pipeline.Backend)
	assert.Equal(t, "auto-parallel", cfg.Pipeline.Mode)
	assert.Len(t, cfg.Pipeline.Scripts, 5)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }},
		{"bad backend", func(c *Config) { c.Pipeline.Backend = "abbyy" }},
		{"no scripts", func(c *Config) { c.Pipeline.Scripts = nil }},
		{"unknown script", func(c *Config) { c.Pipeline.Scripts = []string{"Latin", "Klingon"} }},
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }},
		{"floor above one", func(c *Config) { c.Pipeline.LangID.ConfidenceFloor = 1.5 }},
		{"negative port", func(c *Config) { c.Server.Port = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestScriptList(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.Scripts = []string{"latin", "Japanese"}

	scripts, err := cfg.ScriptList()
	require.NoError(t, err)
	assert.Equal(t, []ocr.Script{ocr.ScriptLatin, ocr.ScriptJapanese}, scripts)

	cfg.Pipeline.Scripts = []string{"Elvish"}
	_, err = cfg.ScriptList()
	assert.Error(t, err)
}

func TestToYAML(t *testing.T) {
	out, err := DefaultConfig().ToYAML()
	require.NoError(t, err)
	assert.Contains(t, out, "backend: tesseract")
	assert.Contains(t, out, "confidence_floor: 0.3")
}

func TestLoadWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mosaic.yaml")
	content := `
log_level: debug
pipeline:
  backend: stub
  scripts: [Latin, Korean]
  mode: auto-single
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewLoaderWithViper(viper.New()).LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "stub", cfg.Pipeline.Backend)
	assert.Equal(t, []string{"Latin", "Korean"}, cfg.Pipeline.Scripts)
	assert.Equal(t, "auto-single", cfg.Pipeline.Mode)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Unset keys fall back to defaults.
	assert.Equal(t, 32, cfg.Server.MaxUploadMB)
}

func TestLoadWithFileMissing(t *testing.T) {
	_, err := NewLoaderWithViper(viper.New()).LoadWithFile("/nonexistent/mosaic.yaml")
	assert.Error(t, err)
}

func TestLoadWithFileInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mosaic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline:\n  backend: abbyy\n"), 0o644))

	_, err := NewLoaderWithViper(viper.New()).LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
