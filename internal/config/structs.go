package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/mosaic/internal/langid"
	"github.com/MeKo-Tech/mosaic/internal/ocr"
)

// Config represents the complete configuration for the mosaic application.
// It supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
}

// PipelineConfig contains recognition pipeline settings.
type PipelineConfig struct {
	Backend     string        `mapstructure:"backend" yaml:"backend" json:"backend"`
	TessdataDir string        `mapstructure:"tessdata_dir" yaml:"tessdata_dir" json:"tessdata_dir"`
	Scripts     []string      `mapstructure:"scripts" yaml:"scripts" json:"scripts"`
	Mode        string        `mapstructure:"mode" yaml:"mode" json:"mode"`
	LangID      langid.Config `mapstructure:"langid" yaml:"langid" json:"langid"`
}

// OutputConfig contains output rendering settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host           string `mapstructure:"host" yaml:"host" json:"host"`
	Port           int    `mapstructure:"port" yaml:"port" json:"port"`
	MaxUploadMB    int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	scripts := make([]string, 0, len(ocr.LaunchOrder()))
	for _, s := range ocr.LaunchOrder() {
		scripts = append(scripts, string(s))
	}
	return &Config{
		LogLevel: "info",
		Pipeline: PipelineConfig{
			Backend: "tesseract",
			Scripts: scripts,
			Mode:    "auto-parallel",
			LangID:  langid.DefaultConfig(),
		},
		Output: OutputConfig{Format: "text"},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			MaxUploadMB:    32,
			TimeoutSeconds: 120,
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch c.Pipeline.Backend {
	case "tesseract", "stub":
	default:
		return fmt.Errorf("invalid backend %q", c.Pipeline.Backend)
	}
	if len(c.Pipeline.Scripts) == 0 {
		return fmt.Errorf("at least one script must be configured")
	}
	for _, s := range c.Pipeline.Scripts {
		if _, err := ocr.ParseScript(s); err != nil {
			return err
		}
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "text", "json", "csv":
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}
	if c.Pipeline.LangID.ConfidenceFloor < 0 || c.Pipeline.LangID.ConfidenceFloor > 1 {
		return fmt.Errorf("langid confidence floor must be within [0,1]")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// ScriptList converts the configured script names into ocr.Script values.
func (c *Config) ScriptList() ([]ocr.Script, error) {
	out := make([]ocr.Script, 0, len(c.Pipeline.Scripts))
	for _, s := range c.Pipeline.Scripts {
		script, err := ocr.ParseScript(s)
		if err != nil {
			return nil, err
		}
		out = append(out, script)
	}
	return out, nil
}

// ToYAML renders the configuration as YAML, for `mosaic engines` output and
// sample config generation.
func (c *Config) ToYAML() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
