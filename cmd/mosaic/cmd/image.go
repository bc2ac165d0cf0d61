package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/mosaic/internal/config"
	"github.com/MeKo-Tech/mosaic/internal/pipeline"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatText = "text"
)

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image [files...]",
	Short: "Recognize and merge text regions in image files",
	Long: `Process one or more image files through the multi-script recognition
and merge pipeline.

Supported formats: JPEG, PNG, BMP, TIFF, WebP

Examples:
  mosaic image photo.jpg
  mosaic image sign.png --mode Latin
  mosaic image *.png --mode auto-single --format json --output results.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()
		mode, format, err := resolveProcessingFlags(cmd, cfg)
		if err != nil {
			return err
		}

		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = p.Close() }()

		var rendered []string
		for _, path := range args {
			rs, err := p.ProcessFile(cmd.Context(), path, mode)
			if err != nil {
				return fmt.Errorf("processing %s: %w", path, err)
			}
			pipeline.SortRegionsTopLeft(rs)
			out, err := renderRegionSet(rs, format)
			if err != nil {
				return err
			}
			rendered = append(rendered, out)
		}

		return writeOutput(cmd, cfg.Output.File, strings.Join(rendered, "\n"))
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.Flags().String("mode", "", "recognition mode: auto-parallel, auto-single, or a script name")
	imageCmd.Flags().StringP("format", "f", "", "output format (text, json, csv)")
	imageCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}

// resolveProcessingFlags merges CLI flags over config for mode and format.
func resolveProcessingFlags(cmd *cobra.Command, cfg *config.Config) (pipeline.Mode, string, error) {
	modeStr := cfg.Pipeline.Mode
	if cmd.Flags().Changed("mode") {
		modeStr, _ = cmd.Flags().GetString("mode")
	}
	mode, err := pipeline.ParseMode(modeStr)
	if err != nil {
		return pipeline.Mode{}, "", err
	}

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	switch format {
	case "", outputFormatText:
		format = outputFormatText
	case outputFormatJSON, outputFormatCSV:
	default:
		return pipeline.Mode{}, "", fmt.Errorf("invalid output format: %s (must be one of: text, json, csv)", format)
	}

	if cmd.Flags().Changed("output") {
		cfg.Output.File, _ = cmd.Flags().GetString("output")
	}
	return mode, format, nil
}

// buildPipeline constructs the recognition pipeline from configuration.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	scripts, err := cfg.ScriptList()
	if err != nil {
		return nil, err
	}
	return pipeline.NewBuilder().
		WithBackend(cfg.Pipeline.Backend).
		WithTessdataDir(cfg.Pipeline.TessdataDir).
		WithScripts(scripts...).
		WithLangIDFloor(cfg.Pipeline.LangID.ConfidenceFloor).
		Build()
}

func renderRegionSet(rs *pipeline.RegionSet, format string) (string, error) {
	switch format {
	case outputFormatJSON:
		return pipeline.ToJSON(rs)
	case outputFormatCSV:
		return pipeline.ToCSV(rs)
	default:
		return pipeline.ToPlainText(rs)
	}
}

func writeOutput(cmd *cobra.Command, file, content string) error {
	if file == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(file, []byte(content+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
