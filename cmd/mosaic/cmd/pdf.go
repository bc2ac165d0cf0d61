package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/mosaic/internal/pdf"
	"github.com/MeKo-Tech/mosaic/internal/pipeline"
)

// pdfCmd represents the pdf command.
var pdfCmd = &cobra.Command{
	Use:   "pdf [files...]",
	Short: "Recognize text in images embedded in PDF files",
	Long: `Extract the embedded page images of one or more PDF files and run each
through the multi-script recognition and merge pipeline.

Examples:
  mosaic pdf document.pdf
  mosaic pdf scan.pdf --pages 1-3 --format json`,
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

		pagesFlag, _ := cmd.Flags().GetString("pages")
		pages, err := pdf.ParsePageRange(pagesFlag)
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
			images, err := pdf.ExtractImages(path, pages)
			if err != nil {
				return fmt.Errorf("extracting %s: %w", path, err)
			}
			for _, page := range images {
				rs, err := p.Process(cmd.Context(), page.Image, mode)
				if err != nil {
					return fmt.Errorf("processing %s page %d: %w", path, page.Page, err)
				}
				pipeline.SortRegionsTopLeft(rs)
				out, err := renderRegionSet(rs, format)
				if err != nil {
					return err
				}
				rendered = append(rendered, out)
			}
		}

		return writeOutput(cmd, cfg.Output.File, strings.Join(rendered, "\n"))
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.Flags().String("mode", "", "recognition mode: auto-parallel, auto-single, or a script name")
	pdfCmd.Flags().StringP("format", "f", "", "output format (text, json, csv)")
	pdfCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	pdfCmd.Flags().String("pages", "", "page range, e.g. \"1-5\" or \"1,3,5\" (default all)")
}
