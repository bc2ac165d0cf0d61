// Package pdf extracts embedded page images from PDF files so they can be
// fed through the recognition pipeline.
package pdf

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageImage is one image extracted from a PDF, tagged with its page number.
type PageImage struct {
	Page  int
	Image image.Image
}

// ExtractImages extracts all embedded images from a PDF file, ordered by page.
// pages may list specific page numbers; empty means all pages.
func ExtractImages(filename string, pages []int) ([]PageImage, error) {
	tempDir, err := os.MkdirTemp("", "mosaic-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var pageStrings []string
	if len(pages) > 0 {
		pageStrings = make([]string, len(pages))
		for i, p := range pages {
			pageStrings[i] = strconv.Itoa(p)
		}
	}

	if err := api.ExtractImagesFile(filename, tempDir, pageStrings, nil); err != nil {
		return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}

	return collectExtractedImages(tempDir)
}

// collectExtractedImages reads back the files pdfcpu wrote, in page order.
// pdfcpu names them page_<num>_image_<idx>.<ext>.
func collectExtractedImages(dir string) ([]PageImage, error) {
	var out []PageImage
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		pageNum, err := parsePageFromFilename(info.Name())
		if err != nil {
			return nil // not a page image
		}
		img, err := loadImageFile(path)
		if err != nil {
			return nil // skip unreadable images
		}
		out = append(out, PageImage{Page: pageNum, Image: img})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	return out, nil
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // G304: reading pdfcpu's own temp output
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	return img, err
}

func parsePageFromFilename(filename string) (int, error) {
	if !strings.HasPrefix(filename, "page_") {
		return 0, errors.New("not a page file")
	}
	parts := strings.Split(filename, "_")
	if len(parts) < 2 {
		return 0, errors.New("invalid filename format")
	}
	return strconv.Atoi(parts[1])
}

// ParsePageRange parses a range string like "1-5" or "1,3,5" into page numbers.
func ParsePageRange(pageRange string) ([]int, error) {
	if pageRange == "" {
		return nil, nil // all pages
	}
	var pages []int
	for _, part := range strings.Split(pageRange, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid page %q", lo)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid page %q", hi)
			}
			if start <= 0 || end < start {
				return nil, fmt.Errorf("invalid range %q", part)
			}
			for p := start; p <= end; p++ {
				pages = append(pages, p)
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil || p <= 0 {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		pages = append(pages, p)
	}
	return pages, nil
}
