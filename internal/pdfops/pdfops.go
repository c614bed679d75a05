// Package pdfops wraps the pdfcpu operations the assembly pipeline needs:
// merging, page geometry, document info, outlines, page labels and link
// annotations. Callers hand in file paths and get file paths back; pdfcpu
// contexts never escape this package.
package pdfops

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func conf() *model.Configuration {
	c := model.NewDefaultConfiguration()
	// Scanned exhibits are frequently produced by sloppy generators.
	c.ValidationMode = model.ValidationRelaxed
	return c
}

// PageCount returns the number of pages in a PDF.
func PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}

// Merge concatenates the inputs, in order, into one PDF.
func Merge(inputs []string, out string) error {
	if err := api.MergeCreateFile(inputs, out, false, conf()); err != nil {
		return fmt.Errorf("merge %d files: %w", len(inputs), err)
	}
	return nil
}

// PageDims returns the media box width and height of every page, in points.
func PageDims(path string) (widths, heights []float64, err error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("page dims %s: %w", path, err)
	}
	widths = make([]float64, len(dims))
	heights = make([]float64, len(dims))
	for i, d := range dims {
		widths[i] = d.Width
		heights[i] = d.Height
	}
	return widths, heights, nil
}

// CreationDate reads the document information dictionary and formats the
// creation date as dd.mm.yyyy. Returns "" when absent or unparsable.
func CreationDate(path string) string {
	ctx, err := api.ReadContextFile(path)
	if err != nil || ctx.Info == nil {
		return ""
	}
	d, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || d == nil {
		return ""
	}
	s := d.StringEntry("CreationDate")
	if s == nil {
		return ""
	}
	return formatPDFDate(*s)
}

// formatPDFDate parses the D:YYYYMMDD prefix of a PDF date string.
func formatPDFDate(raw string) string {
	raw = strings.TrimPrefix(raw, "D:")
	if len(raw) < 8 {
		return ""
	}
	t, err := time.Parse("20060102", raw[:8])
	if err != nil {
		return ""
	}
	return t.Format("02.01.2006")
}
