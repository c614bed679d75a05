// Package extract pulls text lines with bounding boxes out of rendered PDF
// pages. The hyperlink stage uses it to find index rows on the page.
package extract

import (
	"fmt"
	"math"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Line is one extracted text line with its bounding box. Coordinates use a
// top-left origin; the annotation writer flips them back into PDF space.
type Line struct {
	Text   string
	X0, X1 float64
	Top    float64
	Bottom float64
}

// Page holds the extracted lines of one page.
type Page struct {
	Number int // 0-based position in the document
	Height float64
	Lines  []Line
}

// baselineTolerance folds tiny baseline drift into one line. Table cells
// drawn side by side share a baseline exactly; anything further apart is a
// different row.
const baselineTolerance = 2.0

// estimatedAdvance approximates a glyph's horizontal extent as a fraction of
// its font size. The reader reports zero width for glyphs on some generators'
// output, so the extent cannot always be read directly.
const estimatedAdvance = 0.6

// Pages extracts text lines from pages [from, to) of a PDF. heights supplies
// the media box height of every page in the file, indexed from 0.
func Pages(path string, from, to int, heights []float64) ([]Page, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if to > r.NumPage() {
		to = r.NumPage()
	}
	var pages []Page
	for i := from; i < to; i++ {
		p := r.Page(i + 1) // reader pages are 1-based
		if p.V.IsNull() {
			continue
		}
		var h float64
		if i < len(heights) {
			h = heights[i]
		}
		glyphs, err := pageGlyphs(p)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i+1, err)
		}
		pages = append(pages, Page{Number: i, Height: h, Lines: linesFromGlyphs(glyphs, h)})
	}
	return pages, nil
}

// pageGlyphs reads a page's positioned glyphs. The reader panics on some
// malformed content streams, so the panic is converted to an error here.
func pageGlyphs(p pdflib.Page) (glyphs []pdflib.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("content stream: %v", r)
		}
	}()
	return p.Content().Text, nil
}

// linesFromGlyphs groups positioned glyphs by baseline into text lines,
// topmost line first.
func linesFromGlyphs(glyphs []pdflib.Text, pageHeight float64) []Line {
	gs := make([]pdflib.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			gs = append(gs, g)
		}
	}
	if len(gs) == 0 {
		return nil
	}
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].Y > gs[j].Y })

	var lines []Line
	start := 0
	for i := 1; i <= len(gs); i++ {
		if i < len(gs) && math.Abs(gs[i].Y-gs[start].Y) <= baselineTolerance {
			continue
		}
		if ln, ok := lineFromGlyphs(gs[start:i], pageHeight); ok {
			lines = append(lines, ln)
		}
		start = i
	}
	return lines
}

func lineFromGlyphs(glyphs []pdflib.Text, pageHeight float64) (Line, bool) {
	sorted := make([]pdflib.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var (
		sb   strings.Builder
		x0   = math.MaxFloat64
		x1   = -math.MaxFloat64
		yMin = math.MaxFloat64
		yMax = -math.MaxFloat64
	)
	for _, g := range sorted {
		sb.WriteString(g.S)
		x0 = math.Min(x0, g.X)
		x1 = math.Max(x1, g.X+glyphWidth(g))
		yMin = math.Min(yMin, g.Y)
		yMax = math.Max(yMax, g.Y+g.FontSize)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return Line{}, false
	}
	return Line{
		Text:   sb.String(),
		X0:     x0,
		X1:     x1,
		Top:    pageHeight - yMax,
		Bottom: pageHeight - yMin,
	}, true
}

func glyphWidth(g pdflib.Text) float64 {
	if g.W > 0 {
		return g.W
	}
	return estimatedAdvance * g.FontSize * float64(len([]rune(g.S)))
}
