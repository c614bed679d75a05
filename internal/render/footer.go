package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/chancerylabs/buntool/internal/bundle"
)

// FooterSpec carries everything the per-page footer callback needs. It is
// captured by closure when a render starts, so concurrent runs can never
// observe each other's settings.
type FooterSpec struct {
	Style      bundle.NumberStyle
	Alignment  bundle.Alignment
	Font       bundle.FontChoice
	Prefix     string
	PageOffset int // added to the 1-based page number before display
	TotalPages int
	FontsDir   string
}

// FormatPageNumber renders one footer string. page is the 1-based display
// page, after any frontmatter offset has been applied.
func FormatPageNumber(style bundle.NumberStyle, page, total int, prefix string) string {
	var s string
	switch style {
	case bundle.StyleX:
		s = strconv.Itoa(page)
	case bundle.StyleXOfY:
		s = fmt.Sprintf("%d of %d", page, total)
	case bundle.StylePageX:
		s = fmt.Sprintf("Page %d", page)
	case bundle.StyleXSlashY:
		s = fmt.Sprintf("%d / %d", page, total)
	default:
		s = fmt.Sprintf("Page %d of %d", page, total)
	}
	if prefix != "" {
		s = strings.TrimSpace(prefix) + " " + s
	}
	return s
}

func alignStr(a bundle.Alignment) string {
	switch a {
	case bundle.AlignLeft:
		return "L"
	case bundle.AlignRight:
		return "R"
	}
	return "C"
}

func footerFunc(pdf *fpdf.Fpdf, spec FooterSpec, font Font) func() {
	return func() {
		pdf.SetY(-36)
		pdf.SetFont(font.Family, "", font.Size)
		text := FormatPageNumber(spec.Style, pdf.PageNo()+spec.PageOffset, spec.TotalPages, spec.Prefix)
		pdf.CellFormat(0, 16, text, "", 0, alignStr(spec.Alignment), false, 0, "")
	}
}

// BuildFooterOverlay writes a PDF of pageCount blank A4 pages carrying only
// the running footer. The overlay is stamped page-for-page onto the merged
// content afterwards.
func BuildFooterOverlay(path string, pageCount int, spec FooterSpec) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	font := footerFont(spec.Font, spec.FontsDir)
	font.apply(pdf)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFooterFunc(footerFunc(pdf, spec, font))
	for i := 0; i < pageCount; i++ {
		pdf.AddPage()
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return &bundle.RenderError{Stage: "footer overlay", Err: err}
	}
	return nil
}
