// Package render lays out the generated pieces of a bundle with fpdf: the
// index document and the footer overlay. The merged exhibits themselves are
// never re-rendered.
package render

import (
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/chancerylabs/buntool/internal/bundle"
)

const (
	cm = 28.3465 // points per centimetre

	rowLineHeight = 14.0
	headerRowH    = 22.0
	footerReserve = 1.5 * cm // keep table rows clear of the running footer
)

// dummyPageRef stands in for real page references during the measuring
// pass. Digits never change row heights, so any fixed value yields a
// faithful page count.
const dummyPageRef = 999

// TOCSpec describes one render of the index document.
type TOCSpec struct {
	BundleTitle  string
	CaseName     string
	ClaimNumber  string
	Confidential bool
	ShowDate     bool
	Font         bundle.FontChoice
	FontsDir     string

	// Dummy replaces every page reference with dummyPageRef so the index's
	// own length can be measured before real page numbers exist.
	Dummy bool

	// PageOffset is added to each entry's start page for display.
	PageOffset int

	// Footer, when non-nil, draws running page numbers on the index pages
	// themselves. Nil in roman-preface mode.
	Footer *FooterSpec
}

// RenderTOC lays out the table of contents and writes it to path.
func RenderTOC(path string, entries []bundle.TocEntry, spec TOCSpec) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(1.5*cm, 2*cm, 1.5*cm)
	pdf.SetAutoPageBreak(true, 2*cm)

	font := indexFont(spec.Font, spec.FontsDir)
	font.apply(pdf)
	if spec.Footer != nil {
		ffont := footerFont(spec.Footer.Font, spec.FontsDir)
		ffont.apply(pdf)
		pdf.SetFooterFunc(footerFunc(pdf, *spec.Footer, ffont))
	}

	t := &tocTable{pdf: pdf, font: font, widths: columnWidths(spec.ShowDate)}

	pdf.AddPage()
	drawHeaderBlock(pdf, font, spec)
	t.headerRow()
	for _, e := range entries {
		if e.Section {
			t.sectionRow(e.Label)
			continue
		}
		page := e.StartPage + spec.PageOffset + 1
		if spec.Dummy {
			page = dummyPageRef
		}
		date := e.Date
		if !spec.ShowDate {
			date = ""
		}
		t.documentRow(e.Tab, e.Title, date, page)
	}

	if pdf.Err() {
		return &bundle.RenderError{Stage: "index", Err: pdf.Error()}
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return &bundle.RenderError{Stage: "index", Err: err}
	}
	return nil
}

type colWidths struct {
	tab, title, date, page float64
}

func columnWidths(showDate bool) colWidths {
	if showDate {
		return colWidths{tab: 1.3 * cm, title: 9.5 * cm, date: 3.5 * cm, page: 1.7 * cm}
	}
	return colWidths{tab: 1.3 * cm, title: 11.5 * cm, page: 2.5 * cm}
}

func (w colWidths) total() float64 { return w.tab + w.title + w.date + w.page }

func drawHeaderBlock(pdf *fpdf.Fpdf, font Font, spec TOCSpec) {
	pageW, _ := pdf.GetPageSize()

	pdf.SetFont(font.Family, "B", font.Size)
	pdf.CellFormat(0, 1.5*cm, spec.ClaimNumber, "", 1, "R", false, 0, "")

	pdf.SetFont(font.Family, "B", font.Size+2)
	pdf.CellFormat(0, 20, spec.CaseName, "", 1, "C", false, 0, "")

	// Bundle title, ruled above and below.
	y := pdf.GetY() + 8
	pdf.Line(pageW/4, y, 3*pageW/4, y)
	pdf.SetY(y + 6)
	pdf.SetFont(font.Family, "B", font.Size+6)
	if spec.Confidential {
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(0, 22, "CONFIDENTIAL", "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.CellFormat(0, 22, strings.ToUpper(spec.BundleTitle), "", 1, "C", false, 0, "")
	y = pdf.GetY() + 4
	pdf.Line(pageW/4, y, 3*pageW/4, y)
	pdf.SetY(y + 1*cm)
}

// tocTable draws the index rows, repeating the column header after every
// page break.
type tocTable struct {
	pdf    *fpdf.Fpdf
	font   Font
	widths colWidths
}

func (t *tocTable) headerRow() {
	pdf := t.pdf
	pdf.SetFont(t.font.Family, "B", t.font.Size)
	pdf.SetFillColor(169, 169, 169)
	pdf.CellFormat(t.widths.tab, headerRowH, "Tab", "B", 0, "C", true, 0, "")
	pdf.CellFormat(t.widths.title, headerRowH, "Title", "B", 0, "C", true, 0, "")
	if t.widths.date > 0 {
		pdf.CellFormat(t.widths.date, headerRowH, "Date", "B", 0, "C", true, 0, "")
	}
	pdf.CellFormat(t.widths.page, headerRowH, "Page", "B", 1, "C", true, 0, "")
}

// breakPage starts a fresh page, header included, when the next row would
// collide with the footer zone.
func (t *tocTable) breakPage(rowHeight float64) {
	_, pageH := t.pdf.GetPageSize()
	_, _, _, bottom := t.pdf.GetMargins()
	if t.pdf.GetY()+rowHeight > pageH-bottom-footerReserve {
		t.pdf.AddPage()
		t.headerRow()
	}
}

func (t *tocTable) sectionRow(label string) {
	h := rowLineHeight + 8
	t.breakPage(h)
	pdf := t.pdf
	pdf.SetFont(t.font.Family, "B", t.font.Size)
	pdf.SetFillColor(211, 211, 211)
	pdf.CellFormat(t.widths.total(), h, label, "B", 1, "L", true, 0, "")
}

func (t *tocTable) documentRow(tab, title, date string, page int) {
	pdf := t.pdf
	pdf.SetFont(t.font.Family, "", t.font.Size)
	lines := pdf.SplitText(title, t.widths.title-4)
	if len(lines) == 0 {
		lines = []string{""}
	}
	rowHeight := float64(len(lines))*rowLineHeight + 4
	t.breakPage(rowHeight)

	y := pdf.GetY()
	pdf.CellFormat(t.widths.tab, rowHeight, tab, "B", 0, "L", false, 0, "")
	titleX := pdf.GetX()
	for i, ln := range lines {
		pdf.SetXY(titleX, y+float64(i)*rowLineHeight+2)
		pdf.CellFormat(t.widths.title, rowLineHeight, ln, "", 0, "L", false, 0, "")
	}
	pdf.SetXY(titleX, y)
	pdf.CellFormat(t.widths.title, rowHeight, "", "B", 0, "L", false, 0, "")
	if t.widths.date > 0 {
		pdf.CellFormat(t.widths.date, rowHeight, date, "B", 0, "L", false, 0, "")
	}
	pdf.CellFormat(t.widths.page, rowHeight, strconv.Itoa(page), "B", 1, "R", false, 0, "")
}
