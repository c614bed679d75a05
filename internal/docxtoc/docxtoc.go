// Package docxtoc writes an editable Word rendition of the bundle index, so
// parties can amend titles or dates without regenerating the bundle.
package docxtoc

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/chancerylabs/buntool/internal/bundle"
)

const tableWidth = 8800 // twips, roughly the printable width of A4

// Write renders the index as a DOCX table with the same header block as the
// PDF index. pageOffset matches the offset used for the PDF rendition.
func Write(path string, entries []bundle.TocEntry, cfg bundle.Config, pageOffset int) error {
	doc := docx.New().WithDefaultTheme()

	if cfg.ClaimNumber != "" {
		doc.AddParagraph().Justification("end").AddText(cfg.ClaimNumber)
	}
	if cfg.CaseName != "" {
		doc.AddParagraph().Justification("center").AddText(cfg.CaseName).Size("28").Bold()
	}
	if cfg.BundleTitle != "" {
		if cfg.Confidential {
			doc.AddParagraph().Justification("center").
				AddText("CONFIDENTIAL").Size("32").Bold().Color("FF0000")
		}
		doc.AddParagraph().Justification("center").
			AddText(strings.ToUpper(cfg.BundleTitle)).Size("32").Bold()
	}

	showDate := cfg.ShowDates()
	table := doc.AddTable(len(entries)+1, 4, tableWidth, nil)

	hdr := table.TableRows[0]
	dateHdr := ""
	if showDate {
		dateHdr = "Date"
	}
	setCell(hdr.TableCells[0], "Tab", true)
	setCell(hdr.TableCells[1], "Title", true)
	setCell(hdr.TableCells[2], dateHdr, true)
	setCell(hdr.TableCells[3], "Page", true)

	for i, e := range entries {
		row := table.TableRows[i+1]
		if e.Section {
			setCell(row.TableCells[0], "", false)
			setCell(row.TableCells[1], e.Label, true)
			setCell(row.TableCells[2], "", false)
			setCell(row.TableCells[3], "", false)
			continue
		}
		date := ""
		if showDate {
			date = e.Date
		}
		setCell(row.TableCells[0], e.Tab, false)
		setCell(row.TableCells[1], e.Title, false)
		setCell(row.TableCells[2], date, false)
		setCell(row.TableCells[3], strconv.Itoa(e.StartPage+pageOffset+1), false)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := doc.WriteTo(f); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func setCell(c *docx.WTableCell, text string, bold bool) {
	run := c.AddParagraph().AddText(text)
	if bold {
		run.Bold()
	}
}
