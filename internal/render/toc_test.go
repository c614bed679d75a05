package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chancerylabs/buntool/internal/bundle"
	"github.com/chancerylabs/buntool/internal/pdfops"
)

func sampleEntries(n int) []bundle.TocEntry {
	entries := make([]bundle.TocEntry, 0, n+1)
	entries = append(entries, bundle.TocEntry{Section: true, SectionNumber: 1, Label: "Pleadings"})
	page := 0
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("Document number %d", i+1)
		if i%7 == 0 {
			title = strings.Repeat("A very long exhibit title ", 4)
		}
		entries = append(entries, bundle.TocEntry{
			Tab:       fmt.Sprintf("%03d.", i+1),
			Title:     title,
			Date:      "01.02.2023",
			StartPage: page,
		})
		page += 3
	}
	return entries
}

func TestRenderTOC_WritesPages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.pdf")
	spec := TOCSpec{
		BundleTitle: "Trial Bundle",
		CaseName:    "Smith v Jones",
		ClaimNumber: "KB-2024-000123",
		ShowDate:    true,
		Font:        bundle.FontSans,
		PageOffset:  2,
	}
	if err := RenderTOC(path, sampleEntries(60), spec); err != nil {
		t.Fatalf("RenderTOC: %v", err)
	}
	n, err := pdfops.PageCount(path)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n < 2 {
		t.Errorf("60 rows should spill past one page, got %d", n)
	}
}

// The measuring pass is only sound if the placeholder render paginates
// exactly like the real one.
func TestRenderTOC_DummyMatchesRealLength(t *testing.T) {
	dir := t.TempDir()
	entries := sampleEntries(80)
	base := TOCSpec{
		BundleTitle: "Trial Bundle",
		CaseName:    "Smith v Jones",
		ShowDate:    true,
		Font:        bundle.FontSerif,
		PageOffset:  3,
	}

	dummySpec := base
	dummySpec.Dummy = true
	dummyPath := filepath.Join(dir, "dummy.pdf")
	if err := RenderTOC(dummyPath, entries, dummySpec); err != nil {
		t.Fatalf("dummy render: %v", err)
	}
	realPath := filepath.Join(dir, "real.pdf")
	if err := RenderTOC(realPath, entries, base); err != nil {
		t.Fatalf("real render: %v", err)
	}

	dummyPages, err := pdfops.PageCount(dummyPath)
	if err != nil {
		t.Fatalf("PageCount dummy: %v", err)
	}
	realPages, err := pdfops.PageCount(realPath)
	if err != nil {
		t.Fatalf("PageCount real: %v", err)
	}
	if dummyPages != realPages {
		t.Errorf("dummy %d pages, real %d pages", dummyPages, realPages)
	}
}

func TestRenderTOC_HideDateWidensTitle(t *testing.T) {
	w := columnWidths(false)
	if w.date != 0 {
		t.Errorf("hide-date layout should drop the date column, got %v", w.date)
	}
	if w.title <= columnWidths(true).title {
		t.Error("hidden date should widen the title column")
	}
}

func TestRenderTOC_WithFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.pdf")
	spec := TOCSpec{
		BundleTitle: "Bundle",
		ShowDate:    false,
		Font:        bundle.FontMono,
		Footer: &FooterSpec{
			Style:      bundle.StyleXOfY,
			Alignment:  bundle.AlignRight,
			Font:       bundle.FontSans,
			PageOffset: 1,
			TotalPages: 9,
		},
	}
	if err := RenderTOC(path, sampleEntries(5), spec); err != nil {
		t.Fatalf("RenderTOC with footer: %v", err)
	}
	if _, err := pdfops.PageCount(path); err != nil {
		t.Fatalf("output unreadable: %v", err)
	}
}
