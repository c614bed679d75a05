package hyperlink

import (
	"path/filepath"
	"testing"

	"github.com/chancerylabs/buntool/internal/bundle"
	"github.com/chancerylabs/buntool/internal/extract"
	"github.com/chancerylabs/buntool/internal/pdfops"
	"github.com/chancerylabs/buntool/internal/render"
)

// Resolves links against a genuinely rendered index, the same
// dummy-measure-then-render sequence the pipeline runs. Hand-built line
// fixtures cannot catch an extractor that returns nothing usable.
func TestResolve_OnRenderedTOC(t *testing.T) {
	entries := []bundle.TocEntry{
		{Section: true, SectionNumber: 1, Label: "Pleadings"},
		{Tab: "001.", Title: "Claim Form", Date: "01.02.2023", StartPage: 0},
		{Tab: "002.", Title: "Witness Statement of Jane Smith dated 1 February 2023", Date: "15.03.2023", StartPage: 4},
	}
	dir := t.TempDir()

	spec := render.TOCSpec{
		BundleTitle: "Trial Bundle",
		CaseName:    "Smith v Jones",
		ClaimNumber: "KB-2024-000123",
		ShowDate:    true,
		Font:        bundle.FontSans,
	}
	dummy := spec
	dummy.Dummy = true
	dummyPath := filepath.Join(dir, "dummy.pdf")
	if err := render.RenderTOC(dummyPath, entries, dummy); err != nil {
		t.Fatalf("dummy render: %v", err)
	}
	front, err := pdfops.PageCount(dummyPath)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}

	spec.PageOffset = front
	path := filepath.Join(dir, "index.pdf")
	if err := render.RenderTOC(path, entries, spec); err != nil {
		t.Fatalf("RenderTOC: %v", err)
	}

	_, heights, err := pdfops.PageDims(path)
	if err != nil {
		t.Fatalf("PageDims: %v", err)
	}
	pages, err := extract.Pages(path, 0, front, heights)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	var lineCount int
	for _, pg := range pages {
		lineCount += len(pg.Lines)
	}
	// Header block, column header and one line per row at minimum. A single
	// collapsed line means extraction lost the page geometry.
	if lineCount < 5 {
		t.Fatalf("extracted only %d lines from the rendered index", lineCount)
	}

	got := Resolve(entries, pages, Config{FrontmatterPages: front, ShowDate: true}, discard())
	if len(got) != 2 {
		t.Fatalf("resolved %d placements, want one per document row", len(got))
	}
	for i, p := range got {
		if p.X1 <= p.X0 || p.Bottom <= p.Top {
			t.Errorf("placement %d has a degenerate box: %+v", i, p)
		}
	}
	if got[0].Target != front || got[1].Target != 4+front {
		t.Errorf("targets = %d, %d, want %d, %d", got[0].Target, got[1].Target, front, 4+front)
	}
}
