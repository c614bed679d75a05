package render

import (
	"path/filepath"
	"testing"

	"github.com/chancerylabs/buntool/internal/bundle"
	"github.com/chancerylabs/buntool/internal/pdfops"
)

func TestFormatPageNumber_Styles(t *testing.T) {
	cases := []struct {
		style bundle.NumberStyle
		want  string
	}{
		{bundle.StyleX, "7"},
		{bundle.StyleXOfY, "7 of 12"},
		{bundle.StylePageX, "Page 7"},
		{bundle.StylePageXOfY, "Page 7 of 12"},
		{bundle.StyleXSlashY, "7 / 12"},
		{bundle.NumberStyle("garbage"), "Page 7 of 12"},
	}
	for _, c := range cases {
		if got := FormatPageNumber(c.style, 7, 12, ""); got != c.want {
			t.Errorf("style %q: got %q, want %q", c.style, got, c.want)
		}
	}
}

func TestFormatPageNumber_Prefix(t *testing.T) {
	got := FormatPageNumber(bundle.StylePageX, 3, 10, "Bundle A ")
	if got != "Bundle A Page 3" {
		t.Errorf("got %q", got)
	}
}

// Ten content pages behind two frontmatter pages: content page 3 displays
// page 5 of a 12 page bundle.
func TestFormatPageNumber_OffsetArithmetic(t *testing.T) {
	const (
		contentPage = 3
		offset      = 2
		total       = 12
	)
	got := FormatPageNumber(bundle.StyleXOfY, contentPage+offset, total, "")
	if got != "5 of 12" {
		t.Errorf("got %q, want %q", got, "5 of 12")
	}
}

func TestBuildFooterOverlay_PageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.pdf")
	spec := FooterSpec{
		Style:      bundle.StylePageXOfY,
		Alignment:  bundle.AlignCentre,
		Font:       bundle.FontSans,
		PageOffset: 2,
		TotalPages: 12,
	}
	if err := BuildFooterOverlay(path, 10, spec); err != nil {
		t.Fatalf("BuildFooterOverlay: %v", err)
	}
	n, err := pdfops.PageCount(path)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 10 {
		t.Errorf("overlay has %d pages, want 10", n)
	}
}

func TestAlignStr(t *testing.T) {
	if alignStr(bundle.AlignLeft) != "L" || alignStr(bundle.AlignRight) != "R" || alignStr(bundle.AlignCentre) != "C" {
		t.Error("unexpected alignment mapping")
	}
	if alignStr(bundle.Alignment("odd")) != "C" {
		t.Error("unknown alignment should centre")
	}
}
