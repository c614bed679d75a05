package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/chancerylabs/buntool/internal/bundle"
	"github.com/chancerylabs/buntool/internal/pdfops"
)

func writeTestPDF(t *testing.T, path string, pages int) {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.CellFormat(0, 14, fmt.Sprintf("content page %d", i+1), "", 1, "L", false, 0, "")
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func writeIndexCSV(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
}

func testConfig(t *testing.T) bundle.Config {
	dir := t.TempDir()
	return bundle.Config{
		SessionID:   "test1234",
		Timestamp:   "20240105_143000",
		BundleTitle: "Trial Bundle",
		CaseName:    "Smith v Jones",
		ClaimNumber: "KB-2024-000123",
		DateSetting: bundle.ShowDate,
		IndexFont:   bundle.FontSans,
		FooterFont:  bundle.FontSans,
		Alignment:   bundle.AlignCentre,
		NumberStyle: bundle.StylePageXOfY,
		TempDir:     filepath.Join(dir, "work"),
		LogsDir:     filepath.Join(dir, "logs"),
	}
}

func testInputs(t *testing.T, cfg bundle.Config, pages map[string]int, index string) Inputs {
	dir := t.TempDir()
	files := map[string]string{}
	var order []string
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		n, ok := pages[name]
		if !ok {
			continue
		}
		p := filepath.Join(dir, name)
		writeTestPDF(t, p, n)
		files[name] = p
		order = append(order, p)
	}
	indexPath := filepath.Join(dir, "index.csv")
	writeIndexCSV(t, indexPath, index)
	return Inputs{Files: files, FileOrder: order, IndexFile: indexPath}
}

func TestAssemble_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	cfg.Zip = true
	in := testInputs(t, cfg,
		map[string]int{"a.pdf": 2, "b.pdf": 3},
		"Filename,Title,Date,Section\na.pdf,Doc A,01.01.2024,0\nSECTION,Part Two,,1\nb.pdf,Doc B,02.01.2024,0\n")

	var stages []string
	res, err := Assemble(context.Background(), cfg, in, slog.New(slog.NewTextHandler(io.Discard, nil)), func(s string) {
		stages = append(stages, s)
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if _, err := os.Stat(res.OutputPath); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if res.ArchivePath == "" {
		t.Fatal("expected archive path")
	}
	if _, err := os.Stat(res.ArchivePath); err != nil {
		t.Fatalf("archive missing: %v", err)
	}

	// 5 content pages plus at least one index page.
	n, err := pdfops.PageCount(res.OutputPath)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n < 6 {
		t.Errorf("bundle has %d pages, want at least 6", n)
	}
	if n != res.PageCount {
		t.Errorf("reported %d pages, file has %d", res.PageCount, n)
	}

	// Each document row in the index carries a link annotation.
	if links := countAnnotations(t, res.OutputPath); links != 2 {
		t.Errorf("final bundle has %d link annotations, want 2", links)
	}

	if len(stages) == 0 || stages[0] != "merging" {
		t.Errorf("expected merging first, got %v", stages)
	}
	joined := strings.Join(stages, ",")
	for _, want := range []string{"paginating", "linking", "bookmarking", "packaging"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing stage %s in %v", want, stages)
		}
	}

	// Intermediates are cleaned up; the index renditions stay for the zip.
	if _, err := os.Stat(filepath.Join(cfg.TempDir, "01_content.pdf")); !os.IsNotExist(err) {
		t.Error("expected 01_content.pdf to be removed")
	}
	if _, err := os.Stat(filepath.Join(cfg.TempDir, "index.pdf")); err != nil {
		t.Error("expected index.pdf to survive for the archive")
	}
}

func countAnnotations(t *testing.T, path string) int {
	t.Helper()
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	n := 0
	for p := 1; p <= ctx.PageCount; p++ {
		d, _, _, err := ctx.PageDict(p, false)
		if err != nil {
			t.Fatalf("page %d: %v", p, err)
		}
		obj, ok := d["Annots"]
		if !ok {
			continue
		}
		arr, err := ctx.DereferenceArray(obj)
		if err != nil {
			t.Fatalf("annots page %d: %v", p, err)
		}
		n += len(arr)
	}
	return n
}

func TestAssemble_RomanPreface(t *testing.T) {
	cfg := testConfig(t)
	cfg.RomanPreface = true
	in := testInputs(t, cfg,
		map[string]int{"a.pdf": 2},
		"a.pdf,Doc A,01.01.2024,0\n")

	res, err := Assemble(context.Background(), cfg, in, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if _, err := os.Stat(res.OutputPath); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestAssemble_BadIndexFails(t *testing.T) {
	cfg := testConfig(t)
	in := testInputs(t, cfg, map[string]int{"a.pdf": 1}, "a.pdf,Doc A\nshort\n")

	_, err := Assemble(context.Background(), cfg, in, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	var ferr *bundle.IndexFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected IndexFormatError, got %v", err)
	}
}

func TestAssemble_NoMatchingDocuments(t *testing.T) {
	cfg := testConfig(t)
	in := testInputs(t, cfg, map[string]int{"a.pdf": 1}, "ghost.pdf,Missing,,0\n")

	_, err := Assemble(context.Background(), cfg, in, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	if !errors.Is(err, bundle.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestAssemble_CancelledContext(t *testing.T) {
	cfg := testConfig(t)
	in := testInputs(t, cfg, map[string]int{"a.pdf": 1}, "a.pdf,Doc A,,0\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Assemble(ctx, cfg, in, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestUserFacingError(t *testing.T) {
	if got := userFacingError(bundle.ErrNoDocuments, "s1"); got != bundle.ErrNoDocuments.Error() {
		t.Errorf("domain errors pass through, got %q", got)
	}
	got := userFacingError(errors.New("open /private/path: no such file"), "s1")
	if strings.Contains(got, "/private/path") {
		t.Errorf("internal detail leaked: %q", got)
	}
	if !strings.Contains(got, "s1") {
		t.Errorf("session code missing: %q", got)
	}
}
