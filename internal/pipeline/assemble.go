package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chancerylabs/buntool/internal/bundle"
	"github.com/chancerylabs/buntool/internal/docxtoc"
	"github.com/chancerylabs/buntool/internal/extract"
	"github.com/chancerylabs/buntool/internal/hyperlink"
	"github.com/chancerylabs/buntool/internal/pdfops"
	"github.com/chancerylabs/buntool/internal/render"
)

// Inputs names everything one assembly run consumes.
type Inputs struct {
	// Files maps each document's filename, as the index refers to it, to
	// its stored path. Lookup is exact; no substring matching.
	Files map[string]string

	// FileOrder lists the stored paths in upload order, for the archive.
	FileOrder []string

	IndexFile  string
	Coversheet string // empty when the bundle has no coversheet
}

// Result is what a finished run leaves on disk.
type Result struct {
	OutputPath  string
	ArchivePath string
	TocEntries  []bundle.TocEntry
	PageCount   int // frontmatter plus content
}

// Assemble runs the full bundle build inside cfg.TempDir. Intermediate
// files are removed before it returns; the final PDF, the index renditions
// and the optional archive remain. progress, when non-nil, is told the name
// of each stage as it starts.
func Assemble(ctx context.Context, cfg bundle.Config, in Inputs, log *slog.Logger, progress func(stage string)) (*Result, error) {
	stage := func(name string) {
		if progress != nil {
			progress(name)
		}
		log.Info("stage", "name", name)
	}

	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	var temps []string
	defer func() { removeTempFiles(temps, log) }()

	stage("merging")
	idx, err := bundle.LoadIndex(in.IndexFile)
	if err != nil {
		return nil, err
	}
	contentPath := filepath.Join(cfg.TempDir, "01_content.pdf")
	merged, err := bundle.MergeDocuments(idx, in.Files, contentPath, log)
	if err != nil {
		return nil, err
	}
	temps = append(temps, contentPath)
	log.Info("merged content",
		"documents", bundle.DocumentCount(merged.TocEntries),
		"index_rows", idx.Len(),
		"pages", merged.PageCount)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	coverPages := 0
	if in.Coversheet != "" {
		coverPages, err = pdfops.PageCount(in.Coversheet)
		if err != nil {
			return nil, fmt.Errorf("coversheet: %w", err)
		}
	}

	// The index's own length is unknown until it is laid out, so measure a
	// throwaway render first. Roman-preface bundles restart content
	// numbering at 1 and need no measuring pass.
	stage("resolving_layout")
	expectedFrontmatter := coverPages
	if !cfg.RomanPreface {
		dummyPath := filepath.Join(cfg.TempDir, "02_dummy_index.pdf")
		if err := render.RenderTOC(dummyPath, merged.TocEntries, tocSpec(cfg, true, 0, coverPages, 0)); err != nil {
			return nil, err
		}
		temps = append(temps, dummyPath)
		dummyPages, err := pdfops.PageCount(dummyPath)
		if err != nil {
			return nil, fmt.Errorf("dummy index: %w", err)
		}
		expectedFrontmatter = coverPages + dummyPages
	}
	totalPages := merged.PageCount + expectedFrontmatter
	contentOffset := expectedFrontmatter
	if cfg.RomanPreface {
		contentOffset = 0
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage("paginating")
	overlayPath := filepath.Join(cfg.TempDir, "footer_overlay.pdf")
	footer := render.FooterSpec{
		Style:      cfg.NumberStyle,
		Alignment:  cfg.Alignment,
		Font:       cfg.FooterFont,
		Prefix:     cfg.FooterPrefix,
		PageOffset: contentOffset,
		TotalPages: totalPages,
		FontsDir:   cfg.FontsDir,
	}
	if err := render.BuildFooterOverlay(overlayPath, merged.PageCount, footer); err != nil {
		return nil, err
	}
	temps = append(temps, overlayPath)
	overlayPages, err := pdfops.PageCount(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("footer overlay: %w", err)
	}
	if overlayPages != merged.PageCount {
		return nil, &bundle.OverlayMismatchError{Content: merged.PageCount, Overlay: overlayPages}
	}
	paginatedPath := filepath.Join(cfg.TempDir, "03_paginated.pdf")
	if err := pdfops.StampOverlay(contentPath, overlayPath, paginatedPath); err != nil {
		return nil, fmt.Errorf("paginate: %w", err)
	}
	temps = append(temps, paginatedPath)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Real index render. Its own footer counts from the coversheet only;
	// counting the index against itself would double the offset.
	stage("rendering_index")
	tocPageOffset := expectedFrontmatter
	if cfg.RomanPreface {
		tocPageOffset = 0
	}
	tocPath := filepath.Join(cfg.TempDir, "index.pdf")
	if err := render.RenderTOC(tocPath, merged.TocEntries, tocSpec(cfg, false, tocPageOffset, coverPages, totalPages)); err != nil {
		return nil, err
	}

	docxPath := filepath.Join(cfg.TempDir, "index.docx")
	if err := docxtoc.Write(docxPath, merged.TocEntries, cfg, tocPageOffset); err != nil {
		log.Warn("docx index export failed, continuing without it", "error", err)
		docxPath = ""
	}

	frontPath := tocPath
	if in.Coversheet != "" {
		frontPath = filepath.Join(cfg.TempDir, "frontmatter.pdf")
		if err := pdfops.Merge([]string{in.Coversheet, tocPath}, frontPath); err != nil {
			return nil, fmt.Errorf("frontmatter: %w", err)
		}
		temps = append(temps, frontPath)
	}
	frontPages, err := pdfops.PageCount(frontPath)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}
	if !cfg.RomanPreface && frontPages != expectedFrontmatter {
		return nil, &bundle.FrontmatterMismatchError{Expected: expectedFrontmatter, Actual: frontPages}
	}

	assembled := filepath.Join(cfg.TempDir, "04_assembled.pdf")
	if err := pdfops.Merge([]string{frontPath, paginatedPath}, assembled); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	temps = append(temps, assembled)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage("linking")
	_, heights, err := pdfops.PageDims(assembled)
	if err != nil {
		return nil, err
	}
	tocPages, err := extract.Pages(assembled, coverPages, frontPages, heights)
	if err != nil {
		return nil, fmt.Errorf("index text extraction: %w", err)
	}
	placements := hyperlink.Resolve(merged.TocEntries, tocPages, hyperlink.Config{
		CoversheetPages:  coverPages,
		FrontmatterPages: frontPages,
		ShowDate:         cfg.ShowDates(),
		RomanPreface:     cfg.RomanPreface,
	}, log)
	links := make([]pdfops.Link, 0, len(placements))
	for _, pl := range placements {
		links = append(links, pdfops.Link{
			Page:   pl.TOCPage + 1,
			Rect:   hyperlink.ToRect(pl, heights[pl.TOCPage]),
			Target: pl.Target + 1,
		})
	}
	linked := filepath.Join(cfg.TempDir, "05_linked.pdf")
	if err := pdfops.WriteLinks(assembled, linked, links); err != nil {
		return nil, fmt.Errorf("hyperlink: %w", err)
	}
	temps = append(temps, linked)
	log.Info("hyperlinked index",
		"linked", len(links),
		"entries", bundle.DocumentCount(merged.TocEntries))

	stage("bookmarking")
	outline := pdfops.Outline{IndexPage: coverPages + 1}
	for _, e := range merged.TocEntries {
		if e.Section {
			continue
		}
		outline.Docs = append(outline.Docs, pdfops.OutlineDoc{
			Title: e.Tab + " " + e.Title,
			Page:  e.StartPage + frontPages + 1,
		})
	}
	outlined := filepath.Join(cfg.TempDir, "06_outlined.pdf")
	if err := pdfops.WriteOutline(linked, outlined, outline); err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}
	temps = append(temps, outlined)

	finalPath := filepath.Join(cfg.TempDir, bundle.OutputName(cfg.BundleTitle, cfg.CaseName, cfg.Timestamp, cfg.FooterPrefix))
	if cfg.RomanPreface {
		if err := pdfops.SplitPageLabels(outlined, finalPath, frontPages); err != nil {
			return nil, fmt.Errorf("page labels: %w", err)
		}
	} else if err := copyFile(outlined, finalPath); err != nil {
		return nil, err
	}

	res := &Result{
		OutputPath: finalPath,
		TocEntries: merged.TocEntries,
		PageCount:  totalPages,
	}

	if cfg.Zip {
		stage("packaging")
		zipPath := strings.TrimSuffix(finalPath, ".pdf") + "_files.zip"
		err := bundle.WriteArchive(zipPath, bundle.Archive{
			Inputs:     in.FileOrder,
			IndexFile:  in.IndexFile,
			TOCFile:    tocPath,
			DocxFile:   docxPath,
			Coversheet: in.Coversheet,
			Output:     finalPath,
		})
		if err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		res.ArchivePath = zipPath
	}

	log.Info("bundle complete", "output", finalPath, "pages", totalPages)
	return res, nil
}

func tocSpec(cfg bundle.Config, dummy bool, pageOffset, coverPages, totalPages int) render.TOCSpec {
	spec := render.TOCSpec{
		BundleTitle:  cfg.BundleTitle,
		CaseName:     cfg.CaseName,
		ClaimNumber:  cfg.ClaimNumber,
		Confidential: cfg.Confidential,
		ShowDate:     cfg.ShowDates(),
		Font:         cfg.IndexFont,
		FontsDir:     cfg.FontsDir,
		Dummy:        dummy,
		PageOffset:   pageOffset,
	}
	if !cfg.RomanPreface {
		spec.Footer = &render.FooterSpec{
			Style:      cfg.NumberStyle,
			Alignment:  cfg.Alignment,
			Font:       cfg.FooterFont,
			Prefix:     cfg.FooterPrefix,
			PageOffset: coverPages,
			TotalPages: totalPages,
			FontsDir:   cfg.FontsDir,
		}
	}
	return spec
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}

func removeTempFiles(paths []string, log *slog.Logger) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warn("could not remove temp file", "path", p, "error", err)
		}
	}
}
