package bundle

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/chancerylabs/buntool/internal/pdfops"
)

// MergeResult is the outcome of concatenating the index's documents.
type MergeResult struct {
	TocEntries []TocEntry
	PageCount  int
}

// MergeDocuments walks the index in order, concatenating each document's
// pages into out and recording where every document starts. Documents are
// matched by exact filename against the upload-time map; rows that match
// nothing, or whose file cannot be opened, are logged and skipped so one bad
// exhibit does not sink the bundle. Tab numbers go only to documents that
// actually merge.
func MergeDocuments(idx *Index, files map[string]string, out string, log *slog.Logger) (*MergeResult, error) {
	var (
		entries  []TocEntry
		sources  []string
		pageAt   int
		tab      = 1
		sections = 1
	)
	for _, row := range idx.Entries() {
		if row.Section {
			entries = append(entries, TocEntry{
				Section:       true,
				SectionNumber: sections,
				Label:         row.Title,
			})
			sections++
			continue
		}
		path, ok := files[row.Filename]
		if !ok {
			log.Warn("document missing from uploads, skipping", "filename", row.Filename)
			continue
		}
		count, err := pdfops.PageCount(path)
		if err != nil {
			log.Warn("cannot open document, skipping", "filename", row.Filename, "error", err)
			continue
		}
		entries = append(entries, TocEntry{
			Tab:       fmt.Sprintf("%03d.", tab),
			Title:     entryTitle(row),
			Date:      entryDate(row, path),
			StartPage: pageAt,
		})
		tab++
		pageAt += count
		sources = append(sources, path)
	}
	if len(sources) == 0 {
		return nil, ErrNoDocuments
	}
	if err := pdfops.Merge(sources, out); err != nil {
		return nil, fmt.Errorf("merge documents: %w", err)
	}
	return &MergeResult{TocEntries: entries, PageCount: pageAt}, nil
}

func entryTitle(row IndexEntry) string {
	if row.Title != "" {
		return row.Title
	}
	base := filepath.Base(row.Filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func entryDate(row IndexEntry, path string) string {
	if row.Date != "" {
		return row.Date
	}
	if d := pdfops.CreationDate(path); d != "" {
		return d
	}
	return "Unknown"
}
