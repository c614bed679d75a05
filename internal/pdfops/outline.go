package pdfops

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// Outline describes the navigation tree of a finished bundle: an Index entry
// first, then one entry per merged document. Pages are 1-based.
type Outline struct {
	IndexPage int
	Docs      []OutlineDoc
}

// OutlineDoc is one document entry in the outline.
type OutlineDoc struct {
	Title string
	Page  int
}

// WriteOutline replaces the outline of in and writes the result to out.
// This must run after link annotations are in place; rewriting the outline
// earlier would be undone by the annotation pass.
func WriteOutline(in, out string, o Outline) error {
	bms := make([]pdfcpu.Bookmark, 0, len(o.Docs)+1)
	bms = append(bms, pdfcpu.Bookmark{Title: "Index", PageFrom: o.IndexPage})
	for _, d := range o.Docs {
		bms = append(bms, pdfcpu.Bookmark{Title: d.Title, PageFrom: d.Page})
	}
	if err := api.AddBookmarksFile(in, out, bms, true, conf()); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}
	return nil
}
