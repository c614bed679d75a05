package pdfops

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Link places one clickable rectangle on a page, jumping to a target page.
// Pages are 1-based; Rect is llx, lly, urx, ury in PDF user space with a
// bottom-left origin.
type Link struct {
	Page   int
	Rect   [4]float64
	Target int
}

// WriteLinks appends internal link annotations to in and writes out.
func WriteLinks(in, out string, links []Link) error {
	ctx, err := api.ReadContextFile(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	for _, l := range links {
		if err := appendLink(ctx, l); err != nil {
			return err
		}
	}
	if err := api.WriteContextFile(ctx, out); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

func appendLink(ctx *model.Context, l Link) error {
	pageDict, _, _, err := ctx.PageDict(l.Page, false)
	if err != nil {
		return fmt.Errorf("page %d: %w", l.Page, err)
	}
	_, targetRef, _, err := ctx.PageDict(l.Target, false)
	if err != nil {
		return fmt.Errorf("target page %d: %w", l.Target, err)
	}

	annot := types.Dict(map[string]types.Object{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Link"),
		"Rect":    types.NewNumberArray(l.Rect[0], l.Rect[1], l.Rect[2], l.Rect[3]),
		"Border":  types.NewIntegerArray(0, 0, 0),
		"Dest":    types.Array{*targetRef, types.Name("Fit")},
	})
	ir, err := ctx.IndRefForNewObject(annot)
	if err != nil {
		return fmt.Errorf("annotation object: %w", err)
	}

	var annots types.Array
	if obj, ok := pageDict["Annots"]; ok {
		annots, err = ctx.DereferenceArray(obj)
		if err != nil {
			return fmt.Errorf("annots page %d: %w", l.Page, err)
		}
	}
	pageDict["Annots"] = append(annots, *ir)
	return nil
}
