package pdfops

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// SplitPageLabels relabels the document so the first split pages display
// lowercase roman numerals and the remainder restarts at arabic 1. Only
// metadata changes; no page content is touched.
func SplitPageLabels(in, out string, split int) error {
	ctx, err := api.ReadContextFile(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	root, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	nums := types.Array{
		types.Integer(0),
		types.Dict(map[string]types.Object{"S": types.Name("r")}),
		types.Integer(split),
		types.Dict(map[string]types.Object{"S": types.Name("D")}),
	}
	root["PageLabels"] = types.Dict(map[string]types.Object{"Nums": nums})
	if err := api.WriteContextFile(ctx, out); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}
