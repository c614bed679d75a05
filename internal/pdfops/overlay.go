package pdfops

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// OverlayPageWidth is the width the footer overlay is rendered at, A4
// portrait in points. Stamping scales against this.
const OverlayPageWidth = 595.28

// StampOverlay lays page i of the overlay over page i of the content file.
// Exhibits come in whatever size they were scanned at, so each stamp is
// scaled by contentPageWidth / OverlayPageWidth to keep the footer inside
// the page. Callers verify the page counts match beforehand.
func StampOverlay(content, overlay, out string) error {
	widths, _, err := PageDims(content)
	if err != nil {
		return err
	}
	stamps := make(map[int]*model.Watermark, len(widths))
	for i, w := range widths {
		scale := w / OverlayPageWidth
		desc := fmt.Sprintf("pos:bl, off:0 0, rot:0, scale:%.4f abs", scale)
		wm, err := api.PDFWatermark(fmt.Sprintf("%s:%d", overlay, i+1), desc, true, false, types.POINTS)
		if err != nil {
			return fmt.Errorf("overlay page %d: %w", i+1, err)
		}
		stamps[i+1] = wm
	}
	if err := api.AddWatermarksMapFile(content, out, stamps, conf()); err != nil {
		return fmt.Errorf("stamp overlay: %w", err)
	}
	return nil
}
