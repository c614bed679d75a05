package render

import (
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/chancerylabs/buntool/internal/bundle"
)

// Font binds a logical font choice to a concrete fpdf family. Core fonts
// need no registration; the traditional choice loads Charter TTF faces from
// the configured fonts directory and falls back to Times when they are not
// installed.
type Font struct {
	Family   string
	Size     float64
	register func(pdf *fpdf.Fpdf)
}

func (f Font) apply(pdf *fpdf.Fpdf) {
	if f.register != nil {
		f.register(pdf)
	}
}

func indexFont(choice bundle.FontChoice, fontsDir string) Font {
	switch choice {
	case bundle.FontSerif:
		return Font{Family: "Times", Size: 12}
	case bundle.FontMono:
		return Font{Family: "Courier", Size: 10}
	case bundle.FontTraditional:
		if f, ok := charterFont(fontsDir, 12); ok {
			return f
		}
		return Font{Family: "Times", Size: 12}
	default:
		return Font{Family: "Helvetica", Size: 12}
	}
}

func footerFont(choice bundle.FontChoice, fontsDir string) Font {
	switch choice {
	case bundle.FontSerif:
		return Font{Family: "Times", Size: 15}
	case bundle.FontMono:
		return Font{Family: "Courier", Size: 14}
	case bundle.FontTraditional:
		if f, ok := charterFont(fontsDir, 15); ok {
			return f
		}
		return Font{Family: "Times", Size: 15}
	default:
		return Font{Family: "Helvetica", Size: 14}
	}
}

func charterFont(dir string, size float64) (Font, bool) {
	if dir == "" {
		return Font{}, false
	}
	regular := filepath.Join(dir, "Charter_Regular.ttf")
	bold := filepath.Join(dir, "Charter_Bold.ttf")
	for _, p := range []string{regular, bold} {
		if _, err := os.Stat(p); err != nil {
			return Font{}, false
		}
	}
	return Font{
		Family: "Charter",
		Size:   size,
		register: func(pdf *fpdf.Fpdf) {
			pdf.AddUTF8Font("Charter", "", regular)
			pdf.AddUTF8Font("Charter", "B", bold)
		},
	}, true
}
