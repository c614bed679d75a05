// Package hyperlink locates index rows on the rendered TOC pages and turns
// them into link placements. Matching is text based: each entry's tab,
// title, date and page reference are collapsed into a whitespace-free search
// key and compared against the extracted lines the same way.
package hyperlink

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/chancerylabs/buntool/internal/bundle"
	"github.com/chancerylabs/buntool/internal/extract"
)

// Config fixes the page arithmetic for one run.
type Config struct {
	CoversheetPages  int
	FrontmatterPages int
	ShowDate         bool
	RomanPreface     bool
}

// Placement is a resolved link: a rectangle on a TOC page jumping to a
// content page. Coordinates are top-left origin, as extracted.
type Placement struct {
	TOCPage int // 0-based
	X0      float64
	Top     float64
	X1      float64
	Bottom  float64
	Target  int // 0-based destination page in the final document
}

// Titles longer than this are truncated to the first 29 runes and matched
// with a wildcard, since the renderer wraps them across lines.
const maxKeyTitle = 30

// Keys builds the primary and fallback search patterns for one entry. The
// fallback matches on tab and page reference alone, tolerating anything
// between, so a mangled title still gets its link.
func Keys(e bundle.TocEntry, cfg Config) (primary, fallback *regexp.Regexp) {
	tab := regexp.QuoteMeta(strip(e.Tab))
	page := strconv.Itoa(displayPage(e, cfg))
	title, long := titleKey(e.Title)

	var p string
	switch {
	case !cfg.ShowDate && long:
		p = tab + title + ".*?" + page
	case !cfg.ShowDate:
		p = tab + title + page
	case long:
		p = tab + title + ".*?" + regexp.QuoteMeta(strip(e.Date)) + page
	default:
		p = tab + title + regexp.QuoteMeta(strip(e.Date)) + page
	}
	primary = regexp.MustCompile("^" + p)
	fallback = regexp.MustCompile("^" + tab + ".*?" + page + "$")
	return primary, fallback
}

func titleKey(title string) (pattern string, long bool) {
	rs := []rune(title)
	if len(rs) > maxKeyTitle {
		return regexp.QuoteMeta(strip(string(rs[:29]))), true
	}
	return regexp.QuoteMeta(strip(title)), false
}

func strip(s string) string { return strings.ReplaceAll(s, " ", "") }

// displayPage is the page reference printed in the index for this entry.
func displayPage(e bundle.TocEntry, cfg Config) int {
	if cfg.RomanPreface {
		return e.StartPage + 1
	}
	return e.StartPage + cfg.FrontmatterPages + 1
}

// Resolve scans the extracted TOC pages for every document entry. Entries
// that match neither key are logged and skipped; the row simply carries no
// link.
func Resolve(entries []bundle.TocEntry, pages []extract.Page, cfg Config, log *slog.Logger) []Placement {
	var placements []Placement
	for _, e := range entries {
		if e.Section {
			continue
		}
		primary, fallback := Keys(e, cfg)
		pl, ok := scan(pages, primary)
		if !ok {
			pl, ok = scan(pages, fallback)
		}
		if !ok {
			log.Warn("no index row matched entry, leaving it unlinked",
				"tab", e.Tab, "title", e.Title)
			continue
		}
		pl.Target = e.StartPage + cfg.FrontmatterPages
		placements = append(placements, pl)
	}
	return placements
}

func scan(pages []extract.Page, re *regexp.Regexp) (Placement, bool) {
	for _, pg := range pages {
		for _, ln := range pg.Lines {
			if re.MatchString(strip(ln.Text)) {
				return Placement{
					TOCPage: pg.Number,
					X0:      ln.X0,
					Top:     ln.Top,
					X1:      ln.X1,
					Bottom:  ln.Bottom,
				}, true
			}
		}
	}
	return Placement{}, false
}

// ToRect flips a placement's top-origin box into PDF user-space
// coordinates: llx, lly, urx, ury.
func ToRect(p Placement, pageHeight float64) [4]float64 {
	return [4]float64{p.X0, pageHeight - p.Bottom, p.X1, pageHeight - p.Top}
}
