package bundle

// TocEntry is one row of the generated index: either a section divider or a
// reference to a merged document.
type TocEntry struct {
	Section       bool
	SectionNumber int    // ordinal among section rows
	Label         string // section label

	Tab       string // zero-padded ordinal like "001."
	Title     string
	Date      string
	StartPage int // 0-based offset inside the merged content block
}

// DocumentCount reports the number of document rows.
func DocumentCount(entries []TocEntry) int {
	n := 0
	for _, e := range entries {
		if !e.Section {
			n++
		}
	}
	return n
}
