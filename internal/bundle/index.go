package bundle

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// IndexEntry is one row of the uploaded index file.
type IndexEntry struct {
	Filename string
	Title    string
	Date     string
	Section  bool
}

// Index preserves the row order of the uploaded file. A repeated filename
// keeps its first position but later values overwrite earlier ones.
type Index struct {
	order []string
	rows  map[string]IndexEntry
}

// LoadIndex reads a CSV index from disk.
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer f.Close()
	return ReadIndex(f)
}

// ReadIndex parses the CSV index. Row layouts:
//
//	filename,title,date,flag   flag 1 marks a section divider
//	filename,title,date
//	filename,title
//
// A leading header row is skipped when its first cell reads Filename.
// Rows with fewer than two columns abort the run.
func ReadIndex(r io.Reader) (*Index, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	idx := &Index{rows: make(map[string]IndexEntry)}
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read index: %w", err)
		}
		line++
		if line == 1 && isHeaderRow(rec) {
			continue
		}
		if len(rec) < 2 {
			return nil, &IndexFormatError{Line: line, Columns: len(rec)}
		}
		e := IndexEntry{
			Filename: strings.TrimSpace(rec[0]),
			Title:    strings.TrimSpace(rec[1]),
		}
		if len(rec) > 2 {
			e.Date = strings.TrimSpace(rec[2])
		}
		if len(rec) > 3 {
			e.Section = strings.TrimSpace(rec[3]) == "1"
		}
		idx.put(e)
	}
	return idx, nil
}

func isHeaderRow(rec []string) bool {
	return len(rec) >= 2 && strings.EqualFold(strings.TrimSpace(rec[0]), "filename")
}

func (ix *Index) put(e IndexEntry) {
	if _, seen := ix.rows[e.Filename]; !seen {
		ix.order = append(ix.order, e.Filename)
	}
	ix.rows[e.Filename] = e
}

// Entries returns the rows in first-occurrence order with last-written
// values.
func (ix *Index) Entries() []IndexEntry {
	out := make([]IndexEntry, 0, len(ix.order))
	for _, name := range ix.order {
		out = append(out, ix.rows[name])
	}
	return out
}

// Len reports the number of distinct rows.
func (ix *Index) Len() int { return len(ix.order) }
