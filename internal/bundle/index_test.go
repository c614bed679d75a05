package bundle

import (
	"errors"
	"strings"
	"testing"
)

func TestReadIndex_FourColumns(t *testing.T) {
	csv := "Filename,Title,Date,Section\n" +
		"a.pdf,Witness Statement,01.02.2023,0\n" +
		"SECTION,Correspondence,,1\n" +
		"b.pdf,Exhibit B,,0\n"
	idx, err := ReadIndex(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	entries := idx.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Filename != "a.pdf" || entries[0].Title != "Witness Statement" || entries[0].Date != "01.02.2023" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if !entries[1].Section || entries[1].Title != "Correspondence" {
		t.Errorf("expected section row, got %+v", entries[1])
	}
	if entries[2].Section {
		t.Errorf("expected document row, got %+v", entries[2])
	}
}

func TestReadIndex_ShortRows(t *testing.T) {
	csv := "a.pdf,Title A,01.01.2020\nb.pdf,Title B\n"
	idx, err := ReadIndex(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	entries := idx.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Date != "01.01.2020" {
		t.Errorf("expected date on 3-column row, got %q", entries[0].Date)
	}
	if entries[1].Date != "" || entries[1].Section {
		t.Errorf("2-column row should default date and flag, got %+v", entries[1])
	}
}

func TestReadIndex_HeaderOnlyWhenFirstRow(t *testing.T) {
	// A row literally named Filename further down is data, not a header.
	csv := "a.pdf,Title A\nFilename,Some Title\n"
	idx, err := ReadIndex(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", idx.Len())
	}
}

func TestReadIndex_TooFewColumns(t *testing.T) {
	csv := "a.pdf,Title A\nlonely\n"
	_, err := ReadIndex(strings.NewReader(csv))
	var ferr *IndexFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected IndexFormatError, got %v", err)
	}
	if ferr.Line != 2 || ferr.Columns != 1 {
		t.Errorf("unexpected error detail: %+v", ferr)
	}
}

func TestReadIndex_DuplicateFilenameLastWriteWins(t *testing.T) {
	csv := "a.pdf,First Title,,0\nb.pdf,Middle,,0\na.pdf,Second Title,,0\n"
	idx, err := ReadIndex(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	entries := idx.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// First occurrence keeps its position, later values win.
	if entries[0].Filename != "a.pdf" || entries[0].Title != "Second Title" {
		t.Errorf("expected a.pdf with overwritten title first, got %+v", entries[0])
	}
	if entries[1].Filename != "b.pdf" {
		t.Errorf("expected b.pdf second, got %+v", entries[1])
	}
}

func TestReadIndex_Empty(t *testing.T) {
	idx, err := ReadIndex(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("expected empty index, got %d entries", idx.Len())
	}
}
