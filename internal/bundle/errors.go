package bundle

import (
	"errors"
	"fmt"
)

// ErrNoDocuments means the index matched nothing that could be merged.
// Producing an empty bundle would only look like success.
var ErrNoDocuments = errors.New("index contains no mergeable document rows")

// IndexFormatError reports a malformed row in the uploaded CSV index.
type IndexFormatError struct {
	Line    int
	Columns int
}

func (e *IndexFormatError) Error() string {
	return fmt.Sprintf("index row %d has %d columns, need at least 2", e.Line, e.Columns)
}

// RenderError wraps a failure inside the layout engine. Callers surface only
// the session code; the cause goes to the session log.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// FrontmatterMismatchError means the real coversheet+index block came out a
// different length than the measuring pass predicted. Every page reference
// downstream would be wrong, so the run aborts.
type FrontmatterMismatchError struct {
	Expected int
	Actual   int
}

func (e *FrontmatterMismatchError) Error() string {
	return fmt.Sprintf("frontmatter is %d pages, measuring pass predicted %d", e.Actual, e.Expected)
}

// OverlayMismatchError means the footer overlay and the merged content
// disagree on page count. Footers map onto content pages one to one.
type OverlayMismatchError struct {
	Content int
	Overlay int
}

func (e *OverlayMismatchError) Error() string {
	return fmt.Sprintf("footer overlay has %d pages for %d content pages", e.Overlay, e.Content)
}
