package bundle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxNameLen keeps generated filenames comfortably inside common filesystem
// and download-header limits.
const maxNameLen = 100

// OutputName picks the bundle's filename, shrinking its parts progressively
// until the whole name fits: full title and case name, then a 20-rune title,
// then 30 runes of each, then the fallback label, then the bare timestamp.
func OutputName(title, caseName, timestamp, fallback string) string {
	if fallback == "" {
		fallback = "Bundle"
	}
	name := fmt.Sprintf("%s_%s_%s.pdf", title, caseName, timestamp)
	if len(name) > maxNameLen {
		name = fmt.Sprintf("%s_%s_%s.pdf", truncateRunes(title, 20), caseName, timestamp)
	}
	if len(name) > maxNameLen {
		name = fmt.Sprintf("%s_%s_%s.pdf", truncateRunes(title, 30), truncateRunes(caseName, 30), timestamp)
	}
	if len(name) > maxNameLen {
		name = fmt.Sprintf("%s_%s.pdf", fallback, timestamp)
	}
	if len(name) > maxNameLen {
		name = timestamp + ".pdf"
	}
	return SanitizeFilename(name)
}

func truncateRunes(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

// SanitizeFilename strips path components and awkward characters from an
// uploaded or generated name.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_', r == '(', r == ')':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
