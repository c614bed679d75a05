package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// Archive names everything that goes into the companion zip: the source
// documents, the index in its three renditions, the coversheet, and the
// finished bundle.
type Archive struct {
	Inputs     []string
	IndexFile  string
	TOCFile    string
	DocxFile   string
	Coversheet string
	Output     string
}

// WriteArchive packages a run's inputs and outputs so a bundle can be
// regenerated or audited later. Source documents sit under input_files/,
// everything else at the archive root. Empty paths are skipped.
func WriteArchive(dest string, a Archive) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, in := range a.Inputs {
		if err := addFile(zw, in, path.Join("input_files", filepath.Base(in))); err != nil {
			zw.Close()
			return err
		}
	}
	for _, p := range []string{a.IndexFile, a.TOCFile, a.DocxFile, a.Coversheet, a.Output} {
		if p == "" {
			continue
		}
		if err := addFile(zw, p, filepath.Base(p)); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return f.Close()
}

func addFile(zw *zip.Writer, src, name string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("archive %s: %w", src, err)
	}
	defer in.Close()
	out, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("archive copy %s: %w", name, err)
	}
	return nil
}
