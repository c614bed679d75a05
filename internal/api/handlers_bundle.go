package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chancerylabs/buntool/internal/bundle"
	"github.com/chancerylabs/buntool/internal/pipeline"
)

// handleCreateBundle accepts the multipart upload for one bundle run:
// "files" (the documents, repeated), "csv_index" (required), "coversheet"
// (optional) plus the form options. It queues an assembly job and returns
// 202 with a poll URL.
func (s *Server) handleCreateBundle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	sessionID := uuid.NewString()[:8]
	sessionDir := filepath.Join(s.cfg.TempDir, sessionID)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		jsonError(w, "cannot create session directory", http.StatusInternalServerError)
		return
	}

	docs := r.MultipartForm.File["files"]
	if len(docs) == 0 {
		jsonError(w, "at least one document file is required", http.StatusBadRequest)
		return
	}

	// Save documents under their sanitized names and remember the mapping,
	// so the index can be rewritten to match what is on disk.
	files := make(map[string]string, len(docs))
	order := make([]string, 0, len(docs))
	mapping := make(map[string]string, len(docs))
	for _, fh := range docs {
		stored := bundle.SanitizeFilename(fh.Filename)
		if !strings.EqualFold(filepath.Ext(stored), ".pdf") {
			jsonError(w, fmt.Sprintf("unsupported file type: %s (session %s)", filepath.Ext(stored), sessionID), http.StatusBadRequest)
			return
		}
		dst := filepath.Join(sessionDir, stored)
		if err := saveUpload(fh, dst, s.cfg.MaxUploadBytes); err != nil {
			jsonError(w, fmt.Sprintf("saving %s failed (session %s)", stored, sessionID), http.StatusBadRequest)
			return
		}
		files[stored] = dst
		order = append(order, dst)
		mapping[fh.Filename] = stored
	}

	indexFH, err := formFile(r, "csv_index")
	if err != nil {
		jsonError(w, "csv_index is required", http.StatusBadRequest)
		return
	}
	indexPath := filepath.Join(sessionDir, "index.csv")
	if err := synchroniseIndex(indexFH, indexPath, mapping); err != nil {
		jsonError(w, fmt.Sprintf("index file rejected: %v (session %s)", err, sessionID), http.StatusBadRequest)
		return
	}

	coversheet := ""
	if fh, err := formFile(r, "coversheet"); err == nil {
		coversheet = filepath.Join(sessionDir, "coversheet.pdf")
		if err := saveUpload(fh, coversheet, s.cfg.MaxUploadBytes); err != nil {
			jsonError(w, fmt.Sprintf("saving coversheet failed (session %s)", sessionID), http.StatusBadRequest)
			return
		}
	}

	cfg := bundle.Config{
		SessionID:    sessionID,
		Timestamp:    time.Now().Format("20060102_150405"),
		BundleTitle:  r.FormValue("bundle_title"),
		CaseName:     r.FormValue("case_name"),
		ClaimNumber:  r.FormValue("claim_no"),
		Confidential: r.FormValue("confidential") == "true",
		DateSetting:  bundle.ParseDateSetting(r.FormValue("date_setting")),
		IndexFont:    bundle.ParseFontChoice(r.FormValue("index_font")),
		FooterFont:   bundle.ParseFontChoice(r.FormValue("footer_font")),
		Alignment:    bundle.ParseAlignment(r.FormValue("page_num_align")),
		NumberStyle:  bundle.ParseNumberStyle(r.FormValue("page_num_style")),
		FooterPrefix: r.FormValue("footer_prefix"),
		RomanPreface: r.FormValue("roman_for_preface") == "true",
		Zip:          r.FormValue("zip") != "false",
		TempDir:      sessionDir,
		LogsDir:      s.cfg.LogsDir,
		FontsDir:     s.cfg.FontsDir,
	}

	job := pipeline.NewJob(cfg, pipeline.Inputs{
		Files:      files,
		FileOrder:  order,
		IndexFile:  indexPath,
		Coversheet: coversheet,
	})
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sessionID,
		"status":     job.Status,
		"poll_url":   fmt.Sprintf("/api/bundles/%s/status", sessionID),
	})
}

func (s *Server) handleBundleStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "sessionID"))
	if job == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleDownloadBundle(w http.ResponseWriter, r *http.Request) {
	s.serveJobFile(w, r, func(output, _ string) string { return output })
}

func (s *Server) handleDownloadArchive(w http.ResponseWriter, r *http.Request) {
	s.serveJobFile(w, r, func(_, archive string) string { return archive })
}

func (s *Server) serveJobFile(w http.ResponseWriter, r *http.Request, pick func(output, archive string) string) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "sessionID"))
	if job == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("bundle not ready, status %s", snap.Status), http.StatusConflict)
		return
	}
	path := pick(job.Outputs())
	if path == "" {
		jsonError(w, "no such artifact for this session", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func formFile(r *http.Request, field string) (*multipart.FileHeader, error) {
	fhs := r.MultipartForm.File[field]
	if len(fhs) == 0 {
		return nil, fmt.Errorf("%s missing", field)
	}
	return fhs[0], nil
}

func saveUpload(fh *multipart.FileHeader, dst string, maxBytes int64) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	n, err := io.Copy(out, io.LimitReader(src, maxBytes+1))
	if err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if n > maxBytes {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("file exceeds max size (%d bytes)", maxBytes)
	}
	return out.Close()
}

// synchroniseIndex rewrites the uploaded index so its filename column
// refers to the sanitized stored names. Browsers and users rarely agree on
// exact filenames; the mapping built at save time settles it.
func synchroniseIndex(fh *multipart.FileHeader, dst string, mapping map[string]string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open index upload: %w", err)
	}
	defer src.Close()

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	cw := csv.NewWriter(out)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Close()
			return fmt.Errorf("read index: %w", err)
		}
		if len(rec) > 0 {
			if stored, ok := mapping[rec[0]]; ok {
				rec[0] = stored
			}
		}
		if err := cw.Write(rec); err != nil {
			out.Close()
			return fmt.Errorf("write index: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		out.Close()
		return fmt.Errorf("flush index: %w", err)
	}
	return out.Close()
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
