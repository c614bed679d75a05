package pipeline

import (
	"context"
	"log/slog"

	"github.com/chancerylabs/buntool/internal/bundle"
	"github.com/chancerylabs/buntool/internal/logging"
)

// Worker runs bundle assembly jobs. Each job gets a session-scoped logger
// whose transcript file lives for support lookups after the job is evicted.
type Worker struct {
	log     *slog.Logger
	logsDir string
}

func NewWorker(log *slog.Logger, logsDir string) *Worker {
	return &Worker{log: log, logsDir: logsDir}
}

// Process runs the full assembly for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log, closer, err := logging.NewSession(w.log, w.logsDir, job.SessionID)
	if err != nil {
		// Run anyway; losing the transcript beats losing the bundle.
		w.log.Warn("session log unavailable", "session_id", job.SessionID, "error", err)
		log = w.log.With("session_id", job.SessionID)
	} else {
		defer closer.Close()
	}

	job.SetStatus(StatusRunning, "starting")
	res, err := Assemble(ctx, job.cfg, job.inputs, log, func(stage string) {
		job.SetStatus(StatusRunning, stage)
	})
	if err != nil {
		log.Error("assembly failed", "error", err)
		job.AddError(userFacingError(err, job.SessionID))
		job.SetStatus(StatusFailed, "error")
		return
	}
	job.SetResult(res)
	job.SetStatus(StatusCompleted, "done")
}

// userFacingError keeps raw detail out of API responses for errors that may
// embed file paths or library internals. The transcript has the rest.
func userFacingError(err error, sessionID string) string {
	switch err.(type) {
	case *bundle.IndexFormatError,
		*bundle.FrontmatterMismatchError,
		*bundle.OverlayMismatchError:
		return err.Error()
	}
	if err == bundle.ErrNoDocuments {
		return err.Error()
	}
	return "bundle assembly failed, quote session " + sessionID
}
