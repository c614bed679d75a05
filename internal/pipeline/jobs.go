package pipeline

import (
	"sync"
	"time"

	"github.com/chancerylabs/buntool/internal/bundle"
)

// JobStatus represents the state of an assembly job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single bundle assembly.
type Job struct {
	mu sync.Mutex

	SessionID string    `json:"session_id"`
	Status    JobStatus `json:"status"`
	Stage     string    `json:"stage"`

	BundleTitle string `json:"bundle_title"`
	Documents   int    `json:"documents"`

	OutputPath  string `json:"-"`
	ArchivePath string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	cfg    bundle.Config
	inputs Inputs
	errs   []string
}

// NewJob builds a queued job for one assembly run.
func NewJob(cfg bundle.Config, in Inputs) *Job {
	now := time.Now()
	return &Job{
		SessionID:   cfg.SessionID,
		Status:      StatusQueued,
		Stage:       "queued",
		BundleTitle: cfg.BundleTitle,
		Documents:   len(in.FileOrder),
		CreatedAt:   now,
		UpdatedAt:   now,
		cfg:         cfg,
		inputs:      in,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, stage string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Stage = stage
	j.UpdatedAt = time.Now()
}

// AddError records an error against the job.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errs = append(j.errs, err)
	j.UpdatedAt = time.Now()
}

// SetResult records a finished run's outputs.
func (j *Job) SetResult(res *Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputPath = res.OutputPath
	j.ArchivePath = res.ArchivePath
	j.UpdatedAt = time.Now()
}

// Outputs returns the finished run's file paths.
func (j *Job) Outputs() (output, archive string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.OutputPath, j.ArchivePath
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	SessionID   string    `json:"session_id"`
	Status      JobStatus `json:"status"`
	Stage       string    `json:"stage"`
	BundleTitle string    `json:"bundle_title"`
	Documents   int       `json:"documents"`
	Errors      []string  `json:"errors"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.errs
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		SessionID:   j.SessionID,
		Status:      j.Status,
		Stage:       j.Stage,
		BundleTitle: j.BundleTitle,
		Documents:   j.Documents,
		Errors:      errs,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.SessionID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
