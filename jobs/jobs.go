// Package jobs tracks conversion jobs across their lifecycle: uploaded,
// processing, completed, or failed. A Registry holds the state; a Manager
// runs conversions against it, one goroutine per job.
package jobs

import (
	"sync"
	"time"
)

// Status is a job lifecycle state.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// terminal reports whether no further transitions are allowed.
func (s Status) terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is the tracked state of one conversion.
type Job struct {
	ID               string
	OriginalFilename string
	InputPath        string
	OutputPath       string
	Status           Status
	Progress         int
	Message          string
	Err              string
	CreatedAt        time.Time
}

// Snapshot is the client-facing view of a job, served by the status
// endpoint.
type Snapshot struct {
	Status      Status `json:"status"`
	Progress    int    `json:"progress"`
	Message     string `json:"message"`
	Error       string `json:"error,omitempty"`
	CanDownload bool   `json:"can_download"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Status     *Status
	Progress   *int
	Message    *string
	Err        *string
	OutputPath *string
}

func statusPtr(s Status) *Status { return &s }
func intPtr(i int) *int          { return &i }
func strPtr(s string) *string    { return &s }

// Registry is a concurrency-safe job table.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a freshly uploaded job.
func (r *Registry) Create(id, originalFilename, inputPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id] = &Job{
		ID:               id,
		OriginalFilename: originalFilename,
		InputPath:        inputPath,
		Status:           StatusUploaded,
		Message:          "File uploaded successfully",
		CreatedAt:        time.Now(),
	}
}

// Apply merges a patch into a job. Terminal jobs reject all patches, and
// progress never moves backwards: a late or failure-time regression keeps
// the bar frozen where processing stopped. Reports whether the job exists
// and accepted the patch.
func (r *Registry) Apply(id string, p Patch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.Status.terminal() {
		return false
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.Progress != nil && *p.Progress >= j.Progress {
		j.Progress = *p.Progress
	}
	if p.Message != nil {
		j.Message = *p.Message
	}
	if p.Err != nil {
		j.Err = *p.Err
	}
	if p.OutputPath != nil {
		j.OutputPath = *p.OutputPath
	}
	return true
}

// Snapshot returns the client view of a job.
func (r *Registry) Snapshot(id string) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Status:      j.Status,
		Progress:    j.Progress,
		Message:     j.Message,
		Error:       j.Err,
		CanDownload: j.Status == StatusCompleted && j.OutputPath != "",
	}, true
}

// Job returns a copy of the full job record.
func (r *Registry) Job(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// Delete removes a job from the table.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}
