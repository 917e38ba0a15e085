package automation

import (
	"fmt"
	"sync"
	"time"
)

// Result aggregates the outcome of one engine invocation. Tenant sub-runs
// may append concurrently, so every mutation goes through the mutex.
type Result struct {
	mu sync.Mutex

	JobName    string    `json:"job_name"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Processed  int       `json:"processed"`
	Failed     int       `json:"failed"`
	Errors     []string  `json:"errors"`
	Changes    []Change  `json:"changes"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func NewResult(jobName string) *Result {
	return &Result{
		JobName:   jobName,
		Success:   true,
		StartedAt: time.Now().UTC(),
	}
}

// MarkProcessed counts one successfully completed side effect. Items that
// were merely examined and skipped are not counted.
func (r *Result) MarkProcessed() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Processed++
}

// TenantError records a tenant-level failure. The batch keeps running.
func (r *Result) TenantError(tenantName string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("Tenant %s: %v", tenantName, err))
}

// ItemError records a failure scoped to a single booking.
func (r *Result) ItemError(bookingID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf("Booking %s: %v", bookingID, err))
}

// NoteError records a non-fatal error that is not attributable to one
// booking or tenant, without touching the failure count.
func (r *Result) NoteError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Errors = append(r.Errors, err.Error())
}

func (r *Result) AddChange(change Change) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Changes = append(r.Changes, change)
}

// Abort marks the invocation as failed at the top level, before any tenant
// work could run. Per-tenant and per-item failures never call this.
func (r *Result) Abort(err error) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Success = false
	r.Message = err.Error()
	r.Errors = append(r.Errors, err.Error())
	r.FinishedAt = time.Now().UTC()

	return r
}

// Finish closes the result with a summary message. Partial failures leave
// Success true: the engine ran, some records did not cooperate.
func (r *Result) Finish() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.FinishedAt = time.Now().UTC()
	r.Message = fmt.Sprintf("%s: processed %d, failed %d", r.JobName, r.Processed, r.Failed)

	return r
}
