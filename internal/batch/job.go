package batch

import (
	"context"
	"sync"
	"time"

	"exifdeck/internal/document"
	"exifdeck/internal/services"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// FileStatus is the per-file outcome.
type FileStatus string

const (
	FilePending   FileStatus = "pending"
	FileSucceeded FileStatus = "succeeded"
	FileFailed    FileStatus = "failed"
	FileCancelled FileStatus = "cancelled"
)

// Outcome summarizes a finished job: succeeded only when every file did.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomePartial   Outcome = "partial"
)

// FileResult records what happened to one file. Diff holds the changes that
// were written (or, in a dry run, would have been).
type FileResult struct {
	Path     string
	Status   FileStatus
	Err      error
	Kind     string
	Stage    string
	Diff     document.Diff
	Warnings []error
}

// OK reports whether the file succeeded.
func (r FileResult) OK() bool { return r.Status == FileSucceeded }

// Summary is the caller-facing result set of a finished job.
type Summary struct {
	JobID     string
	Operation string
	Status    Status
	Outcome   Outcome
	DryRun    bool
	Total     int
	Succeeded int
	Failed    int
	Cancelled int
	Duration  time.Duration
	// Aborted is set when the job stopped dispatching on its own, for
	// example because exiftool disappeared mid-run.
	Aborted  error
	Results  []FileResult
	Failures []FileResult
}

// Job is one operation applied across an ordered list of files. Create jobs
// with Engine.NewJob.
type Job struct {
	id    string
	paths []string
	op    Operation
	limit int

	cancelCtx context.Context
	cancelFn  context.CancelFunc
	done      chan struct{}

	mu         sync.Mutex
	status     Status
	starting   bool
	cancelled  bool
	aborted    error
	dryRun     bool
	results    []FileResult
	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time
	summary    Summary
}

func newJob(id string, paths []string, op Operation, limit int) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	results := make([]FileResult, len(paths))
	for i, path := range paths {
		results[i] = FileResult{Path: path, Status: FilePending}
	}
	return &Job{
		id:        id,
		paths:     paths,
		op:        op,
		limit:     limit,
		cancelCtx: ctx,
		cancelFn:  cancel,
		done:      make(chan struct{}),
		status:    StatusPending,
		results:   results,
		createdAt: time.Now(),
	}
}

// ID returns the job identifier.
func (j *Job) ID() string { return j.id }

// Paths returns the deduplicated file list in dispatch order.
func (j *Job) Paths() []string { return append([]string(nil), j.paths...) }

// Operation returns the operation the job applies.
func (j *Job) Operation() Operation { return j.op }

// Limit returns the maximum number of files processed at once.
func (j *Job) Limit() int { return j.limit }

// Status returns the current lifecycle state.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Cancel requests cooperative cancellation. It is safe to call any number of
// times, before or after the job finishes.
func (j *Job) Cancel() {
	j.mu.Lock()
	if j.status == StatusCompleted || j.status == StatusCancelled {
		j.mu.Unlock()
		return
	}
	j.cancelled = true
	j.mu.Unlock()
	j.cancelFn()
}

// CancelRequested reports whether Cancel has been called before the job
// finished.
func (j *Job) CancelRequested() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled
}

// Done is closed once the job reaches a terminal status.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes or ctx ends.
func (j *Job) Wait(ctx context.Context) (Summary, error) {
	select {
	case <-j.done:
		j.mu.Lock()
		defer j.mu.Unlock()
		return j.summary, nil
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}
}

// Results returns a copy of the per-file results in path order.
func (j *Job) Results() []FileResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]FileResult(nil), j.results...)
}

// Result returns the result recorded for path.
func (j *Job) Result(path string) (FileResult, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, r := range j.results {
		if r.Path == path {
			return r, true
		}
	}
	return FileResult{}, false
}

// stopping reports whether dispatch must stop.
func (j *Job) stopping() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled || j.aborted != nil
}

func (j *Job) abort(err error) {
	j.mu.Lock()
	if j.aborted == nil {
		j.aborted = err
	}
	j.mu.Unlock()
	j.cancelFn()
}

func (j *Job) record(seq int, result FileResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results[seq] = result
}

// markUndispatched records every still-pending file as cancelled.
func (j *Job) markUndispatched() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for i := range j.results {
		if j.results[i].Status != FilePending {
			continue
		}
		j.results[i].Status = FileCancelled
		j.results[i].Kind = services.KindCancelled
		j.results[i].Err = services.Wrap(services.ErrCancelled, "batch", "dispatch", "not started before cancellation", nil)
		n++
	}
	return n
}

// finish moves the job to its terminal status and builds the summary.
func (j *Job) finish() Summary {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.finishedAt = time.Now()
	if j.cancelled || j.aborted != nil {
		j.status = StatusCancelled
	} else {
		j.status = StatusCompleted
	}

	s := Summary{
		JobID:     j.id,
		Operation: j.op.Name(),
		Status:    j.status,
		DryRun:    j.dryRun,
		Total:     len(j.results),
		Duration:  j.finishedAt.Sub(j.startedAt),
		Aborted:   j.aborted,
		Results:   append([]FileResult(nil), j.results...),
	}
	for _, r := range j.results {
		switch r.Status {
		case FileSucceeded:
			s.Succeeded++
		case FileCancelled:
			s.Cancelled++
			s.Failures = append(s.Failures, r)
		default:
			s.Failed++
			s.Failures = append(s.Failures, r)
		}
	}
	s.Outcome = OutcomeSucceeded
	if len(s.Failures) > 0 {
		s.Outcome = OutcomePartial
	}
	j.summary = s
	return s
}
