package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"exifdeck/internal/document"
	"exifdeck/internal/jobstore"
	"exifdeck/internal/logging"
	"exifdeck/internal/services"
	"exifdeck/internal/tagdict"
	"exifdeck/internal/tags"
)

// Adapter is the engine's view of the external tool.
type Adapter interface {
	Probe(ctx context.Context) error
	Extract(ctx context.Context, path string) ([]tags.Entry, error)
	Write(ctx context.Context, path string, changes document.Diff) error
}

// Recorder persists job snapshots. Failures are logged and never affect the
// job.
type Recorder interface {
	Save(ctx context.Context, snap jobstore.Snapshot) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder stores job history.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithValidator checks changed keys against dict before writing. In strict
// mode an unknown key fails the file; otherwise it becomes a warning.
func WithValidator(dict *tagdict.Dictionary, strict bool) Option {
	return func(e *Engine) {
		e.dict = dict
		e.strict = strict
	}
}

// WithDryRun computes diffs without writing or committing.
func WithDryRun(enabled bool) Option {
	return func(e *Engine) { e.dryRun = enabled }
}

// WithProgress registers a callback invoked as each file finishes. It runs on
// worker goroutines and must be safe for concurrent use.
func WithProgress(fn func(FileResult)) Option {
	return func(e *Engine) { e.progress = fn }
}

// Engine dispatches jobs against an adapter.
type Engine struct {
	adapter  Adapter
	logger   *slog.Logger
	recorder Recorder
	dict     *tagdict.Dictionary
	strict   bool
	dryRun   bool
	progress func(FileResult)
}

// New constructs an engine.
func New(adapter Adapter, opts ...Option) *Engine {
	e := &Engine{adapter: adapter}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "batch")
	return e
}

// NewJob creates a pending job. Duplicate paths are dropped; the first
// occurrence keeps its position.
func (e *Engine) NewJob(paths []string, op Operation, limit int) (*Job, error) {
	if op == nil {
		return nil, services.Wrap(services.ErrValidation, "batch", "new job", "operation required", nil)
	}
	if limit < 1 {
		return nil, services.Wrap(services.ErrValidation, "batch", "new job",
			fmt.Sprintf("concurrency limit must be at least 1, got %d", limit), nil)
	}
	seen := make(map[string]struct{}, len(paths))
	unique := make([]string, 0, len(paths))
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		unique = append(unique, path)
	}
	job := newJob(uuid.NewString(), unique, op, limit)
	job.dryRun = e.dryRun
	return job, nil
}

// Start probes the adapter and begins dispatching in the background. A
// missing tool aborts here with ErrToolNotFound and the job stays pending.
// Cancelling ctx is treated as a cancel request; work already dispatched
// still finishes.
func (e *Engine) Start(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("batch: nil job")
	}
	job.mu.Lock()
	if job.status != StatusPending || job.starting {
		job.mu.Unlock()
		return fmt.Errorf("batch: job %s already started", job.id)
	}
	job.starting = true
	job.mu.Unlock()

	ctx = services.WithJobID(ctx, job.id)
	ctx = services.WithOperation(ctx, job.op.Name())
	logger := logging.WithContext(ctx, e.logger)

	if err := e.adapter.Probe(ctx); err != nil {
		if errors.Is(err, services.ErrToolNotFound) {
			logging.ErrorWithContext(logger, "exiftool unavailable; job not started", "tool_not_found",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "install exiftool or set exiftool.binary in config"),
			)
			job.mu.Lock()
			job.starting = false
			job.mu.Unlock()
			return err
		}
		logging.WarnWithContext(logger, "exiftool probe failed; continuing", "probe_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "files may fail individually"),
		)
	}

	job.mu.Lock()
	job.status = StatusRunning
	job.startedAt = time.Now()
	job.mu.Unlock()

	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_started"),
		logging.Int("files", len(job.paths)),
		logging.Int("concurrency", job.limit),
		logging.Bool("dry_run", e.dryRun),
	)
	e.save(ctx, job)

	go e.run(ctx, job)
	return nil
}

// Cancel requests cooperative cancellation of job.
func (e *Engine) Cancel(job *Job) {
	if job != nil {
		job.Cancel()
	}
}

// Run starts job and waits for its summary.
func (e *Engine) Run(ctx context.Context, job *Job) (Summary, error) {
	if err := e.Start(ctx, job); err != nil {
		return Summary{}, err
	}
	return job.Wait(context.WithoutCancel(ctx))
}

func (e *Engine) run(ctx context.Context, job *Job) {
	logger := logging.WithContext(ctx, e.logger)

	stopWatch := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			job.Cancel()
		case <-stopWatch:
		}
	}()

	// In-flight files must not see the parent cancellation.
	workCtx := context.WithoutCancel(ctx)
	sem := semaphore.NewWeighted(int64(job.limit))
	var wg sync.WaitGroup
	dispatched := 0
	for seq, path := range job.paths {
		if job.stopping() {
			break
		}
		if err := sem.Acquire(job.cancelCtx, 1); err != nil {
			break
		}
		if job.stopping() {
			sem.Release(1)
			break
		}
		dispatched++
		wg.Add(1)
		go func(seq int, path string) {
			defer wg.Done()
			defer sem.Release(1)
			result := e.process(workCtx, job, path)
			job.record(seq, result)
			if e.progress != nil {
				e.progress(result)
			}
		}(seq, path)
	}
	wg.Wait()
	close(stopWatch)

	if skipped := job.markUndispatched(); skipped > 0 {
		logger.Info("cancellation observed; remaining files not dispatched",
			logging.String(logging.FieldEventType, "job_cancelled"),
			logging.Int("dispatched", dispatched),
			logging.Int("not_dispatched", skipped),
		)
	}

	summary := job.finish()
	e.save(workCtx, job)
	logger.Info("job finished",
		logging.String(logging.FieldEventType, "job_finished"),
		logging.String("status", string(summary.Status)),
		logging.String("outcome", string(summary.Outcome)),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("cancelled", summary.Cancelled),
		logging.Duration("duration", summary.Duration),
	)
	close(job.done)
}

// process runs one file end to end and never returns an error: every failure
// is captured in the result.
func (e *Engine) process(ctx context.Context, job *Job, path string) FileResult {
	ctx = services.WithFilePath(ctx, path)
	logger := logging.WithContext(ctx, e.logger)
	result := FileResult{Path: path}

	fail := func(stage string, err error) FileResult {
		result.Status = FileFailed
		result.Stage = stage
		result.Err = err
		result.Kind = services.Classify(err)
		logging.WarnWithContext(logger, "file failed", "file_failed",
			logging.String("stage", stage),
			logging.String("kind", result.Kind),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(result.Kind)),
			logging.String(logging.FieldImpact, "file left unchanged; batch continues"),
		)
		if errors.Is(err, services.ErrToolNotFound) {
			job.abort(err)
		}
		return result
	}

	entries, err := e.adapter.Extract(ctx, path)
	if err != nil {
		return fail("extract", err)
	}
	doc, err := document.Load(path, entries)
	if err != nil {
		return fail("load", err)
	}
	warnings, err := job.op.Apply(ctx, doc)
	result.Warnings = warnings
	if err != nil {
		return fail("apply", err)
	}

	diff := doc.Diff()
	if e.dict != nil {
		if unknown := e.dict.Check(writtenKeys(diff)); len(unknown) > 0 {
			if e.strict {
				return fail("validate", errors.Join(unknown...))
			}
			result.Warnings = append(result.Warnings, unknown...)
		}
	}
	result.Diff = diff

	if !e.dryRun && !diff.Empty() {
		if err := e.adapter.Write(ctx, path, diff); err != nil {
			return fail("write", err)
		}
		doc.Commit()
	}

	result.Status = FileSucceeded
	logger.Debug("file processed",
		logging.Int("changes", len(diff)),
		logging.Int("warnings", len(result.Warnings)),
		logging.Bool("dry_run", e.dryRun),
	)
	return result
}

func (e *Engine) save(ctx context.Context, job *Job) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Save(ctx, job.snapshot()); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "job history not recorded", "history_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions or delete jobs.db"),
			logging.String(logging.FieldImpact, "job runs without history"),
		)
	}
}

// snapshot converts the job to its persisted form.
func (j *Job) snapshot() jobstore.Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	snap := jobstore.Snapshot{
		Job: jobstore.Job{
			ID:          j.id,
			Operation:   j.op.Name(),
			Status:      string(j.status),
			DryRun:      j.dryRun,
			Concurrency: j.limit,
			Total:       len(j.results),
			CreatedAt:   j.createdAt,
			StartedAt:   j.startedAt,
			FinishedAt:  j.finishedAt,
		},
		Files: make([]jobstore.FileRecord, 0, len(j.results)),
	}
	if !j.finishedAt.IsZero() {
		snap.Job.Outcome = string(j.summary.Outcome)
		snap.Job.Succeeded = j.summary.Succeeded
		snap.Job.Failed = j.summary.Failed
		snap.Job.Cancelled = j.summary.Cancelled
	}
	for seq, r := range j.results {
		record := jobstore.FileRecord{
			Seq:     seq,
			Path:    r.Path,
			Status:  string(r.Status),
			Changes: len(r.Diff),
		}
		if r.Err != nil {
			record.ErrorKind = r.Kind
			record.ErrorMessage = r.Err.Error()
		}
		for _, w := range r.Warnings {
			record.Notes = append(record.Notes, w.Error())
		}
		snap.Files = append(snap.Files, record)
	}
	return snap
}

// writtenKeys lists the keys a write would assign.
func writtenKeys(diff document.Diff) []tags.Key {
	var keys []tags.Key
	for _, change := range diff {
		if change.Kind == document.Added || change.Kind == document.Modified {
			keys = append(keys, change.Key)
		}
	}
	return keys
}

func hintFor(kind string) string {
	switch kind {
	case services.KindToolNotFound:
		return "install exiftool or set exiftool.binary in config"
	case services.KindTimeout:
		return "raise exiftool.read_timeout / write_timeout for large files"
	case services.KindParse:
		return "run exiftool -j on the file to inspect its output"
	case services.KindValidation:
		return "check tag names against the tag dictionary"
	default:
		return "see the exiftool stderr in the error message"
	}
}
