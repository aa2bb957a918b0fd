package jobstore

import "time"

// Job is the persisted summary row of one batch job.
type Job struct {
	ID          string
	Operation   string
	Status      string
	Outcome     string
	DryRun      bool
	Concurrency int
	Total       int
	Succeeded   int
	Failed      int
	Cancelled   int
	CreatedAt   time.Time
	StartedAt   time.Time
	FinishedAt  time.Time
	UpdatedAt   time.Time
}

// Finished reports whether the job reached a terminal status.
func (j Job) Finished() bool {
	return !j.FinishedAt.IsZero()
}

// Duration returns the wall time between start and finish, or zero while the
// job is still running.
func (j Job) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

// FileRecord is the persisted result of one file in a job. Seq is the file's
// position in the job's path list.
type FileRecord struct {
	Seq          int
	Path         string
	Status       string
	ErrorKind    string
	ErrorMessage string
	Changes      int
	Notes        []string
}

// Snapshot is the unit written by Save: the job row plus every file row.
type Snapshot struct {
	Job   Job
	Files []FileRecord
}
