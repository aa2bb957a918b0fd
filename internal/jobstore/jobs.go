package jobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const jobColumns = "id, operation, status, outcome, dry_run, concurrency, total, succeeded, failed, cancelled, created_at, started_at, finished_at, updated_at"

// Save upserts the job row and replaces its file rows in one transaction.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(snap.Job.ID) == "" {
		return errors.New("job id required")
	}
	job := snap.Job
	job.UpdatedAt = time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = job.UpdatedAt
	}

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin save tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                 operation = excluded.operation, status = excluded.status, outcome = excluded.outcome,
                 dry_run = excluded.dry_run, concurrency = excluded.concurrency, total = excluded.total,
                 succeeded = excluded.succeeded, failed = excluded.failed, cancelled = excluded.cancelled,
                 started_at = excluded.started_at, finished_at = excluded.finished_at,
                 updated_at = excluded.updated_at`,
			job.ID,
			job.Operation,
			job.Status,
			nullableString(job.Outcome),
			boolToInt(job.DryRun),
			job.Concurrency,
			job.Total,
			job.Succeeded,
			job.Failed,
			job.Cancelled,
			job.CreatedAt.UTC().Format(time.RFC3339Nano),
			nullableTime(job.StartedAt),
			nullableTime(job.FinishedAt),
			job.UpdatedAt.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("upsert job: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM job_files WHERE job_id = ?`, job.ID); err != nil {
			return fmt.Errorf("reset job files: %w", err)
		}
		for _, file := range snap.Files {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO job_files (job_id, seq, path, status, error_kind, error_message, changes, notes)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				job.ID,
				file.Seq,
				file.Path,
				file.Status,
				nullableString(file.ErrorKind),
				nullableString(file.ErrorMessage),
				file.Changes,
				nullableString(strings.Join(file.Notes, "\n")),
			); err != nil {
				return fmt.Errorf("insert job file %s: %w", file.Path, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit job: %w", err)
		}
		return nil
	})
}

// Get fetches a job by ID. A unique ID prefix is accepted. It returns nil
// when no job matches.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`,
		id, stripLikeWildcards(id)+"%", id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch {
	case len(jobs) == 0:
		return nil, nil
	case jobs[0].ID == id, len(jobs) == 1:
		return jobs[0], nil
	default:
		return nil, fmt.Errorf("job id prefix %q is ambiguous", id)
	}
}

// List returns the most recent jobs first. A limit <= 0 returns every job.
func (s *Store) List(ctx context.Context, limit int) ([]*Job, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC, id`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Files returns a job's file results in path-list order.
func (s *Store) Files(ctx context.Context, jobID string) ([]FileRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, path, status, error_kind, error_message, changes, notes
         FROM job_files WHERE job_id = ? ORDER BY seq`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job files: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var (
			record    FileRecord
			errorKind sql.NullString
			errorMsg  sql.NullString
			notes     sql.NullString
		)
		if err := rows.Scan(&record.Seq, &record.Path, &record.Status, &errorKind, &errorMsg, &record.Changes, &notes); err != nil {
			return nil, fmt.Errorf("scan job file: %w", err)
		}
		record.ErrorKind = errorKind.String
		record.ErrorMessage = errorMsg.String
		if notes.String != "" {
			record.Notes = strings.Split(notes.String, "\n")
		}
		files = append(files, record)
	}
	return files, rows.Err()
}

// Prune deletes finished jobs created before cutoff, with their file rows.
// Unfinished jobs are kept.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)
	stamp := cutoff.UTC().Format(time.RFC3339Nano)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin prune tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM job_files WHERE job_id IN (
                 SELECT id FROM jobs WHERE finished_at IS NOT NULL AND created_at < ?)`, stamp); err != nil {
			return fmt.Errorf("prune job files: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE finished_at IS NOT NULL AND created_at < ?`, stamp)
		if err != nil {
			return fmt.Errorf("prune jobs: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		job         Job
		outcome     sql.NullString
		dryRun      int
		createdRaw  string
		startedRaw  sql.NullString
		finishedRaw sql.NullString
		updatedRaw  string
	)
	if err := scanner.Scan(
		&job.ID,
		&job.Operation,
		&job.Status,
		&outcome,
		&dryRun,
		&job.Concurrency,
		&job.Total,
		&job.Succeeded,
		&job.Failed,
		&job.Cancelled,
		&createdRaw,
		&startedRaw,
		&finishedRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	job.Outcome = outcome.String
	job.DryRun = dryRun != 0
	if created, err := parseTimeString(createdRaw); err == nil {
		job.CreatedAt = created
	}
	if started, err := parseTimeString(startedRaw.String); err == nil {
		job.StartedAt = started
	}
	if finished, err := parseTimeString(finishedRaw.String); err == nil {
		job.FinishedAt = finished
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		job.UpdatedAt = updated
	}
	return &job, nil
}

func stripLikeWildcards(value string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(value)
}
