package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"exifdeck/internal/jobstore"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"history"},
		Short:   "Inspect past batch jobs",
	}
	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJobStore(func(store *jobstore.Store) error {
				jobs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					views := make([]jobView, 0, len(jobs))
					for _, job := range jobs {
						views = append(views, newJobView(job, nil))
					}
					return writeJSON(cmd, views)
				}

				out := cmd.OutOrStdout()
				if len(jobs) == 0 {
					fmt.Fprintln(out, "No jobs recorded")
					return nil
				}
				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					rows = append(rows, []string{
						shortID(job.ID),
						job.CreatedAt.Local().Format("2006-01-02 15:04:05"),
						job.Operation,
						jobStatusLabel(job),
						fmt.Sprintf("%d/%d", job.Succeeded, job.Total),
						strconv.Itoa(job.Failed),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Created", "Operation", "Status", "OK", "Failed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of jobs to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit jobs as JSON")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one job and its per-file results",
		Long:  "Show accepts the full job ID or any unique prefix of it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJobStore(func(store *jobstore.Store) error {
				job, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if job == nil {
					return errors.New("no job matches " + args[0])
				}
				files, err := store.Files(cmd.Context(), job.ID)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, newJobView(job, files))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Job %s\n", job.ID)
				fmt.Fprintf(out, "  Operation: %s\n", job.Operation)
				fmt.Fprintf(out, "  Status:    %s\n", jobStatusLabel(job))
				fmt.Fprintf(out, "  Created:   %s\n", job.CreatedAt.Local().Format(time.RFC3339))
				if d := job.Duration(); d > 0 {
					fmt.Fprintf(out, "  Duration:  %s\n", d.Round(time.Millisecond))
				}
				fmt.Fprintf(out, "  Files:     %d succeeded, %d failed, %d cancelled of %d\n",
					job.Succeeded, job.Failed, job.Cancelled, job.Total)

				rows := make([][]string, 0, len(files))
				for _, f := range files {
					detail := f.ErrorMessage
					if detail == "" && len(f.Notes) > 0 {
						detail = f.Notes[0]
					}
					rows = append(rows, []string{f.Path, f.Status, f.ErrorKind, strconv.Itoa(f.Changes), detail})
				}
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable(
						[]string{"File", "Status", "Kind", "Changes", "Detail"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
					))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the job as JSON")
	return cmd
}

func jobStatusLabel(job *jobstore.Job) string {
	label := job.Status
	if job.Outcome != "" && job.Outcome != job.Status {
		label += " (" + job.Outcome + ")"
	}
	if job.DryRun {
		label += " [dry run]"
	}
	return label
}

type jobView struct {
	ID          string        `json:"id"`
	Operation   string        `json:"operation"`
	Status      string        `json:"status"`
	Outcome     string        `json:"outcome,omitempty"`
	DryRun      bool          `json:"dry_run"`
	Concurrency int           `json:"concurrency"`
	Total       int           `json:"total"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Cancelled   int           `json:"cancelled"`
	CreatedAt   time.Time     `json:"created_at"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
	Files       []jobFileView `json:"files,omitempty"`
}

type jobFileView struct {
	Path    string   `json:"path"`
	Status  string   `json:"status"`
	Kind    string   `json:"kind,omitempty"`
	Error   string   `json:"error,omitempty"`
	Changes int      `json:"changes"`
	Notes   []string `json:"notes,omitempty"`
}

func newJobView(job *jobstore.Job, files []jobstore.FileRecord) jobView {
	view := jobView{
		ID:          job.ID,
		Operation:   job.Operation,
		Status:      job.Status,
		Outcome:     job.Outcome,
		DryRun:      job.DryRun,
		Concurrency: job.Concurrency,
		Total:       job.Total,
		Succeeded:   job.Succeeded,
		Failed:      job.Failed,
		Cancelled:   job.Cancelled,
		CreatedAt:   job.CreatedAt,
	}
	if job.Finished() {
		finished := job.FinishedAt
		view.FinishedAt = &finished
	}
	for _, f := range files {
		view.Files = append(view.Files, jobFileView{
			Path:    f.Path,
			Status:  f.Status,
			Kind:    f.ErrorKind,
			Error:   f.ErrorMessage,
			Changes: f.Changes,
			Notes:   f.Notes,
		})
	}
	return view
}
