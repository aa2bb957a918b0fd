package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"exifdeck/internal/batch"
	"exifdeck/internal/document"
)

type summaryView struct {
	JobID      string     `json:"job_id"`
	Operation  string     `json:"operation"`
	Status     string     `json:"status"`
	Outcome    string     `json:"outcome"`
	DryRun     bool       `json:"dry_run"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Cancelled  int        `json:"cancelled"`
	DurationMS int64      `json:"duration_ms"`
	Aborted    string     `json:"aborted,omitempty"`
	Files      []fileView `json:"files"`
}

type fileView struct {
	Path     string       `json:"path"`
	Status   string       `json:"status"`
	Stage    string       `json:"stage,omitempty"`
	Kind     string       `json:"kind,omitempty"`
	Error    string       `json:"error,omitempty"`
	Changes  []changeView `json:"changes,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

type changeView struct {
	Key  string `json:"key"`
	Kind string `json:"kind"`
	Old  string `json:"old,omitempty"`
	New  string `json:"new,omitempty"`
}

func newSummaryView(s batch.Summary) summaryView {
	view := summaryView{
		JobID:      s.JobID,
		Operation:  s.Operation,
		Status:     string(s.Status),
		Outcome:    string(s.Outcome),
		DryRun:     s.DryRun,
		Total:      s.Total,
		Succeeded:  s.Succeeded,
		Failed:     s.Failed,
		Cancelled:  s.Cancelled,
		DurationMS: s.Duration.Milliseconds(),
		Files:      make([]fileView, 0, len(s.Results)),
	}
	if s.Aborted != nil {
		view.Aborted = s.Aborted.Error()
	}
	for _, r := range s.Results {
		fv := fileView{
			Path:    r.Path,
			Status:  string(r.Status),
			Stage:   r.Stage,
			Kind:    r.Kind,
			Changes: changeViews(r.Diff),
		}
		if r.Err != nil {
			fv.Error = r.Err.Error()
		}
		for _, w := range r.Warnings {
			fv.Warnings = append(fv.Warnings, w.Error())
		}
		view.Files = append(view.Files, fv)
	}
	return view
}

func changeViews(diff document.Diff) []changeView {
	out := make([]changeView, 0, len(diff))
	for _, change := range diff {
		out = append(out, changeView{
			Key:  change.Key.String(),
			Kind: change.Kind.String(),
			Old:  change.Old.Raw(),
			New:  change.New.Raw(),
		})
	}
	return out
}

func renderSummary(out io.Writer, s batch.Summary, colorize bool) {
	rows := make([][]string, 0, len(s.Results))
	for _, r := range s.Results {
		rows = append(rows, []string{
			filepath.Base(r.Path),
			string(r.Status),
			strconv.Itoa(len(r.Diff)),
			resultDetail(r),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"File", "Status", "Changes", "Detail"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))

	if s.DryRun {
		for _, r := range s.Results {
			if r.Diff.Empty() {
				continue
			}
			fmt.Fprintf(out, "\n%s\n", r.Path)
			fmt.Fprintln(out, renderDiff(r.Diff))
		}
	}

	kind := statusOK
	switch {
	case s.Status == batch.StatusCancelled:
		kind = statusWarn
	case s.Outcome == batch.OutcomePartial:
		kind = statusError
	}
	message := fmt.Sprintf("%s %s: %d succeeded, %d failed, %d cancelled in %s",
		s.Operation, s.Status, s.Succeeded, s.Failed, s.Cancelled, s.Duration.Round(time.Millisecond))
	if s.DryRun {
		message += " (dry run, nothing written)"
	}
	printStatus(out, "Job "+shortID(s.JobID), kind, message, colorize)
	for _, r := range s.Results {
		if r.Status == batch.FileSucceeded && len(r.Warnings) == 0 {
			continue
		}
		printStatus(out, filepath.Base(r.Path), fileStatusKind(r), resultDetail(r), colorize)
	}
}

func renderDiff(diff document.Diff) string {
	rows := make([][]string, 0, len(diff))
	for _, change := range diff {
		rows = append(rows, []string{change.Key.String(), change.Kind.String(), change.Old.Raw(), change.New.Raw()})
	}
	return renderTable([]string{"Tag", "Change", "Old", "New"}, rows, nil)
}

func resultDetail(r batch.FileResult) string {
	if r.Err != nil {
		if r.Status == batch.FileCancelled {
			return "not started before cancellation"
		}
		return fmt.Sprintf("%s failed (%s): %s", r.Stage, r.Kind, oneLine(r.Err))
	}
	if len(r.Warnings) > 0 {
		parts := make([]string, 0, len(r.Warnings))
		for _, w := range r.Warnings {
			parts = append(parts, oneLine(w))
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// oneLine flattens multi-line messages such as joined errors.
func oneLine(err error) string {
	return strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", "; ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
