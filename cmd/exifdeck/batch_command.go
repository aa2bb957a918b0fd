package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"exifdeck/internal/batch"
	"exifdeck/internal/fileutil"
	"exifdeck/internal/jobstore"
)

// errPartial marks a batch that finished with failed or cancelled files.
var errPartial = errors.New("batch finished with failures")

type batchFlags struct {
	concurrency int
	dryRun      bool
	recursive   bool
	jsonOutput  bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.concurrency, "concurrency", "j", 0, "Files processed at once (default from config)")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Show the changes without writing them")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Emit the job summary as JSON")
}

// collectTargets expands the positional paths using the batch settings.
func collectTargets(ctx *commandContext, flags *batchFlags, args []string) ([]string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	paths, err := fileutil.CollectFiles(args, fileutil.CollectOptions{
		Recursive:  flags.recursive || cfg.Batch.Recursive,
		Extensions: cfg.Batch.Extensions,
	})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no files matched")
	}
	return paths, nil
}

func runBatch(cmd *cobra.Command, ctx *commandContext, flags *batchFlags, args []string, op batch.Operation) error {
	paths, err := collectTargets(ctx, flags, args)
	if err != nil {
		return err
	}
	return executeJob(cmd, ctx, flags, paths, op)
}

func executeJob(cmd *cobra.Command, ctx *commandContext, flags *batchFlags, paths []string, op batch.Operation) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.log()
	if err != nil {
		return err
	}
	client, err := ctx.exiftoolClient()
	if err != nil {
		return err
	}
	dict, err := ctx.validator()
	if err != nil {
		return err
	}
	limit := flags.concurrency
	if limit <= 0 {
		limit = cfg.Batch.Concurrency
	}

	return ctx.withJobStore(func(store *jobstore.Store) error {
		ctx.pruneHistory(cmd.Context(), store)

		opts := []batch.Option{
			batch.WithLogger(logger),
			batch.WithRecorder(store),
			batch.WithDryRun(flags.dryRun),
		}
		if dict != nil {
			opts = append(opts, batch.WithValidator(dict, cfg.Validation.Strict))
		}
		engine := batch.New(client, opts...)
		job, err := engine.NewJob(paths, op, limit)
		if err != nil {
			return err
		}
		summary, err := engine.Run(cmd.Context(), job)
		if err != nil {
			return err
		}

		if flags.jsonOutput {
			if err := writeJSON(cmd, newSummaryView(summary)); err != nil {
				return err
			}
		} else {
			out := cmd.OutOrStdout()
			renderSummary(out, summary, shouldColorize(out))
		}
		if summary.Outcome == batch.OutcomePartial {
			return fmt.Errorf("%w: %d failed, %d cancelled of %d files (job %s)",
				errPartial, summary.Failed, summary.Cancelled, summary.Total, summary.JobID)
		}
		return nil
	})
}
