package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"exifdeck/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		jobID  string
		level  string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the exifdeck log file",
		Long:  "Logs prints the newest entries of the JSON log kept in the state directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var filters []logs.Filter
			if jobID != "" {
				filters = append(filters, logs.JobFilter(jobID))
			}
			if level != "" {
				filters = append(filters, logs.LevelFilter(level))
			}
			filter := logs.All(filters...)

			out := cmd.OutOrStdout()
			path := cfg.LogPath()
			recent, offset, err := logs.Last(path, lines, filter)
			if err != nil {
				return err
			}
			for _, line := range recent {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			err = logs.Follow(cmd.Context(), path, offset, 250*time.Millisecond, filter, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&jobID, "job", "", "Only lines of this job (ID or prefix)")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level: debug, info, warn or error")
	return cmd
}
