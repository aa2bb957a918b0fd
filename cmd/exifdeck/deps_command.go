package main

import (
	"github.com/spf13/cobra"

	"exifdeck/internal/deps"
	"exifdeck/internal/services"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that external tools are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := deps.CheckBinaries([]deps.Requirement{deps.ExiftoolRequirement(cfg.Exiftool.Binary)})
			missing := false
			for _, status := range statuses {
				if !status.Available {
					missing = missing || !status.Optional
					kind := statusError
					if status.Optional {
						kind = statusWarn
					}
					printStatus(out, status.Name, kind, status.Detail, colorize)
					continue
				}

				client, err := ctx.exiftoolClient()
				if err != nil {
					printStatus(out, status.Name, statusError, oneLine(err), colorize)
					missing = true
					continue
				}
				version, err := client.Version(cmd.Context())
				if err != nil {
					printStatus(out, status.Name, statusWarn, status.Command+" (version unknown: "+oneLine(err)+")", colorize)
					continue
				}
				printStatus(out, status.Name, statusOK, status.Command+" "+version, colorize)
			}
			if missing {
				return services.Wrap(services.ErrToolNotFound, "deps", "check", "required tools are missing", nil)
			}
			return nil
		},
	}
}
