package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"exifdeck/internal/document"
	"exifdeck/internal/fileutil"
	"exifdeck/internal/logging"
	"exifdeck/internal/tagjson"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		output string
		flags  batchFlags
	)

	cmd := &cobra.Command{
		Use:   "export <paths...>",
		Short: "Export tags of files as a JSON array",
		Long: "Export reads every file and writes one JSON record per file in exiftool's -j -G\n" +
			"layout. The result can be edited and fed back with \"exifdeck import\".",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := collectTargets(ctx, &flags, args)
			if err != nil {
				return err
			}
			client, err := ctx.exiftoolClient()
			if err != nil {
				return err
			}
			logger, err := ctx.log()
			if err != nil {
				return err
			}

			docs := make([]*document.Document, 0, len(paths))
			failed := 0
			for _, path := range paths {
				entries, err := client.Extract(cmd.Context(), path)
				if err == nil {
					var doc *document.Document
					if doc, err = document.Load(path, entries); err == nil {
						docs = append(docs, doc)
						continue
					}
				}
				if cmd.Context().Err() != nil {
					return cmd.Context().Err()
				}
				failed++
				logging.WarnWithContext(logger, "export skipped file", "export_file_failed",
					logging.File(path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check that the file exists and exiftool can read it"),
				)
				fmt.Fprintf(cmd.ErrOrStderr(), "skip %s: %s\n", path, oneLine(err))
			}

			var buf bytes.Buffer
			if err := tagjson.Export(&buf, docs...); err != nil {
				return err
			}
			if output == "" || output == "-" {
				if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
					return err
				}
			} else {
				if err := fileutil.WriteFileAtomic(output, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d files to %s\n", len(docs), output)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files could not be read", errPartial, failed, len(paths))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Descend into subdirectories")
	return cmd
}
