package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"exifdeck/internal/batch"
	"exifdeck/internal/tagjson"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "import <file.json> [paths...]",
		Short: "Apply tags from an exported JSON file",
		Long: "Import overlays each record's tags onto the file named by its SourceFile. Without\n" +
			"paths every record whose file exists is imported; with paths only those files are\n" +
			"touched. Read-only groups are skipped.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			data, err := readImportSource(cmd, source)
			if err != nil {
				return err
			}
			records, err := tagjson.Decode(data, source)
			if err != nil {
				return err
			}
			op := batch.NewImportOp(source, records)

			var paths []string
			if len(args) > 1 {
				paths, err = collectTargets(ctx, &flags, args[1:])
				if err != nil {
					return err
				}
			} else {
				for _, path := range op.Paths() {
					if info, err := os.Stat(path); err != nil || info.IsDir() {
						fmt.Fprintf(cmd.ErrOrStderr(), "skip %s: file not found\n", path)
						continue
					}
					paths = append(paths, path)
				}
				if len(paths) == 0 {
					return errors.New("no record in " + source + " names an existing file")
				}
			}
			return executeJob(cmd, ctx, &flags, paths, op)
		},
	}
	flags.register(cmd)
	return cmd
}

func readImportSource(cmd *cobra.Command, source string) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return data, nil
}
