package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exifdeck/internal/batch"
	"exifdeck/internal/dateshift"
	"exifdeck/internal/tags"
	"exifdeck/internal/templates"
)

func newSetCommand(ctx *commandContext) *cobra.Command {
	var (
		flags      batchFlags
		assigns    []string
		removals   []string
		assignFile string
	)

	cmd := &cobra.Command{
		Use:   "set <paths...>",
		Short: "Set or remove tags on files",
		Long: "Set assigns Group:Tag=Value pairs and removes Group:Tag keys on every file.\n" +
			"Directories expand to known media and document files.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var op batch.EditOp
			if assignFile != "" {
				data, err := os.ReadFile(assignFile)
				if err != nil {
					return fmt.Errorf("read assignments: %w", err)
				}
				parsed, err := templates.ParseAssignments(string(data))
				if err != nil {
					return fmt.Errorf("%s: %w", assignFile, err)
				}
				op.Set = append(op.Set, parsed...)
			}
			for _, raw := range assigns {
				assignment, err := templates.ParseAssignment(raw)
				if err != nil {
					return err
				}
				op.Set = append(op.Set, assignment)
			}
			keys, err := tags.ParseKeys(removals)
			if err != nil {
				return err
			}
			op.Remove = keys
			if len(op.Set) == 0 && len(op.Remove) == 0 {
				return errors.New("nothing to do: pass --tag, --remove or --file")
			}
			return runBatch(cmd, ctx, &flags, args, op)
		},
	}

	cmd.Flags().StringArrayVarP(&assigns, "tag", "t", nil, "Assignment Group:Tag=Value (repeatable)")
	cmd.Flags().StringArrayVar(&removals, "remove", nil, "Tag to remove, Group:Tag (repeatable)")
	cmd.Flags().StringVarP(&assignFile, "file", "f", "", "Read assignments from a file, one per line")
	flags.register(cmd)
	return cmd
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "clear <paths...>",
		Short: "Remove all writable metadata from files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, &flags, args, batch.ClearOp{})
		},
	}
	flags.register(cmd)
	return cmd
}

func newShiftCommand(ctx *commandContext) *cobra.Command {
	var (
		flags      batchFlags
		days       int
		hours      int
		minutes    int
		seconds    int
		deltaText  string
		keyFilters []string
	)

	cmd := &cobra.Command{
		Use:   "shift <paths...>",
		Short: "Shift date/time tags by a fixed amount",
		Long: "Shift adds a signed delta to date/time tags as wall-clock values; zones are kept as written.\n" +
			"Without --key every date/time tag is shifted. Example: exifdeck shift --delta -1h30m photos/",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta := dateshift.Delta{Days: days, Hours: hours, Minutes: minutes, Seconds: seconds}
			if err := delta.Validate(); err != nil {
				return err
			}
			if deltaText != "" {
				if !delta.IsZero() {
					return errors.New("use either --delta or --days/--hours/--minutes/--seconds, not both")
				}
				parsed, err := dateshift.ParseDelta(deltaText)
				if err != nil {
					return err
				}
				delta = parsed
			}
			if delta.IsZero() {
				return errors.New("shift amount is zero")
			}
			keys, err := tags.ParseKeys(keyFilters)
			if err != nil {
				return err
			}
			return runBatch(cmd, ctx, &flags, args, batch.ShiftOp{Delta: delta, Keys: keys})
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Days to add (negative to subtract)")
	cmd.Flags().IntVar(&hours, "hours", 0, "Hours to add")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Minutes to add")
	cmd.Flags().IntVar(&seconds, "seconds", 0, "Seconds to add")
	cmd.Flags().StringVarP(&deltaText, "delta", "d", "", "Delta such as +1d, -2h30m")
	cmd.Flags().StringArrayVarP(&keyFilters, "key", "k", nil, "Only shift this tag, Group:Tag (repeatable)")
	flags.register(cmd)
	return cmd
}
