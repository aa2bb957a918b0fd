package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"exifdeck/internal/batch"
	"exifdeck/internal/document"
	"exifdeck/internal/tags"
	"exifdeck/internal/templates"
)

func newTemplateCommand(ctx *commandContext) *cobra.Command {
	templateCmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates", "tpl"},
		Short:   "Manage and apply tag templates",
	}

	templateCmd.AddCommand(newTemplateListCommand(ctx))
	templateCmd.AddCommand(newTemplateShowCommand(ctx))
	templateCmd.AddCommand(newTemplateSaveCommand(ctx))
	templateCmd.AddCommand(newTemplateDeleteCommand(ctx))
	templateCmd.AddCommand(newTemplateApplyCommand(ctx))

	return templateCmd
}

func newTemplateListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.templateStore()
			if err != nil {
				return err
			}
			all, err := store.List()
			if err != nil {
				return err
			}
			if jsonOutput {
				views := make([]templateView, 0, len(all))
				for _, t := range all {
					views = append(views, newTemplateView(t))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(all) == 0 {
				fmt.Fprintf(out, "No templates in %s\n", store.Path())
				return nil
			}
			rows := make([][]string, 0, len(all))
			for _, t := range all {
				rows = append(rows, []string{t.Name, strconv.Itoa(len(t.Entries)), keyPreview(t.Keys(), 4)})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "Entries", "Tags"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit templates as JSON")
	return cmd
}

func newTemplateShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a template's assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.templateStore()
			if err != nil {
				return err
			}
			t, err := store.Get(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, newTemplateView(t))
			}
			_, err = io.WriteString(cmd.OutOrStdout(), templates.FormatAssignments(t.Entries))
			return err
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the template as JSON")
	return cmd
}

func newTemplateSaveCommand(ctx *commandContext) *cobra.Command {
	var (
		fromFile   string
		assignFile string
		keys       []string
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Create or replace a template",
		Long: "Save captures a template either from a file's current tag values (--from, optionally\n" +
			"limited with --key) or from an assignments file (--file, \"-\" for stdin) holding\n" +
			"Group:Tag=Value lines.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if (fromFile == "") == (assignFile == "") {
				return errors.New("pass exactly one of --from or --file")
			}

			var (
				t   *templates.Template
				err error
			)
			if fromFile != "" {
				t, err = templateFromFile(cmd, ctx, name, fromFile, keys)
			} else {
				if len(keys) > 0 {
					return errors.New("--key only applies with --from")
				}
				t, err = templateFromAssignments(cmd, name, assignFile)
			}
			if err != nil {
				return err
			}

			store, err := ctx.templateStore()
			if err != nil {
				return err
			}
			if err := store.Put(t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved template %q with %d entries to %s\n", t.Name, len(t.Entries), store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "from", "", "Capture current values from this file")
	cmd.Flags().StringVarP(&assignFile, "file", "f", "", "Read Group:Tag=Value lines from this file")
	cmd.Flags().StringArrayVarP(&keys, "key", "k", nil, "Tag to capture with --from, Group:Tag (repeatable)")
	return cmd
}

func templateFromFile(cmd *cobra.Command, ctx *commandContext, name, source string, rawKeys []string) (*templates.Template, error) {
	keys, err := tags.ParseKeys(rawKeys)
	if err != nil {
		return nil, err
	}
	path, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	client, err := ctx.exiftoolClient()
	if err != nil {
		return nil, err
	}
	entries, err := client.Extract(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	doc, err := document.Load(path, entries)
	if err != nil {
		return nil, err
	}
	return templates.Save(name, doc, keys)
}

func templateFromAssignments(cmd *cobra.Command, name, source string) (*templates.Template, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read assignments: %w", err)
	}
	entries, err := templates.ParseAssignments(string(data))
	if err != nil {
		return nil, err
	}
	return templates.New(name, entries)
}

func newTemplateDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.templateStore()
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %q\n", args[0])
			return nil
		},
	}
}

func newTemplateApplyCommand(ctx *commandContext) *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "apply <name> <paths...>",
		Short: "Apply a template to files",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.templateStore()
			if err != nil {
				return err
			}
			t, err := store.Get(args[0])
			if err != nil {
				return err
			}
			return runBatch(cmd, ctx, &flags, args[1:], batch.TemplateOp{Template: t})
		},
	}
	flags.register(cmd)
	return cmd
}

type templateView struct {
	Name    string           `json:"name"`
	Entries []assignmentView `json:"entries"`
}

type assignmentView struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func newTemplateView(t *templates.Template) templateView {
	view := templateView{Name: t.Name, Entries: make([]assignmentView, 0, len(t.Entries))}
	for _, entry := range t.Entries {
		view.Entries = append(view.Entries, assignmentView{Key: entry.Key.String(), Value: entry.Value.Raw()})
	}
	return view
}

func keyPreview(keys []tags.Key, limit int) string {
	parts := make([]string, 0, limit+1)
	for i, key := range keys {
		if i == limit {
			parts = append(parts, fmt.Sprintf("+%d more", len(keys)-limit))
			break
		}
		parts = append(parts, key.String())
	}
	return strings.Join(parts, ", ")
}
