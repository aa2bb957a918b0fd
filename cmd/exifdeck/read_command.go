package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"exifdeck/internal/document"
	"exifdeck/internal/tagjson"
	"exifdeck/internal/tags"
)

func newReadCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		groups     []string
		search     string
	)

	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Show every tag of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			client, err := ctx.exiftoolClient()
			if err != nil {
				return err
			}
			entries, err := client.Extract(cmd.Context(), path)
			if err != nil {
				return err
			}
			doc, err := document.Load(path, entries)
			if err != nil {
				return err
			}
			if len(groups) > 0 {
				doc = filterEntries(doc, inGroups(groups))
			}
			if term := strings.TrimSpace(search); term != "" {
				doc = filterEntries(doc, matchesSearch(term))
			}

			if jsonOutput {
				return tagjson.Export(cmd.OutOrStdout(), doc)
			}
			rows := make([][]string, 0, doc.Len())
			for _, entry := range doc.Entries() {
				rows = append(rows, []string{entry.Key.Group, entry.Key.Name, entry.Value.Raw()})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Group", "Tag", "Value"}, rows, nil))
			fmt.Fprintf(out, "%d tags in %s\n", doc.Len(), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit tags in the export JSON format")
	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "Only show these groups (repeatable)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show tags whose key or value contains this text (case-insensitive)")
	return cmd
}

// filterEntries returns a document holding only the entries keep accepts.
func filterEntries(doc *document.Document, keep func(tags.Entry) bool) *document.Document {
	var filtered []tags.Entry
	for _, entry := range doc.Entries() {
		if keep(entry) {
			filtered = append(filtered, entry)
		}
	}
	out, err := document.Load(doc.Path(), filtered)
	if err != nil {
		return doc
	}
	return out
}

func inGroups(groups []string) func(tags.Entry) bool {
	keep := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		keep[strings.ToLower(strings.TrimSpace(g))] = struct{}{}
	}
	return func(entry tags.Entry) bool {
		_, ok := keep[strings.ToLower(entry.Key.Group)]
		return ok
	}
}

func matchesSearch(term string) func(tags.Entry) bool {
	term = strings.ToLower(term)
	return func(entry tags.Entry) bool {
		return strings.Contains(strings.ToLower(entry.Key.String()), term) ||
			strings.Contains(strings.ToLower(entry.Value.Raw()), term)
	}
}
