package batch

import (
	"context"
	"fmt"
	"sort"

	"exifdeck/internal/dateshift"
	"exifdeck/internal/document"
	"exifdeck/internal/services"
	"exifdeck/internal/tagjson"
	"exifdeck/internal/tags"
	"exifdeck/internal/templates"
)

// Operation mutates one document. Warnings are non-fatal notes recorded on
// the file's result; a non-nil error fails the file.
type Operation interface {
	Name() string
	Apply(ctx context.Context, doc *document.Document) (warnings []error, err error)
}

// TemplateOp overwrites the template's keys on every file.
type TemplateOp struct {
	Template *templates.Template
}

func (op TemplateOp) Name() string {
	if op.Template == nil {
		return "template"
	}
	return "template " + op.Template.Name
}

func (op TemplateOp) Apply(_ context.Context, doc *document.Document) ([]error, error) {
	if op.Template == nil {
		return nil, services.Wrap(services.ErrValidation, "batch", "template", "no template", nil)
	}
	templates.Apply(op.Template, doc)
	return nil, nil
}

// ClearOp removes every writable tag.
type ClearOp struct{}

func (ClearOp) Name() string { return "clear" }

func (ClearOp) Apply(_ context.Context, doc *document.Document) ([]error, error) {
	for _, key := range doc.Keys() {
		if key.ReadOnly() {
			continue
		}
		doc.RemoveTag(key)
	}
	return nil, nil
}

// ShiftOp moves date/time tags by Delta. An empty Keys selects every
// date/time tag.
type ShiftOp struct {
	Delta dateshift.Delta
	Keys  []tags.Key
}

func (op ShiftOp) Name() string { return "shift " + op.Delta.String() }

func (op ShiftOp) Apply(_ context.Context, doc *document.Document) ([]error, error) {
	if err := op.Delta.Validate(); err != nil {
		return nil, err
	}
	report := dateshift.Shift(doc, op.Delta, op.Keys)
	warnings := report.Skips()
	for _, key := range report.Unchanged {
		warnings = append(warnings, fmt.Errorf("%s: value precision is coarser than %s; left unchanged", key, op.Delta))
	}
	return warnings, nil
}

// EditOp sets and removes explicit keys. Removals run after assignments.
type EditOp struct {
	Set    []templates.Assignment
	Remove []tags.Key
}

func (EditOp) Name() string { return "edit" }

func (op EditOp) Apply(_ context.Context, doc *document.Document) ([]error, error) {
	var warnings []error
	for _, assignment := range op.Set {
		if assignment.Key.ReadOnly() {
			warnings = append(warnings, fmt.Errorf("%s is read-only; skipped", assignment.Key))
			continue
		}
		doc.SetTag(doc.Resolve(assignment.Key), assignment.Value)
	}
	for _, key := range op.Remove {
		key = doc.Resolve(key)
		if _, ok := doc.Tag(key); !ok {
			warnings = append(warnings, fmt.Errorf("%s not present; nothing to remove", key))
			continue
		}
		doc.RemoveTag(key)
	}
	return warnings, nil
}

// ImportOp overlays tags read from an export file. Records are keyed by
// tagjson.CanonicalPath; a file without a record is left untouched.
type ImportOp struct {
	Source  string
	Records map[string][]tags.Entry
}

// NewImportOp indexes decoded records for lookup by document path.
func NewImportOp(source string, records []tagjson.Record) ImportOp {
	return ImportOp{Source: source, Records: tagjson.Index(records)}
}

// Paths returns the canonical paths that have a record, sorted.
func (op ImportOp) Paths() []string {
	out := make([]string, 0, len(op.Records))
	for path := range op.Records {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func (op ImportOp) Name() string {
	if op.Source == "" {
		return "import"
	}
	return "import " + op.Source
}

func (op ImportOp) Apply(_ context.Context, doc *document.Document) ([]error, error) {
	entries, ok := op.Records[tagjson.CanonicalPath(doc.Path())]
	if !ok {
		return []error{fmt.Errorf("no record for %s in %s", doc.Path(), op.Name())}, nil
	}
	_, skipped := tagjson.Overlay(doc, entries)
	var warnings []error
	for _, key := range skipped {
		warnings = append(warnings, fmt.Errorf("%s is read-only; skipped", key))
	}
	return warnings, nil
}
