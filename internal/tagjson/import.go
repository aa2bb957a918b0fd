package tagjson

import (
	"fmt"
	"io"
	"path/filepath"

	"exifdeck/internal/document"
	"exifdeck/internal/tags"
)

// ImportReport summarizes an Import.
type ImportReport struct {
	Records  int
	Matched  []string
	Unknown  []string
	Applied  int
	ReadOnly []tags.Key
}

// Import reads records from r and stages each matching record's tags onto the
// document with the same path. Records for paths not among docs are ignored.
// Import never writes anything to disk.
func Import(r io.Reader, source string, docs []*document.Document) (ImportReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportReport{}, fmt.Errorf("read %s: %w", source, err)
	}
	records, err := Decode(data, source)
	if err != nil {
		return ImportReport{}, err
	}

	byPath := make(map[string]*document.Document, len(docs))
	for _, doc := range docs {
		byPath[CanonicalPath(doc.Path())] = doc
	}

	report := ImportReport{Records: len(records)}
	for _, record := range records {
		doc, ok := byPath[CanonicalPath(record.SourceFile)]
		if !ok {
			report.Unknown = append(report.Unknown, record.SourceFile)
			continue
		}
		applied, skipped := Overlay(doc, record.Entries)
		report.Matched = append(report.Matched, doc.Path())
		report.Applied += applied
		report.ReadOnly = append(report.ReadOnly, skipped...)
	}
	return report, nil
}

// Overlay stages entries onto doc with SetTag, skipping read-only groups. It
// returns the number applied and the keys skipped.
func Overlay(doc *document.Document, entries []tags.Entry) (int, []tags.Key) {
	applied := 0
	var skipped []tags.Key
	for _, entry := range entries {
		if entry.Key.ReadOnly() {
			skipped = append(skipped, entry.Key)
			continue
		}
		doc.SetTag(doc.Resolve(entry.Key), entry.Value)
		applied++
	}
	return applied, skipped
}

// Index maps canonical source paths to their record entries. A later record
// for the same path replaces an earlier one.
func Index(records []Record) map[string][]tags.Entry {
	out := make(map[string][]tags.Entry, len(records))
	for _, record := range records {
		out[CanonicalPath(record.SourceFile)] = record.Entries
	}
	return out
}

// CanonicalPath is the form used to match SourceFile against document paths.
func CanonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
