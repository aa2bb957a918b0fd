package tagjson

import (
	"encoding/json"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"exifdeck/internal/document"
)

// Export writes the working copy of every document as one array element,
// SourceFile first and tags in document order. Values are written as strings.
func Export(w io.Writer, docs ...*document.Document) error {
	out := make([]*orderedmap.OrderedMap[string, string], 0, len(docs))
	for _, doc := range docs {
		obj := orderedmap.New[string, string](doc.Len() + 1)
		obj.Set(SourceFileKey, doc.Path())
		for _, entry := range doc.Entries() {
			obj.Set(entry.Key.String(), entry.Value.Raw())
		}
		out = append(out, obj)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
