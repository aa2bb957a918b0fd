package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"

	"exifdeck/internal/fileutil"
	"exifdeck/internal/schema"
	"exifdeck/internal/services"
	"exifdeck/internal/tags"
)

// ErrNotFound reports a template name missing from the store.
var ErrNotFound = errors.New("template not found")

const storeVersion = 1

var storeSchema = schema.MustCompile("template store", `{
  "type": "object",
  "required": ["version", "templates"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer", "const": 1},
    "templates": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "entries"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "entries": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["key", "value"],
              "additionalProperties": false,
              "properties": {
                "key": {"type": "string", "minLength": 1},
                "value": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`)

type storeFile struct {
	Version   int            `json:"version"`
	Templates []templateFile `json:"templates"`
}

type templateFile struct {
	Name    string      `json:"name"`
	Entries []entryFile `json:"entries"`
}

type entryFile struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store persists templates in a single JSON file. A sibling ".lock" file
// serializes access between processes.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store backed by path. The file is created on first Put.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// List returns all templates sorted by name.
func (s *Store) List() ([]*Template, error) {
	var out []*Template
	err := s.withLock(false, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		out, err = decodeTemplates(file)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the named template or ErrNotFound.
func (s *Store) Get(name string) (*Template, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Put inserts t, replacing any template with the same name.
func (s *Store) Put(t *Template) error {
	if t == nil {
		return services.Wrap(services.ErrValidation, "templates", "put", "nil template", nil)
	}
	if _, err := New(t.Name, t.Entries); err != nil {
		return err
	}
	return s.withLock(true, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		encoded := encodeTemplate(t)
		replaced := false
		for i := range file.Templates {
			if file.Templates[i].Name == t.Name {
				file.Templates[i] = encoded
				replaced = true
				break
			}
		}
		if !replaced {
			file.Templates = append(file.Templates, encoded)
		}
		return s.save(file)
	})
}

// Delete removes the named template or returns ErrNotFound.
func (s *Store) Delete(name string) error {
	return s.withLock(true, func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		kept := file.Templates[:0]
		found := false
		for _, t := range file.Templates {
			if t.Name == name {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		file.Templates = kept
		return s.save(file)
	})
}

func (s *Store) withLock(exclusive bool, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create template directory: %w", err)
	}
	lock := flock.New(s.path + ".lock")
	var err error
	if exclusive {
		err = lock.Lock()
	} else {
		err = lock.RLock()
	}
	if err != nil {
		return fmt.Errorf("lock template store: %w", err)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

func (s *Store) load() (*storeFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &storeFile{Version: storeVersion}, nil
		}
		return nil, fmt.Errorf("read template store: %w", err)
	}
	if err := storeSchema.Validate(data); err != nil {
		return nil, fmt.Errorf("template store %s: %w", s.path, err)
	}
	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &services.ParseError{Source: s.path, Detail: "decode template store", Err: err}
	}
	return &file, nil
}

func (s *Store) save(file *storeFile) error {
	file.Version = storeVersion
	if file.Templates == nil {
		file.Templates = []templateFile{}
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode template store: %w", err)
	}
	return fileutil.WriteFileAtomic(s.path, append(data, '\n'), 0o644)
}

func encodeTemplate(t *Template) templateFile {
	out := templateFile{Name: t.Name, Entries: make([]entryFile, 0, len(t.Entries))}
	for _, entry := range t.Entries {
		out.Entries = append(out.Entries, entryFile{Key: entry.Key.String(), Value: entry.Value.Raw()})
	}
	return out
}

func decodeTemplates(file *storeFile) ([]*Template, error) {
	out := make([]*Template, 0, len(file.Templates))
	for _, tf := range file.Templates {
		entries := make([]Assignment, 0, len(tf.Entries))
		for _, ef := range tf.Entries {
			key, err := tags.ParseKey(ef.Key)
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", tf.Name, err)
			}
			entries = append(entries, Assignment{Key: key, Value: tags.ParseValue(ef.Value)})
		}
		t, err := New(tf.Name, entries)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
