package testsupport

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"exifdeck/internal/document"
	"exifdeck/internal/services"
	"exifdeck/internal/tags"
)

// FakeAdapter is an in-memory stand-in for the exiftool client. Files are
// tag lists keyed by path; Write applies the diff to the stored list.
type FakeAdapter struct {
	mu         sync.Mutex
	files      map[string][]tags.Entry
	extractErr map[string]error
	writeErr   map[string]error
	probeErr   error
	extracts   []string
	writes     []string
	inFlight   int
	maxFlight  int

	// Gate, when set, blocks every Extract until a value is received or the
	// channel is closed.
	Gate chan struct{}
	// Started, when set, receives each path as its Extract begins.
	Started chan string
	// ProbeGate, when set, blocks Probe until the channel is closed.
	ProbeGate chan struct{}
}

// NewFakeAdapter returns an adapter with no files.
func NewFakeAdapter() *FakeAdapter {
	return &FakeAdapter{
		files:      make(map[string][]tags.Entry),
		extractErr: make(map[string]error),
		writeErr:   make(map[string]error),
	}
}

// SetFile registers path with "Group:Tag", "value" pairs.
func (f *FakeAdapter) SetFile(t testing.TB, path string, pairs ...string) {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatalf("SetFile %s: odd number of key/value arguments", path)
	}
	entries := make([]tags.Entry, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		entry, err := tags.NewEntry(pairs[i], pairs[i+1])
		if err != nil {
			t.Fatalf("SetFile %s: %v", path, err)
		}
		entries = append(entries, entry)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = entries
}

// FailExtract makes Extract of path return err.
func (f *FakeAdapter) FailExtract(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extractErr[path] = err
}

// FailWrite makes Write of path return err.
func (f *FakeAdapter) FailWrite(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr[path] = err
}

// FailProbe makes Probe return err.
func (f *FakeAdapter) FailProbe(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeErr = err
}

// Probe implements the batch adapter contract.
func (f *FakeAdapter) Probe(ctx context.Context) error {
	if f.ProbeGate != nil {
		select {
		case <-f.ProbeGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probeErr
}

// Extract implements the batch adapter contract.
func (f *FakeAdapter) Extract(ctx context.Context, path string) ([]tags.Entry, error) {
	f.mu.Lock()
	f.extracts = append(f.extracts, path)
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.Started != nil {
		f.Started <- path
	}
	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.extractErr[path]; err != nil {
		return nil, err
	}
	entries, ok := f.files[path]
	if !ok {
		return nil, &services.ToolInvocationError{Binary: "fake", ExitCode: 1, Stderr: "Error: File not found - " + path}
	}
	return append([]tags.Entry(nil), entries...), nil
}

// Write implements the batch adapter contract.
func (f *FakeAdapter) Write(_ context.Context, path string, changes document.Diff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, path)
	if err := f.writeErr[path]; err != nil {
		return err
	}
	doc, err := document.Load(path, f.files[path])
	if err != nil {
		return fmt.Errorf("fake write %s: %w", path, err)
	}
	for _, change := range changes {
		switch change.Kind {
		case document.Removed:
			doc.RemoveTag(change.Key)
		default:
			doc.SetTag(change.Key, change.New)
		}
	}
	f.files[path] = doc.Entries()
	return nil
}

// Entries returns the stored tags of path.
func (f *FakeAdapter) Entries(path string) []tags.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tags.Entry(nil), f.files[path]...)
}

// Value returns the stored raw value of key in path.
func (f *FakeAdapter) Value(path, key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.files[path] {
		if entry.Key.String() == key {
			return entry.Value.Raw(), true
		}
	}
	return "", false
}

// ExtractCalls returns the paths passed to Extract in call order.
func (f *FakeAdapter) ExtractCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.extracts...)
}

// WriteCalls returns the paths passed to Write in call order.
func (f *FakeAdapter) WriteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

// MaxConcurrent returns the highest number of overlapping Extract calls seen.
func (f *FakeAdapter) MaxConcurrent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxFlight
}
