package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"exifdeck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.TemplatesFile = filepath.Join(base, "config", "templates.json")
	cfgVal.Exiftool.Binary = filepath.Join(base, "bin", "exiftool")
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithConcurrency overrides the batch worker limit.
func WithConcurrency(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.Concurrency = n
	}
}

// WithTagDictionary writes a dictionary file with the given JSON body and
// enables the validation layer.
func WithTagDictionary(body string, strict bool) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "config", "tags.json")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			b.t.Fatalf("mkdir config dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			b.t.Fatalf("write tag dictionary: %v", err)
		}
		b.cfg.Validation.TagDictionary = path
		b.cfg.Validation.Strict = strict
	}
}

// WithStubbedExiftool writes a shell script standing in for exiftool, points
// the config at it and prepends its directory to PATH. An empty script exits
// successfully without output.
func WithStubbedExiftool(script string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		if script == "" {
			script = "exit 0\n"
		}
		target := filepath.Join(binDir, "exiftool")
		if err := os.WriteFile(target, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
			b.t.Fatalf("write stub exiftool: %v", err)
		}
		b.cfg.Exiftool.Binary = target
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
