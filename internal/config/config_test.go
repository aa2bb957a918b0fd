package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"exifdeck/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvExiftool, "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "exifdeck", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".local", "share", "exifdeck"); cfg.Paths.StateDir != want {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, want)
	}
	if want := filepath.Join(tempHome, ".config", "exifdeck", "templates.json"); cfg.Paths.TemplatesFile != want {
		t.Fatalf("unexpected templates file: got %q want %q", cfg.Paths.TemplatesFile, want)
	}
	if cfg.Batch.Concurrency != 4 {
		t.Fatalf("unexpected concurrency default %d", cfg.Batch.Concurrency)
	}
	if !cfg.Exiftool.OverwriteOriginal {
		t.Fatal("expected overwrite_original default true")
	}
	if cfg.JobsDBPath() != filepath.Join(cfg.Paths.StateDir, "jobs.db") {
		t.Fatalf("unexpected jobs db path %q", cfg.JobsDBPath())
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvExiftool, "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
state_dir = "~/state"

[exiftool]
binary = "~/bin/exiftool"
read_timeout = 5
extra_args = [" -charset ", "filename=utf8", ""]

[batch]
concurrency = 8
extensions = ["JPG", ".nef", "jpg"]

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
	if cfg.Exiftool.Binary != filepath.Join(tempHome, "bin", "exiftool") {
		t.Fatalf("unexpected binary %q", cfg.Exiftool.Binary)
	}
	if got := strings.Join(cfg.Exiftool.ExtraArgs, "|"); got != "-charset|filename=utf8" {
		t.Fatalf("unexpected extra args %q", got)
	}
	if got := strings.Join(cfg.Batch.Extensions, ","); got != ".jpg,.nef" {
		t.Fatalf("unexpected extensions %q", got)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.ReadTimeout().Seconds() != 5 {
		t.Fatalf("unexpected read timeout %v", cfg.ReadTimeout())
	}
}

func TestEnvOverridesBinary(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvExiftool, "/opt/exiftool/exiftool")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Exiftool.Binary != "/opt/exiftool/exiftool" {
		t.Fatalf("env override ignored: %q", cfg.Exiftool.Binary)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[batch]\nconcurency = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "concurency") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestValidateErrorsNameFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"concurrency low", func(c *config.Config) { c.Batch.Concurrency = 0 }, "batch.concurrency must be between 1 and 64"},
		{"concurrency high", func(c *config.Config) { c.Batch.Concurrency = 65 }, "batch.concurrency"},
		{"negative timeout", func(c *config.Config) { c.Exiftool.WriteTimeout = -1 }, "exiftool.write_timeout"},
		{"reserved arg", func(c *config.Config) { c.Exiftool.ExtraArgs = []string{"-j"} }, "exiftool.extra_args"},
		{"strict without dictionary", func(c *config.Config) { c.Validation.Strict = true }, "validation.strict"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	var parsed config.Config
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &parsed); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	def := config.Default()
	if parsed.Paths != def.Paths {
		t.Fatalf("sample paths %+v differ from defaults %+v", parsed.Paths, def.Paths)
	}
	if parsed.Batch.Concurrency != def.Batch.Concurrency || parsed.Exiftool.ReadTimeout != def.Exiftool.ReadTimeout ||
		parsed.History != def.History || parsed.Logging != def.Logging {
		t.Fatalf("sample config drifted from defaults: %+v", parsed)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample should load cleanly: exists=%v err=%v", exists, err)
	}
}
