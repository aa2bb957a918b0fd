package deps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"exifdeck/internal/services"
)

func writeStub(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	writeStub(t, present)
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestResolvePrefersPath(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, filepath.Join(binDir, "exiftool"))
	t.Setenv("PATH", binDir)

	got, err := ResolveExiftool("")
	if err != nil {
		t.Fatalf("ResolveExiftool: %v", err)
	}
	if got != filepath.Join(binDir, "exiftool") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestResolveFallsBackToCommonLocations(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	fallbackDir := t.TempDir()
	notExec := filepath.Join(fallbackDir, "plain")
	if err := os.WriteFile(notExec, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	exe := filepath.Join(fallbackDir, "exiftool")
	writeStub(t, exe)

	got, err := resolve("", "exiftool", []string{filepath.Join(fallbackDir, "missing"), notExec, exe})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != exe {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestResolveReportsToolNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := resolve("", "exiftool", nil); !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
	if _, err := ResolveExiftool(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound for configured path, got %v", err)
	}
}
