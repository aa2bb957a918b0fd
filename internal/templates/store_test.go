package templates_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"exifdeck/internal/services"
	"exifdeck/internal/templates"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "templates.json")
	store := templates.NewStore(path)

	list, err := store.List()
	if err != nil {
		t.Fatalf("list empty store: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty store, got %d", len(list))
	}

	if err := store.Put(mustTemplate(t, "zeta", "EXIF:Artist", "Z")); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(mustTemplate(t, "alpha", "XMP:Rating", "5", "EXIF:Artist", "A")); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(mustTemplate(t, "zeta", "EXIF:Artist", "Z2")); err != nil {
		t.Fatal(err)
	}

	list, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "zeta" {
		t.Fatalf("unexpected list: %+v", list)
	}

	alpha, err := store.Get("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if len(alpha.Entries) != 2 || alpha.Entries[0].Key.String() != "XMP:Rating" {
		t.Fatalf("entry order not preserved: %+v", alpha.Entries)
	}
	zeta, err := store.Get("zeta")
	if err != nil {
		t.Fatal(err)
	}
	if zeta.Entries[0].Value.Raw() != "Z2" {
		t.Fatalf("put should replace, got %q", zeta.Entries[0].Value.Raw())
	}

	if err := store.Delete("zeta"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get("zeta"); !errors.Is(err, templates.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Delete("zeta"); !errors.Is(err, templates.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStoreRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	if err := os.WriteFile(path, []byte(`{"version":1,"templates":[{"name":"x"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := templates.NewStore(path).List()
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
