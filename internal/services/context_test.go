package services_test

import (
	"context"
	"testing"

	"exifdeck/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithJobID(ctx, "job-1")
	ctx = services.WithFilePath(ctx, "/photos/a.jpg")
	ctx = services.WithOperation(ctx, "shift")

	if id, ok := services.JobIDFromContext(ctx); !ok || id != "job-1" {
		t.Fatalf("unexpected job id: %v %v", id, ok)
	}
	if path, ok := services.FilePathFromContext(ctx); !ok || path != "/photos/a.jpg" {
		t.Fatalf("unexpected file path: %v %v", path, ok)
	}
	if op, ok := services.OperationFromContext(ctx); !ok || op != "shift" {
		t.Fatalf("unexpected operation: %v %v", op, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithJobID(ctx, "")
	ctx = services.WithFilePath(ctx, "")
	if _, ok := services.JobIDFromContext(ctx); ok {
		t.Fatal("expected no job id value")
	}
	if _, ok := services.FilePathFromContext(ctx); ok {
		t.Fatal("expected no file value")
	}
}
