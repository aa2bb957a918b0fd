package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"exifdeck/internal/logs"
)

const sampleLog = `{"ts":"t1","level":"info","msg":"job started","job_id":"aaa111"}
{"ts":"t2","level":"warn","msg":"file failed","job_id":"aaa111","file":"/p/a.jpg"}
{"ts":"t3","level":"info","msg":"job started","job_id":"bbb222"}
not json
{"ts":"t4","level":"error","msg":"job history not recorded","job_id":"bbb222"}
`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exifdeck.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLastReturnsNewestLines(t *testing.T) {
	path := writeLog(t, sampleLog)

	lines, offset, err := logs.Last(path, 2, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 2 || lines[0] != "not json" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if offset != int64(len(sampleLog)) {
		t.Fatalf("offset = %d, want %d", offset, len(sampleLog))
	}
}

func TestLastAppliesFilters(t *testing.T) {
	path := writeLog(t, sampleLog)

	lines, _, err := logs.Last(path, 10, logs.JobFilter("aaa"))
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines for job aaa, got %#v", lines)
	}

	lines, _, err = logs.Last(path, 10, logs.All(logs.JobFilter("bbb"), logs.LevelFilter("warn")))
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one warning-or-worse line for job bbb, got %#v", lines)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "none.log"), 5, nil)
	if err != nil || len(lines) != 0 || offset != 0 {
		t.Fatalf("expected empty result, got %#v %d %v", lines, offset, err)
	}
}

func TestLastKeepsPartialLineForLater(t *testing.T) {
	path := writeLog(t, "one\ntwo")

	lines, offset, err := logs.Last(path, 5, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if len(lines) != 1 || lines[0] != "one" || offset != 4 {
		t.Fatalf("unexpected result %#v offset %d", lines, offset)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 10*time.Millisecond, nil, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("Follow returned %v, want context.Canceled", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "later" {
		t.Fatalf("unexpected followed lines %#v", got)
	}
}
