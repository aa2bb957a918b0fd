package logs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/buger/jsonparser"

	"exifdeck/internal/logging"
)

// Filter selects lines. A nil Filter accepts every line.
type Filter func(line []byte) bool

// JobFilter accepts JSON lines whose job_id starts with prefix. Lines that
// are not JSON or carry no job_id are rejected.
func JobFilter(prefix string) Filter {
	prefix = strings.TrimSpace(prefix)
	return func(line []byte) bool {
		id, err := jsonparser.GetString(line, logging.FieldJobID)
		return err == nil && strings.HasPrefix(id, prefix)
	}
}

// LevelFilter accepts JSON lines at or above the named level.
func LevelFilter(min string) Filter {
	threshold := levelRank(min)
	return func(line []byte) bool {
		level, err := jsonparser.GetString(line, "level")
		return err == nil && levelRank(level) >= threshold
	}
}

// All combines filters; a line must pass each of them.
func All(filters ...Filter) Filter {
	return func(line []byte) bool {
		for _, f := range filters {
			if f != nil && !f(line) {
				return false
			}
		}
		return true
	}
}

func levelRank(level string) int {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return 0
	case "WARN", "WARNING":
		return 2
	case "ERROR":
		return 3
	default:
		return 1
	}
}

// Last returns up to n of the final lines of path accepted by filter, oldest
// first, plus the offset just past the data read. A missing file yields no
// lines and offset 0.
func Last(path string, n int, filter Filter) ([]string, int64, error) {
	file, err := open(path)
	if file == nil {
		return nil, 0, err
	}
	defer file.Close()

	if n <= 0 {
		offset, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, offset, nil
	}

	ring := make([]string, n)
	count, next := 0, 0
	offset, err := scan(file, filter, func(line string) {
		ring[next] = line
		next = (next + 1) % n
		if count < n {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	lines := make([]string, 0, count)
	start := 0
	if count == n {
		start = next
	}
	for i := 0; i < count; i++ {
		lines = append(lines, ring[(start+i)%n])
	}
	return lines, offset, nil
}

// Follow polls path every interval starting at offset and calls emit for
// each accepted line until ctx is done. A file that shrinks below offset was
// rotated or truncated and is re-read from the start.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, filter Filter, emit func(string)) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		next, err := readFrom(path, offset, filter, emit)
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64, filter Filter, emit func(string)) (int64, error) {
	file, err := open(path)
	if file == nil {
		return 0, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	end, err := scan(file, filter, emit)
	if err != nil {
		return offset, err
	}
	return offset + end, nil
}

// open returns a nil file and nil error when path does not exist.
func open(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if info, err := file.Stat(); err == nil && info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	return file, nil
}

// scan feeds complete lines from r to emit and returns the number of bytes
// consumed. A trailing line without a newline is left for the next read.
func scan(r io.Reader, filter Filter, emit func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return consumed, nil
			}
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			continue
		}
		if filter == nil || filter(line) {
			emit(string(line))
		}
	}
}
