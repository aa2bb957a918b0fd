package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"exifdeck/internal/document"
	"exifdeck/internal/logging"
	"exifdeck/internal/services"
	"exifdeck/internal/tagjson"
	"exifdeck/internal/tags"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 120 * time.Second
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithTimeouts sets the extract and write timeouts. Zero disables a limit.
func WithTimeouts(read, write time.Duration) Option {
	return func(c *Client) {
		c.readTimeout = read
		c.writeTimeout = write
	}
}

// WithOverwriteOriginal controls the -overwrite_original flag on writes.
func WithOverwriteOriginal(enabled bool) Option {
	return func(c *Client) { c.overwriteOriginal = enabled }
}

// WithExtraArgs appends arguments to every invocation.
func WithExtraArgs(args []string) Option {
	return func(c *Client) { c.extraArgs = append([]string(nil), args...) }
}

// WithLogger sets the logger used for invocation tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps exiftool CLI interactions.
type Client struct {
	binary            string
	readTimeout       time.Duration
	writeTimeout      time.Duration
	overwriteOriginal bool
	extraArgs         []string
	exec              Executor
	logger            *slog.Logger
}

// New constructs an exiftool client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("exiftool binary required")
	}
	client := &Client{
		binary:            binary,
		readTimeout:       defaultReadTimeout,
		writeTimeout:      defaultWriteTimeout,
		overwriteOriginal: true,
		exec:              commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "exiftool")
	return client, nil
}

// Binary returns the executable the client runs.
func (c *Client) Binary() string { return c.binary }

// Extract dumps every tag of path in the order exiftool reports them.
func (c *Client) Extract(ctx context.Context, path string) ([]tags.Entry, error) {
	args := append([]string{"-j", "-G", "-s", "-sep", tagjson.ListSeparator}, c.extraArgs...)
	args = append(args, "--", path)

	result, err := c.invoke(ctx, "extract", c.readTimeout, args)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(result.Stdout)) == 0 {
		return nil, &services.ToolInvocationError{
			Binary: c.binary,
			Reason: "no output",
			Stderr: string(result.Stderr),
		}
	}

	records, err := tagjson.Decode(result.Stdout, "exiftool output for "+path)
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, &services.ParseError{
			Source: "exiftool output for " + path,
			Detail: fmt.Sprintf("expected 1 record, got %d", len(records)),
		}
	}
	return records[0].Entries, nil
}

// Write applies changes to path in a single invocation. An empty diff does
// not invoke the tool. Binary values cannot be written back and are rejected
// before anything runs.
func (c *Client) Write(ctx context.Context, path string, changes document.Diff) error {
	if changes.Empty() {
		return nil
	}
	assignments, err := WriteArgs(changes)
	if err != nil {
		return err
	}

	var args []string
	if c.overwriteOriginal {
		args = append(args, "-overwrite_original")
	}
	args = append(args, "-sep", tagjson.ListSeparator)
	args = append(args, c.extraArgs...)
	args = append(args, assignments...)
	args = append(args, "--", path)

	_, err = c.invoke(ctx, "write", c.writeTimeout, args)
	return err
}

// WriteArgs translates a diff into exiftool assignment arguments, in diff
// order: "-Group:Tag=value" for added or modified tags and "-Group:Tag=" for
// removed ones.
func WriteArgs(changes document.Diff) ([]string, error) {
	args := make([]string, 0, len(changes))
	for _, change := range changes {
		switch change.Kind {
		case document.Added, document.Modified:
			if change.New.Kind() == tags.KindBinary {
				return nil, services.Wrap(services.ErrValidation, "exiftool", "write",
					fmt.Sprintf("%s holds binary data and cannot be assigned from text", change.Key), nil)
			}
			args = append(args, "-"+change.Key.String()+"="+change.New.Raw())
		case document.Removed:
			args = append(args, "-"+change.Key.String()+"=")
		}
	}
	return args, nil
}

// Version runs "exiftool -ver".
func (c *Client) Version(ctx context.Context) (string, error) {
	result, err := c.invoke(ctx, "version", c.readTimeout, []string{"-ver"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(result.Stdout)), nil
}

// Probe verifies the tool can be started. It fails with ErrToolNotFound when
// the binary is missing.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Version(ctx)
	return err
}

func (c *Client) invoke(ctx context.Context, operation string, timeout time.Duration, args []string) (Result, error) {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := c.exec.Run(callCtx, c.binary, args)
	logging.WithContext(ctx, c.logger).Debug("exiftool invocation",
		logging.String("call", operation),
		logging.String("argv", strings.Join(args, " ")),
		logging.Int("exit_code", result.ExitCode),
		logging.Duration("duration", time.Since(start)),
	)

	switch {
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return result, &services.ToolInvocationError{
			Binary:   c.binary,
			ExitCode: result.ExitCode,
			Stderr:   string(result.Stderr),
			Reason:   services.ReasonTimeout,
			Err:      fmt.Errorf("%s exceeded %s", operation, timeout),
		}
	case callCtx.Err() != nil:
		return result, services.Wrap(services.ErrCancelled, "exiftool", operation, "invocation interrupted", callCtx.Err())
	case err != nil:
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return result, services.Wrap(services.ErrToolNotFound, "exiftool", operation,
				fmt.Sprintf("cannot run %s", c.binary), err)
		}
		return result, &services.ToolInvocationError{Binary: c.binary, ExitCode: result.ExitCode, Stderr: string(result.Stderr), Err: err}
	case result.ExitCode != 0:
		return result, &services.ToolInvocationError{Binary: c.binary, ExitCode: result.ExitCode, Stderr: string(result.Stderr)}
	}
	return result, nil
}
