package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrToolNotFound      = errors.New("external tool not found")
	ErrExternalTool      = errors.New("external tool error")
	ErrTimeout           = errors.New("timeout")
	ErrParse             = errors.New("parse error")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrCancelled         = errors.New("cancelled")
	ErrUnknownTag        = errors.New("unknown tag")
	ErrValidation        = errors.New("validation error")
	ErrConfiguration     = errors.New("configuration error")
)

// Failure kinds reported by Classify.
const (
	KindToolNotFound = "tool_not_found"
	KindTimeout      = "timeout"
	KindToolError    = "tool_error"
	KindParse        = "parse_error"
	KindCancelled    = "cancelled"
	KindValidation   = "validation"
	KindError        = "error"
)

// ReasonTimeout is the ToolInvocationError reason recorded when the deadline
// expired and the process was terminated.
const ReasonTimeout = "timeout"

// ToolInvocationError reports that the external tool ran but did not succeed.
type ToolInvocationError struct {
	Binary   string
	ExitCode int
	Stderr   string
	Reason   string
	Err      error
}

func (e *ToolInvocationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrExternalTool.Error())
	if e.Binary != "" {
		b.WriteString(": ")
		b.WriteString(e.Binary)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, ": exit status %d", e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(": ")
		b.WriteString(stderr)
	}
	return b.String()
}

// Is lets errors.Is match the external tool marker, and the timeout marker
// when the invocation was killed by its deadline.
func (e *ToolInvocationError) Is(target error) bool {
	switch target {
	case ErrExternalTool:
		return true
	case ErrTimeout:
		return e.Reason == ReasonTimeout
	}
	return false
}

func (e *ToolInvocationError) Unwrap() error { return e.Err }

// ParseError reports malformed structured data (tool output, import files,
// tag collections with duplicate keys).
type ParseError struct {
	Source string
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	msg := ErrParse.Error()
	if e.Source != "" {
		msg += ": " + e.Source
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to the short failure kind persisted in job history.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrToolNotFound):
		return KindToolNotFound
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrCancelled):
		return KindCancelled
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnknownTag), errors.Is(err, ErrConfiguration):
		return KindValidation
	case errors.Is(err, ErrExternalTool):
		return KindToolError
	default:
		return KindError
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
