package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat signals a malformed binary index body or markup document.
	ErrFormat = errors.New("malformed resource")
	// ErrTransport signals a failed remote fetch.
	ErrTransport = errors.New("remote fetch failed")
	// ErrScriptEvaluation signals a failure while running the descrambling script.
	ErrScriptEvaluation = errors.New("script evaluation failed")
	// ErrUnsupportedOperation signals a legacy single-response entry point.
	ErrUnsupportedOperation = errors.New("operation not supported")
	// ErrInvalidArgument signals a bad caller-supplied value (page, id, hash).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoMapping signals that an imported URL has no canonical gallery URL.
	ErrNoMapping = errors.New("no mapping for url")
)

// FormatError wraps ErrFormat with the offending resource.
type FormatError struct {
	Resource string
	Reason   string
}

func (e *FormatError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s: %s", ErrFormat.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrFormat.Error(), e.Resource, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// NewFormatError creates a format error for resource.
func NewFormatError(resource, format string, args ...any) error {
	return &FormatError{Resource: resource, Reason: fmt.Sprintf(format, args...)}
}

// TransportError wraps ErrTransport with the request URL and HTTP status (0 for network errors).
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s: status %d: %v", ErrTransport.Error(), e.URL, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s: status %d", ErrTransport.Error(), e.URL, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrTransport.Error(), e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrTransport.Error(), e.URL)
}

// Unwrap exposes both the sentinel and the underlying cause (e.g. context.Canceled).
func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// ScriptEvaluationError wraps ErrScriptEvaluation with the engine error.
type ScriptEvaluationError struct {
	Stage string // "load" or "eval"
	Err   error
}

func (e *ScriptEvaluationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrScriptEvaluation.Error(), e.Stage, e.Err)
}

func (e *ScriptEvaluationError) Unwrap() []error { return []error{ErrScriptEvaluation, e.Err} }
