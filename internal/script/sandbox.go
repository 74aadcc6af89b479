// Package script runs the site's image URL scripts in an isolated JavaScript runtime.
//
// A Sandbox exposes only the ECMAScript built-ins. There is no require,
// console, timer, filesystem or network binding, so loaded code can compute
// strings and numbers and nothing else.
package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

const maxCallStackSize = 1024

// ErrClosed is returned when a closed sandbox is used.
var ErrClosed = errors.New("sandbox closed")

// Sandbox is a single-use JavaScript runtime. It is not safe for concurrent
// use and must be closed by its creator.
type Sandbox struct {
	mu     sync.Mutex
	vm     *goja.Runtime
	cancel context.CancelFunc
	stop   func() bool
}

// New creates a sandbox whose execution is interrupted when ctx ends or
// timeout elapses (timeout <= 0 disables the extra budget).
func New(ctx context.Context, timeout time.Duration) *Sandbox {
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	vm := goja.New()
	vm.SetMaxCallStackSize(maxCallStackSize)

	s := &Sandbox{vm: vm, cancel: cancel}
	s.stop = context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	return s
}

// Load evaluates a script for its side effects (function and variable declarations).
func (s *Sandbox) Load(name, src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vm == nil {
		return &domain.ScriptEvaluationError{Stage: "load " + name, Err: ErrClosed}
	}
	if _, err := s.vm.RunScript(name, src); err != nil {
		return &domain.ScriptEvaluationError{Stage: "load " + name, Err: unwrapInterrupt(err)}
	}
	return nil
}

// EvalString evaluates expr and requires a string result.
func (s *Sandbox) EvalString(expr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vm == nil {
		return "", &domain.ScriptEvaluationError{Stage: "eval", Err: ErrClosed}
	}
	v, err := s.vm.RunString(expr)
	if err != nil {
		return "", &domain.ScriptEvaluationError{Stage: "eval", Err: unwrapInterrupt(err)}
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "", &domain.ScriptEvaluationError{Stage: "eval", Err: errors.New("expression returned no value")}
	}
	str, ok := v.Export().(string)
	if !ok {
		return "", &domain.ScriptEvaluationError{Stage: "eval", Err: fmt.Errorf("expression returned %s, want string", v.ExportType())}
	}
	return str, nil
}

// Close releases the runtime. It is safe to call more than once.
func (s *Sandbox) Close() {
	s.cancel()
	s.stop()
	s.mu.Lock()
	s.vm = nil
	s.mu.Unlock()
}

// unwrapInterrupt surfaces the context error behind an interrupt so callers
// can match context.DeadlineExceeded or context.Canceled.
func unwrapInterrupt(err error) error {
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		if cause, ok := ie.Value().(error); ok {
			return fmt.Errorf("interrupted: %w", cause)
		}
	}
	return err
}
