// Package fault defines the conditions that are never returned as ordinary
// errors. A contract violation (for example releasing a buffer that is not
// held, or freeing a misaligned frame) means internal state can no longer be
// trusted, so it unwinds the faulting goroutine with a [*Fatal] panic.
//
// Recovered values can be inspected with [errors.Is] and [errors.As]:
//
//	defer func() {
//		if f, ok := recover().(*fault.Fatal); ok && errors.Is(f, fault.ErrInvariant) {
//			...
//		}
//	}()
package fault

import (
	"fmt"

	"github.com/djdv/go-kcore/klog"
)

type constError string

// ErrInvariant is wrapped by every contract violation.
const ErrInvariant = constError("invariant violated")

func (errStr constError) Error() string { return string(errStr) }

// Fatal is the panic value raised for unrecoverable conditions.
type Fatal struct {
	// Op names the operation that faulted (e.g. "brelse", "kfree").
	Op  string
	Err error
}

func (f *Fatal) Error() string { return f.Op + ": " + f.Err.Error() }

func (f *Fatal) Unwrap() error { return f.Err }

// Raise logs err and panics with a [*Fatal] for op.
func Raise(op string, err error) {
	klog.Error("%s: %v", op, err)
	panic(&Fatal{Op: op, Err: err})
}

// Violation raises an [ErrInvariant] fault for op.
func Violation(op, format string, args ...any) {
	Raise(op, fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...))
}
