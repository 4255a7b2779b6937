package mypthreads

import (
	"errors"
	"fmt"

	mprt "github.com/mypthreads/go-mypthreads/internal/runtime"
)

// Error represents a structured mypthreads error with context.
type Error struct {
	Op       string   // Operation that failed (e.g. "Create", "MutexLock")
	ThreadID ThreadId // Thread the error concerns (NoThread if not applicable)
	Code     Code     // High-level error category
	Msg      string   // Human-readable message
	Inner    error    // Wrapped error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ThreadID != NoThread {
		return fmt.Sprintf("mypthreads: %s (op=%s tid=%d)", e.Msg, e.Op, e.ThreadID)
	}
	return fmt.Sprintf("mypthreads: %s (op=%s)", e.Msg, e.Op)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is reports whether target shares this error's Code.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return e.Code == te.Code
	}
	return false
}

// Code represents a high-level error category: one fatal (UsageError) and
// the rest recoverable. A missed real-time deadline is logged rather than
// returned, so it has no Code.
type Code string

const (
	// CodeUsageError indicates a broken invariant (resuming a terminated
	// context, unlocking a mutex you don't own, operating on an
	// uninitialized runtime or mutex). Fatal: the runtime aborts.
	CodeUsageError Code = "usage error"

	// CodeNotFound indicates the target ThreadId does not exist.
	CodeNotFound Code = "not found"

	// CodeAlreadyDone indicates a join target already terminated and was
	// detached, or had nothing left to report.
	CodeAlreadyDone Code = "already done"

	// CodeResourceExhausted indicates thread creation failed because the
	// runtime's configured maximum thread count was reached.
	CodeResourceExhausted Code = "resource exhausted"
)

// NewError constructs a structured error.
func NewError(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewThreadError constructs a structured error naming the thread it
// concerns.
func NewThreadError(op string, tid ThreadId, code Code, msg string) *Error {
	return &Error{Op: op, ThreadID: tid, Code: code, Msg: msg}
}

// WrapError wraps an existing error with mypthreads context.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if me, ok := inner.(*Error); ok {
		return &Error{Op: op, ThreadID: me.ThreadID, Code: me.Code, Msg: me.Msg, Inner: me.Inner}
	}
	return &Error{Op: op, Code: CodeUsageError, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err carries the given Code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// FatalFunc is called when a usage invariant is broken. The default logs
// the violation through the package logger and panics with a structured
// *Error; override it (e.g. in tests) to capture the violation instead of
// crashing the process.
var FatalFunc = func(op, msg string) {
	err := NewError(op, CodeUsageError, msg)
	defaultLogger().Error(err.Error())
	panic(err)
}

func init() {
	mprt.FatalFunc = func(op, msg string) {
		FatalFunc(op, msg)
	}
}
