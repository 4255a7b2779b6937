package mypthreads

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredError(t *testing.T) {
	err := NewError("Create", CodeResourceExhausted, "maximum thread count reached")

	assert.Equal(t, "Create", err.Op)
	assert.Equal(t, CodeResourceExhausted, err.Code)
	assert.Equal(t, "mypthreads: maximum thread count reached (op=Create)", err.Error())
}

func TestThreadError(t *testing.T) {
	err := NewThreadError("MutexUnlock", ThreadId(7), CodeUsageError, "thread does not own this mutex")

	assert.Equal(t, ThreadId(7), err.ThreadID)
	assert.Equal(t, "mypthreads: thread does not own this mutex (op=MutexUnlock tid=7)", err.Error())
}

func TestWrapError(t *testing.T) {
	inner := errors.New("boom")
	err := WrapError("Join", inner)

	require.NotNil(t, err)
	assert.Equal(t, "Join", err.Op)
	assert.Equal(t, CodeUsageError, err.Code)
	assert.True(t, errors.Is(err, inner), "Unwrap should expose the original error to errors.Is")
}

func TestWrapErrorPreservesCode(t *testing.T) {
	inner := NewError("Detach", CodeNotFound, "no such thread")
	wrapped := WrapError("Detach", inner)

	assert.Equal(t, CodeNotFound, wrapped.Code)
}

func TestWrapErrorNilIsNil(t *testing.T) {
	assert.Nil(t, WrapError("Detach", nil))
}

func TestIsCode(t *testing.T) {
	err := NewError("Join", CodeAlreadyDone, "target already terminated")

	assert.True(t, IsCode(err, CodeAlreadyDone))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(nil, CodeAlreadyDone))
}

func TestErrorIsMatchesByCode(t *testing.T) {
	a := NewError("Create", CodeResourceExhausted, "full")
	b := NewError("Create", CodeResourceExhausted, "still full")
	c := NewError("Create", CodeNotFound, "different code")

	assert.True(t, errors.Is(a, b), "two errors with the same Code should satisfy errors.Is")
	assert.False(t, errors.Is(a, c))
}

func TestFatalFuncAbortsOnUsageError(t *testing.T) {
	old := FatalFunc
	defer func() { FatalFunc = old }()

	var gotOp, gotMsg string
	FatalFunc = func(op, msg string) {
		gotOp, gotMsg = op, msg
		panic(NewError(op, CodeUsageError, msg))
	}

	assert.Panics(t, func() {
		FatalFunc("MutexUnlock", "thread does not own this mutex")
	})
	assert.Equal(t, "MutexUnlock", gotOp)
	assert.Equal(t, "thread does not own this mutex", gotMsg)
}
