package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutexFIFOHandoff(t *testing.T) {
	rt := New()
	loop := NewRunLoop(rt)
	m := MutexInit()

	var order []string

	rt.Create("holder", RoundRobinParams(), func(t *Thread) {
		t.MutexLock(m)
		t.Yield()
		t.Yield()
		t.Yield()
		t.MutexUnlock(m)
	})
	rt.Create("first-waiter", RoundRobinParams(), func(t *Thread) {
		t.Yield() // let holder grab the lock first
		t.MutexLock(m)
		order = append(order, "first")
		t.MutexUnlock(m)
	})
	rt.Create("second-waiter", RoundRobinParams(), func(t *Thread) {
		t.Yield()
		t.Yield()
		t.MutexLock(m)
		order = append(order, "second")
		t.MutexUnlock(m)
	})

	loop.Run(50)

	require.Equal(t, []string{"first", "second"}, order, "waiters should acquire in FIFO enqueue order")
}

func TestMutexTryLockNeverBlocks(t *testing.T) {
	rt := New()
	loop := NewRunLoop(rt)
	m := MutexInit()

	var firstOK, secondOK bool

	rt.Create("a", RoundRobinParams(), func(t *Thread) {
		firstOK = t.MutexTryLock(m)
		t.Yield()
	})
	rt.Create("b", RoundRobinParams(), func(t *Thread) {
		secondOK = t.MutexTryLock(m)
	})

	loop.Run(10)

	require.True(t, firstOK)
	require.False(t, secondOK)
}

func TestMutexUnlockByNonOwnerAborts(t *testing.T) {
	old := FatalFunc
	defer func() { FatalFunc = old }()
	var gotOp string
	FatalFunc = func(op, msg string) {
		gotOp = op
		panic(endSignal{})
	}

	rt := New()
	loop := NewRunLoop(rt)
	m := MutexInit()

	rt.Create("owner", RoundRobinParams(), func(t *Thread) {
		t.MutexLock(m)
		t.Yield()
	})
	rt.Create("intruder", RoundRobinParams(), func(t *Thread) {
		t.Yield()
		t.MutexUnlock(m) // does not own m; must abort
	})

	loop.Run(10)
	require.Equal(t, "MutexUnlock", gotOp)
}

func TestMutexDestroyIsIdempotentFalseOnSecondCall(t *testing.T) {
	m := MutexInit()
	require.True(t, MutexDestroy(m))
	require.False(t, MutexDestroy(m))
}

func TestMutexDestroyOnStillLockedMutexAborts(t *testing.T) {
	old := FatalFunc
	defer func() { FatalFunc = old }()
	var gotOp string
	FatalFunc = func(op, msg string) {
		gotOp = op
		panic(endSignal{})
	}

	m := MutexInit()
	rt := New()
	tid, _ := rt.Create("holder", RoundRobinParams(), func(t *Thread) {})
	th := rt.threads[tid]
	m.owner = th.id

	require.Panics(t, func() { MutexDestroy(m) })
	require.Equal(t, "MutexDestroy", gotOp)
}
