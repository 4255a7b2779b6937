package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingleRunningInvariant(t *testing.T) {
	rt := New()
	loop := NewRunLoop(rt)

	var maxConcurrent int32
	var current int32
	done := make(chan struct{}, 3)

	observe := func(t *Thread) {
		current++
		if current > maxConcurrent {
			maxConcurrent = current
		}
		current--
		t.Yield()
		done <- struct{}{}
	}

	for i := 0; i < 3; i++ {
		_, ok := rt.Create("t", RoundRobinParams(), observe)
		require.True(t, ok)
	}

	loop.Run(100)
	require.LessOrEqual(t, maxConcurrent, int32(1), "at most one thread should ever be Running at once")
}

func TestRoundRobinFairness(t *testing.T) {
	rt := New()
	loop := NewRunLoop(rt)

	order := make([]ThreadID, 0, 6)
	entry := func(t *Thread) {
		order = append(order, t.id)
		t.Yield()
		order = append(order, t.id)
	}

	a, _ := rt.Create("a", RoundRobinParams(), entry)
	b, _ := rt.Create("b", RoundRobinParams(), entry)
	c, _ := rt.Create("c", RoundRobinParams(), entry)

	loop.Run(10)

	require.Equal(t, []ThreadID{a, b, c, a, b, c}, order, "round-robin should dispatch in FIFO arrival order each pass")
}

func TestExitWakesJoiner(t *testing.T) {
	rt := New()
	loop := NewRunLoop(rt)

	var joinedValue any
	var joinedOK bool

	worker, _ := rt.Create("worker", RoundRobinParams(), func(t *Thread) {
		t.Yield()
		t.EndWithValue(42)
	})

	rt.Create("joiner", RoundRobinParams(), func(t *Thread) {
		joinedValue, joinedOK = t.Join(worker)
	})

	loop.Run(20)

	require.True(t, joinedOK)
	require.Equal(t, 42, joinedValue)
}

func TestJoinOnAlreadyTerminatedReturnsImmediately(t *testing.T) {
	rt := New()
	loop := NewRunLoop(rt)

	worker, _ := rt.Create("worker", RoundRobinParams(), func(t *Thread) {
		t.EndWithValue("done")
	})
	loop.Run(5)

	state, ok := rt.StateOf(worker)
	require.True(t, ok)
	require.Equal(t, StateTerminated, state)

	var value any
	var got bool
	rt.Create("late-joiner", RoundRobinParams(), func(t *Thread) {
		value, got = t.Join(worker)
	})
	loop.Run(5)

	require.True(t, got)
	require.Equal(t, "done", value)
}

func TestUnblockAllDoesNotWakeMutexWaiters(t *testing.T) {
	rt := New()
	loop := NewRunLoop(rt)
	m := MutexInit()

	var lockerRan, blockedReturned bool
	rt.Create("holder", RoundRobinParams(), func(t *Thread) {
		t.MutexLock(m)
		t.Yield()
		t.Yield()
		t.MutexUnlock(m)
	})
	rt.Create("waiter", RoundRobinParams(), func(t *Thread) {
		t.MutexLock(m)
		lockerRan = true
		t.MutexUnlock(m)
	})
	blocked, _ := rt.Create("blocked", RoundRobinParams(), func(t *Thread) {
		t.Block()
		blockedReturned = true
	})

	loop.RunOnce() // holder locks
	loop.RunOnce() // waiter attempts, blocks on mutex
	loop.RunOnce() // blocked thread blocks generically

	state, ok := rt.StateOf(blocked)
	require.True(t, ok)
	require.Equal(t, StateBlocked, state, "Block() should set the thread's state to StateBlocked")

	rt.UnblockAll()
	require.False(t, lockerRan, "UnblockAll must not wake a mutex waiter")

	loop.Run(20)
	require.True(t, lockerRan)
	require.True(t, blockedReturned)
}

func TestUnblockAllDoesNotWakeJoiners(t *testing.T) {
	rt := New()
	loop := NewRunLoop(rt)

	var joinerResumed bool
	worker, _ := rt.Create("worker", RoundRobinParams(), func(t *Thread) {
		for {
			t.Yield()
		}
	})
	joiner, _ := rt.Create("joiner", RoundRobinParams(), func(t *Thread) {
		t.Join(worker)
		joinerResumed = true
	})

	loop.RunOnce() // worker runs once, yields
	loop.RunOnce() // joiner runs, blocks on Join(worker)

	state, ok := rt.StateOf(joiner)
	require.True(t, ok)
	require.Equal(t, StateBlocked, state, "a thread parked in Join should report StateBlocked")

	rt.UnblockAll()
	require.False(t, joinerResumed, "UnblockAll must not wake a thread parked on Join")

	loop.Run(5)
	require.False(t, joinerResumed, "the joiner must still wait since worker never terminates")
}

func TestChSchedRejectedOnJoinBlockedThread(t *testing.T) {
	rt := New()
	loop := NewRunLoop(rt)

	worker, _ := rt.Create("worker", RoundRobinParams(), func(t *Thread) {
		t.Yield()
	})
	joiner, _ := rt.Create("joiner", RoundRobinParams(), func(t *Thread) {
		t.Join(worker)
	})

	loop.RunOnce() // worker runs, yields
	loop.RunOnce() // joiner runs, blocks on Join

	state, ok := rt.StateOf(joiner)
	require.True(t, ok)
	require.Equal(t, StateBlocked, state)

	require.False(t, rt.Chsched(joiner, RealTimeParams(5)), "chsched must reject edits to a thread blocked on Join")
}

func TestEDFPicksEarliestDeadlineFirst(t *testing.T) {
	rt := New()
	loop := NewRunLoop(rt)

	var order []string
	rt.Create("late", RealTimeParams(1000), func(t *Thread) { order = append(order, "late") })
	rt.Create("early", RealTimeParams(10), func(t *Thread) { order = append(order, "early") })

	loop.RunOnce()
	require.Equal(t, []string{"early"}, order)
}

func TestResumeAfterExitAborts(t *testing.T) {
	old := FatalFunc
	defer func() { FatalFunc = old }()

	var abortedOp string
	FatalFunc = func(op, msg string) {
		abortedOp = op
		panic(endSignal{}) // unwind without crashing the test
	}

	rt := New()
	id, _ := rt.Create("t", RoundRobinParams(), func(t *Thread) {})
	th := rt.threads[id]

	th.ctx.resume() // runs to completion, context.done = true

	require.Panics(t, func() {
		th.ctx.resume()
	})
	require.Equal(t, "Context.resume", abortedOp)
}
