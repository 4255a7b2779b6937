package runtime

// Entry is the body of a logical thread. It runs in its own goroutine and
// receives the Thread handle it was spawned with, through which it calls
// Yield, Block, Join, the Mutex operations, and End/EndWithValue. Entry
// returning on its own is equivalent to calling End with no value.
type Entry func(t *Thread)

// Thread is a single logical thread's record: its lifecycle state, the
// scheduling policy it runs under, its join bookkeeping, and the Context
// (goroutine + channel pair) standing in for its stack.
type Thread struct {
	id     ThreadID
	name   string
	state  State
	params SchedParams

	detached bool
	joiners  []ThreadID

	returnValue    any
	hasReturnValue bool

	// pendingJoinValue/pendingJoinOK are set by end(), under the
	// runtime's apiMu, when the target this thread is blocked on Join
	// for exits — the thread picks these up immediately after its
	// suspend call returns.
	pendingJoinValue any
	pendingJoinOK    bool

	rt  *Runtime
	ctx *Context
}

// ID returns the thread's id.
func (t *Thread) ID() ThreadID { return t.id }

// Name returns the thread's diagnostic name.
func (t *Thread) Name() string { return t.name }

// Yield voluntarily gives up the rest of this dispatch; the thread
// becomes Ready again immediately.
func (t *Thread) Yield() {
	t.rt.yield(t)
}

// Block parks the thread in the run loop's generic blocked set. Only
// UnblockAll (or a future unblock primitive) wakes a thread blocked this
// way; Mutex and Join have their own wake paths.
func (t *Thread) Block() {
	t.rt.block(t)
}

// Join waits for target to terminate and returns the value it exited
// with, if any. Joining an absent or already-detached target, or a
// target that already terminated, returns immediately (ok reports
// whether a return value was available).
func (t *Thread) Join(target ThreadID) (value any, ok bool) {
	return t.rt.join(t, target)
}

// Detach marks target so no future Join will wait on it, and its
// ThreadRecord is reclaimed as soon as it terminates. Detach has no
// effect if target does not exist.
func (t *Thread) Detach(target ThreadID) bool {
	return t.rt.Detach(target)
}

// ChSched changes target's scheduling policy. Has no effect (returns
// false) if target is absent or currently Blocked.
func (t *Thread) ChSched(target ThreadID, params SchedParams) bool {
	return t.rt.Chsched(target, params)
}

// MutexLock acquires m, blocking until it is free.
func (t *Thread) MutexLock(m *Mutex) {
	t.rt.mutexLock(t, m)
}

// MutexTryLock attempts to acquire m without blocking.
func (t *Thread) MutexTryLock(m *Mutex) bool {
	return t.rt.mutexTryLock(t, m)
}

// MutexUnlock releases m, which this thread must currently own.
func (t *Thread) MutexUnlock(m *Mutex) {
	t.rt.mutexUnlock(t, m)
}

// End terminates the thread with no return value.
func (t *Thread) End() {
	t.rt.end(t, nil, false)
	panic(endSignal{})
}

// EndWithValue terminates the thread, making v available to any joiner.
func (t *Thread) EndWithValue(v any) {
	t.rt.end(t, v, true)
	panic(endSignal{})
}
