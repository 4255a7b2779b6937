package runtime

// Mutex is a blocking mutex with FIFO waiters and direct ownership
// hand-off on unlock: the thread at the front of the wait queue becomes
// the new owner immediately, with no thundering-herd re-acquisition race.
type Mutex struct {
	owner       ThreadID
	waiters     []ThreadID
	initialized bool
}

// MutexInit creates a new, unlocked mutex.
func MutexInit() *Mutex {
	return &Mutex{owner: NoThread, initialized: true}
}

// MutexDestroy invalidates m. Returns false if m was never initialized or
// was already destroyed. Destroying a still-locked mutex is a UsageError
// (spec §7: "mutex_destroy on a still-locked mutex") and aborts the
// process via FatalFunc rather than returning an error value, same as an
// unlock-by-non-owner.
func MutexDestroy(m *Mutex) bool {
	if m == nil || !m.initialized {
		return false
	}
	if m.owner != NoThread {
		FatalFunc("MutexDestroy", "destroying a still-locked mutex")
		return false
	}
	m.initialized = false
	return true
}

// mutexLock is called from inside the dispatched thread's own goroutine.
// If m is free, it is claimed immediately with no suspend. Otherwise the
// thread enqueues itself (idempotently) as a waiter, transitions to
// Blocked, and suspends until unlock hands it ownership.
func (rt *Runtime) mutexLock(t *Thread, m *Mutex) {
	rt.apiMu.Lock()
	if !m.initialized {
		rt.apiMu.Unlock()
		FatalFunc("MutexLock", "operating on an uninitialized or destroyed mutex")
		return
	}
	if m.owner == NoThread {
		m.owner = t.id
		rt.apiMu.Unlock()
		return
	}

	already := false
	for _, w := range m.waiters {
		if w == t.id {
			already = true
			break
		}
	}
	if !already {
		m.waiters = append(m.waiters, t.id)
	}
	t.state = StateBlocked
	if rt.observer != nil {
		rt.observer.ObserveMutexContention(t.id)
	}
	rt.apiMu.Unlock()

	t.ctx.suspend(Response{Kind: KindMutexLock})
}

// mutexTryLock never suspends: it answers immediately from whatever state
// the mutex happens to be in when called.
func (rt *Runtime) mutexTryLock(t *Thread, m *Mutex) bool {
	rt.apiMu.Lock()
	defer rt.apiMu.Unlock()
	if !m.initialized {
		FatalFunc("MutexTryLock", "operating on an uninitialized or destroyed mutex")
		return false
	}
	if m.owner != NoThread {
		return false
	}
	m.owner = t.id
	return true
}

// mutexUnlock releases m, which t must currently own, and hands it
// directly to the next FIFO waiter if one exists. The unlocking thread
// still reports a response and suspends, giving the scheduler a chance to
// reconsider who runs next — the same as every other library call that
// crosses back into the run loop.
func (rt *Runtime) mutexUnlock(t *Thread, m *Mutex) {
	rt.apiMu.Lock()
	if !m.initialized {
		rt.apiMu.Unlock()
		FatalFunc("MutexUnlock", "operating on an uninitialized or destroyed mutex")
		return
	}
	if m.owner != t.id {
		rt.apiMu.Unlock()
		FatalFunc("MutexUnlock", "thread does not own this mutex")
		return
	}

	if len(m.waiters) == 0 {
		m.owner = NoThread
	} else {
		next := m.waiters[0]
		m.waiters = m.waiters[1:]
		m.owner = next
		if nt, ok := rt.threads[next]; ok {
			rt.enqueueReady(nt)
		}
	}
	rt.apiMu.Unlock()

	t.ctx.suspend(Response{Kind: KindMutexUnlock})
}
