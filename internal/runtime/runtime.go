package runtime

import (
	"sync"

	"github.com/mypthreads/go-mypthreads/internal/constants"
	"github.com/mypthreads/go-mypthreads/internal/interfaces"
	"github.com/mypthreads/go-mypthreads/internal/sched"
)

// Runtime owns the thread table, the ready/blocked queues, and the
// logical clock. Every public operation takes apiMu for the duration of
// its bookkeeping and releases it before blocking on a Context.resume, so
// a thread's own suspend-time calls (Yield, Join, the Mutex methods) can
// safely re-enter the same lock from inside their own goroutine.
type Runtime struct {
	apiMu sync.Mutex

	threads map[ThreadID]*Thread
	ready   []ThreadID
	blocked map[ThreadID]struct{}

	nextID      ThreadID
	maxThreads  int
	nowMs       uint64
	tickStep    uint64
	rand        interfaces.RandSource
	logger      interfaces.Logger
	observer    interfaces.Observer
	stackHint   int
}

// Option configures a Runtime at construction time.
type Option func(*Runtime)

func WithLogger(l interfaces.Logger) Option { return func(rt *Runtime) { rt.logger = l } }
func WithObserver(o interfaces.Observer) Option {
	return func(rt *Runtime) { rt.observer = o }
}
func WithRandSource(r interfaces.RandSource) Option { return func(rt *Runtime) { rt.rand = r } }
func WithTickStepMs(ms uint64) Option               { return func(rt *Runtime) { rt.tickStep = ms } }
func WithMaxThreads(n int) Option                   { return func(rt *Runtime) { rt.maxThreads = n } }
func WithStackSizeHint(bytes int) Option            { return func(rt *Runtime) { rt.stackHint = bytes } }

// New constructs a Runtime with no live threads and the logical clock at 0.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		threads:    make(map[ThreadID]*Thread),
		blocked:    make(map[ThreadID]struct{}),
		nextID:     constants.FirstThreadID,
		maxThreads: constants.DefaultMaxThreads,
		tickStep:   uint64(constants.DefaultTickStep.Milliseconds()),
		stackHint:  constants.DefaultStackSizeHint,
		rand:       sched.DefaultRandSource(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Runtime) logf(level string, msg string, args ...any) {
	if rt.logger == nil {
		return
	}
	switch level {
	case "debug":
		rt.logger.Debug(msg, args...)
	case "info":
		rt.logger.Info(msg, args...)
	case "warn":
		rt.logger.Warn(msg, args...)
	case "error":
		rt.logger.Error(msg, args...)
	}
}

// Create spawns a new thread in the New state, immediately made Ready.
// Returns ok=false when the configured thread-count ceiling is hit; the
// root package's Create turns that into a CodeResourceExhausted error.
func (rt *Runtime) Create(name string, params SchedParams, entry Entry) (ThreadID, bool) {
	rt.apiMu.Lock()
	if len(rt.threads) >= rt.maxThreads {
		rt.apiMu.Unlock()
		return NoThread, false
	}

	id := rt.nextID
	rt.nextID++

	t := &Thread{
		id:     id,
		name:   name,
		state:  StateReady,
		params: params,
		rt:     rt,
	}
	rt.threads[id] = t
	rt.ready = append(rt.ready, id)
	newContext(t, entry, rt.stackHint)
	rt.apiMu.Unlock()

	rt.logf("info", "thread created", "tid", id, "name", name, "policy", params.Policy.String(), "stack_hint_bytes", rt.stackHint)
	return id, true
}

func (rt *Runtime) removeFromReady(id ThreadID) {
	for i, rid := range rt.ready {
		if rid == id {
			rt.ready = append(rt.ready[:i], rt.ready[i+1:]...)
			return
		}
	}
}

func (rt *Runtime) enqueueReady(t *Thread) {
	t.state = StateReady
	rt.ready = append(rt.ready, t.id)
}

// yield is called from inside the dispatched thread's own goroutine.
func (rt *Runtime) yield(t *Thread) {
	t.ctx.suspend(Response{Kind: KindYield})
}

func (rt *Runtime) block(t *Thread) {
	rt.apiMu.Lock()
	t.state = StateBlocked
	rt.blocked[t.id] = struct{}{}
	rt.apiMu.Unlock()
	t.ctx.suspend(Response{Kind: KindBlock})
}

// join waits for target. If target is absent, detached, or already
// terminated with nothing left to report, it returns immediately. A
// waiting joiner is parked on tgt.joiners only, never in rt.blocked —
// UnblockAll must not be able to wake it (SPEC_FULL.md §5.3), the same
// discipline mutexLock follows for m.waiters.
func (rt *Runtime) join(t *Thread, target ThreadID) (any, bool) {
	rt.apiMu.Lock()
	tgt, exists := rt.threads[target]
	if !exists || tgt.detached {
		rt.apiMu.Unlock()
		return nil, false
	}
	if tgt.state == StateTerminated {
		v, ok := tgt.returnValue, tgt.hasReturnValue
		rt.apiMu.Unlock()
		return v, ok
	}

	already := false
	for _, j := range tgt.joiners {
		if j == t.id {
			already = true
			break
		}
	}
	if !already {
		tgt.joiners = append(tgt.joiners, t.id)
	}
	t.state = StateBlocked
	rt.apiMu.Unlock()

	t.ctx.suspend(Response{Kind: KindJoin, JoinTarget: target})

	return t.pendingJoinValue, t.pendingJoinOK
}

// Detach marks target so no future Join will wait on it. If target has
// already terminated, its record is reclaimed immediately instead of
// waiting for a Join that will now never come.
func (rt *Runtime) Detach(target ThreadID) bool {
	rt.apiMu.Lock()
	defer rt.apiMu.Unlock()
	tgt, exists := rt.threads[target]
	if !exists {
		return false
	}
	tgt.detached = true
	if tgt.state == StateTerminated {
		delete(rt.threads, target)
	}
	return true
}

func (rt *Runtime) Chsched(target ThreadID, params SchedParams) bool {
	rt.apiMu.Lock()
	defer rt.apiMu.Unlock()
	tgt, exists := rt.threads[target]
	if !exists || tgt.state == StateBlocked {
		return false
	}
	tgt.params = params
	return true
}

// end is called from inside the dispatched thread's own goroutine: by
// End/EndWithValue right before they panic with endSignal, or by the
// Context's goroutine wrapper when Entry returns on its own. The wrapper
// then sends the Exit response. If t was already
// detached, its record is reclaimed immediately since no Join will ever
// collect it.
func (rt *Runtime) end(t *Thread, value any, hasValue bool) {
	rt.apiMu.Lock()
	t.state = StateTerminated
	t.returnValue = value
	t.hasReturnValue = hasValue

	joiners := t.joiners
	t.joiners = nil
	for _, jid := range joiners {
		j, ok := rt.threads[jid]
		if !ok {
			continue
		}
		j.pendingJoinValue = value
		j.pendingJoinOK = hasValue
		rt.enqueueReady(j)
	}
	if t.detached {
		delete(rt.threads, t.id)
	}
	rt.apiMu.Unlock()

	rt.logf("info", "thread exited", "tid", t.id, "joiners_woken", len(joiners))
}

// UnblockAll moves every thread in the generic blocked set back to
// Ready. Threads parked in a Mutex's waiter list or a target's joiners
// list are untouched — they wake only through their own primitive.
func (rt *Runtime) UnblockAll() {
	rt.apiMu.Lock()
	defer rt.apiMu.Unlock()
	for id := range rt.blocked {
		t, ok := rt.threads[id]
		if !ok {
			continue
		}
		rt.enqueueReady(t)
	}
	rt.blocked = make(map[ThreadID]struct{})
}

func (rt *Runtime) observeState(id ThreadID, from, to string) {
	if rt.observer != nil {
		rt.observer.ObserveStateChange(id, from, to)
	}
}

func (rt *Runtime) onDeadlineMiss(id ThreadID, deadlineMs, nowMs uint64) {
	if rt.observer != nil {
		rt.observer.ObserveDeadlineMiss(id, deadlineMs, nowMs)
	}
	rt.logf("warn", "deadline miss", "tid", id, "deadline_ms", deadlineMs, "now_ms", nowMs)
}

// readyCandidates builds the scheduler's view of the ready queue without
// mutating it — Select scans it non-destructively.
func (rt *Runtime) readyCandidates() []sched.Candidate {
	cands := make([]sched.Candidate, 0, len(rt.ready))
	for _, id := range rt.ready {
		t := rt.threads[id]
		cands = append(cands, sched.Candidate{
			ID:          id,
			Policy:      t.params.Policy,
			Tickets:     t.params.Tickets,
			DeadlineMs:  t.params.DeadlineMs,
			HasDeadline: t.params.HasDeadline,
		})
	}
	return cands
}

// NowMs returns the runtime's current logical clock value.
func (rt *Runtime) NowMs() uint64 {
	rt.apiMu.Lock()
	defer rt.apiMu.Unlock()
	return rt.nowMs
}

// ThreadCount returns the number of live (non-reclaimed) thread records.
func (rt *Runtime) ThreadCount() int {
	rt.apiMu.Lock()
	defer rt.apiMu.Unlock()
	return len(rt.threads)
}

// StateOf reports a thread's current state, for tests and diagnostics.
func (rt *Runtime) StateOf(id ThreadID) (State, bool) {
	rt.apiMu.Lock()
	defer rt.apiMu.Unlock()
	t, ok := rt.threads[id]
	if !ok {
		return StateTerminated, false
	}
	return t.state, true
}
