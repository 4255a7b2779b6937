package mypthreads

import (
	"sync"

	"github.com/mypthreads/go-mypthreads/internal/logging"
	mprt "github.com/mypthreads/go-mypthreads/internal/runtime"
)

// Option configures a Runtime at construction time.
type Option = mprt.Option

// WithLogger injects a logger; the default writes nothing.
func WithLogger(l *logging.Logger) Option { return mprt.WithLogger(l) }

// WithObserver injects a metrics observer; the default is a no-op.
func WithObserver(o Observer) Option { return mprt.WithObserver(o) }

// WithRandSource injects the randomness source the lottery scheduler
// draws on; production runtimes can leave this unset (it defaults to the
// process-global generator).
func WithRandSource(r RandSource) Option { return mprt.WithRandSource(r) }

// WithTickStepMs overrides the logical clock's per-dispatch step.
func WithTickStepMs(ms uint64) Option { return mprt.WithTickStepMs(ms) }

// WithMaxThreads overrides the live-thread ceiling; exceeding it turns
// Create into a CodeResourceExhausted error.
func WithMaxThreads(n int) Option { return mprt.WithMaxThreads(n) }

// WithStackSizeHint sets the advisory stack-size hint forwarded to each
// Context. Go gives no way to cap an individual goroutine's stack, so
// this is metadata only, surfaced through logging/diagnostics.
func WithStackSizeHint(bytes int) Option { return mprt.WithStackSizeHint(bytes) }

// RandSource abstracts the randomness the lottery scheduler draws on.
type RandSource = interface{ Intn(n int) int }

// Runtime is a mypthreads scheduler instance: a thread table, a ready
// queue, a blocked set, and the run loop driving dispatch between them.
// Most programs use the package-level global Runtime via Init/Shutdown
// and the free functions below; tests that want isolation should
// construct their own with NewRuntime instead.
type Runtime struct {
	core *mprt.Runtime
	loop *mprt.RunLoop
}

// NewRuntime constructs a non-global Runtime instance. Use this directly
// in tests that need isolation from other tests' state; production code
// normally goes through Init/Shutdown and the global free functions.
func NewRuntime(opts ...Option) *Runtime {
	core := mprt.New(opts...)
	return &Runtime{core: core, loop: mprt.NewRunLoop(core)}
}

// Create spawns a new thread, immediately Ready. Returns a
// CodeResourceExhausted error if the runtime's configured thread-count
// ceiling has been reached.
func (rt *Runtime) Create(name string, params SchedParams, entry Entry) (ThreadId, error) {
	id, ok := rt.core.Create(name, params, entry)
	if !ok {
		return NoThread, NewError("Create", CodeResourceExhausted, "maximum thread count reached")
	}
	return id, nil
}

// Detach marks target so no future Join will wait on it.
func (rt *Runtime) Detach(target ThreadId) bool { return rt.core.Detach(target) }

// ChSched changes target's scheduling policy. Has no effect on a target
// that is absent or currently Blocked.
func (rt *Runtime) ChSched(target ThreadId, params SchedParams) bool {
	return rt.core.Chsched(target, params)
}

// UnblockAll wakes every thread parked in the generic blocked set.
func (rt *Runtime) UnblockAll() { rt.core.UnblockAll() }

// RunCycles dispatches up to n times, stopping early once nothing is
// ready or could ever become ready again. Returns the number of dispatches
// actually performed.
func (rt *Runtime) RunCycles(n int) int { return rt.loop.Run(n) }

// NowMs returns the runtime's logical clock.
func (rt *Runtime) NowMs() uint64 { return rt.core.NowMs() }

// ThreadCount returns the number of live thread records.
func (rt *Runtime) ThreadCount() int { return rt.core.ThreadCount() }

// StateOf reports a thread's current state.
func (rt *Runtime) StateOf(id ThreadId) (State, bool) { return rt.core.StateOf(id) }

var (
	globalMu sync.Mutex
	global   *Runtime
)

// Init creates the process-wide global Runtime. Idempotent: a second call
// is a no-op as long as Shutdown was not called in between.
func Init(opts ...Option) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global != nil {
		return nil
	}
	global = NewRuntime(opts...)
	return nil
}

// Shutdown discards the global Runtime. A subsequent Init starts fresh.
func Shutdown() {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = nil
}

func mustGlobal(op string) *Runtime {
	globalMu.Lock()
	g := global
	globalMu.Unlock()
	if g == nil {
		FatalFunc(op, "runtime not initialized; call Init first")
	}
	return g
}

// CreateThread spawns a thread on the global Runtime.
func CreateThread(name string, params SchedParams, entry Entry) (ThreadId, error) {
	return mustGlobal("CreateThread").Create(name, params, entry)
}

// Detach marks target on the global Runtime so no future Join waits on it.
func Detach(target ThreadId) bool { return mustGlobal("Detach").Detach(target) }

// ChSched changes target's scheduling policy on the global Runtime.
func ChSched(target ThreadId, params SchedParams) bool {
	return mustGlobal("ChSched").ChSched(target, params)
}

// UnblockAll wakes every generically-blocked thread on the global Runtime.
func UnblockAll() { mustGlobal("UnblockAll").UnblockAll() }

// RunCycles dispatches the global Runtime up to n times.
func RunCycles(n int) int { return mustGlobal("RunCycles").RunCycles(n) }

func defaultLogger() *logging.Logger {
	return logging.Default()
}
