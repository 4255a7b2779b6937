package runtime

import (
	goruntime "runtime"
	"time"

	"golang.org/x/sys/unix"

	"github.com/mypthreads/go-mypthreads/internal/sched"
)

// RunLoop drives dispatch for a single Runtime. A runtime instance serves
// a single OS thread: Run pins itself with runtime.LockOSThread() for its
// entire lifetime, the same one-queue-one-OS-thread discipline a kernel-
// facing I/O submission loop needs to keep its ring bound to one thread.
type RunLoop struct {
	rt *Runtime
}

// NewRunLoop wraps rt in a RunLoop ready to drive dispatch.
func NewRunLoop(rt *Runtime) *RunLoop {
	return &RunLoop{rt: rt}
}

// pinOSThread locks the calling goroutine to its current OS thread for
// the remaining lifetime of the run loop, and logs the OS tid it ended
// up pinned to.
func (rl *RunLoop) pinOSThread() {
	goruntime.LockOSThread()
	rl.rt.logf("debug", "run loop pinned to OS thread", "tid", unix.Gettid())
}

// RunOnce performs a single dispatch: select the next ready thread (per
// its scheduling policy), resume it, and process whatever Response it
// reports back. Returns false if there was nothing ready to dispatch.
func (rl *RunLoop) RunOnce() bool {
	rt := rl.rt

	rt.apiMu.Lock()
	cands := rt.readyCandidates()
	if len(cands) == 0 {
		rt.apiMu.Unlock()
		return false
	}

	rt.nowMs += rt.tickStep
	id := sched.Select(cands, rt.nowMs, rt.rand, rt.onDeadlineMiss)
	th := rt.threads[id]
	th.state = StateRunning
	rt.removeFromReady(id)
	ctx := th.ctx
	rt.apiMu.Unlock()

	start := time.Now()
	resp := ctx.resume()
	dispatchNs := uint64(time.Since(start).Nanoseconds())

	rt.apiMu.Lock()
	rl.handleResponse(th, resp)
	rt.apiMu.Unlock()

	if rt.observer != nil {
		rt.observer.ObserveDispatch(id, dispatchNs)
	}
	rt.logf("debug", "dispatch complete", "tid", id, "response", resp.Kind.String())

	return true
}

// handleResponse applies the bookkeeping a Response implies beyond what
// the thread already did for itself before suspending (Block, Join, and
// MutexLock all set state to Blocked under apiMu before reporting;
// handleResponse only needs to put a still-runnable thread back on the
// ready queue).
func (rl *RunLoop) handleResponse(th *Thread, resp Response) {
	rt := rl.rt
	switch resp.Kind {
	case KindYield, KindMutexUnlock:
		rt.enqueueReady(th)
		rt.observeState(th.id, "running", "ready")
	case KindBlock, KindJoin, KindMutexLock:
		// Already transitioned to Blocked by the thread itself (block,
		// join, and mutexLock all set t.state before suspending).
		rt.observeState(th.id, "running", "blocked")
	case KindExit:
		// Already marked Terminated by end(). A non-detached record stays
		// in the map so a future Join against this id still finds its
		// result; a detached one was already deleted by end().
		rt.observeState(th.id, "running", "terminated")
	}
}

// Run dispatches up to cycles times, stopping early if both the ready
// queue and the blocked set become empty (nothing left that could ever
// become ready again).
func (rl *RunLoop) Run(cycles int) int {
	rl.pinOSThread()
	ran := 0
	for i := 0; i < cycles; i++ {
		rt := rl.rt
		rt.apiMu.Lock()
		nothingLeft := len(rt.ready) == 0 && len(rt.blocked) == 0
		rt.apiMu.Unlock()
		if nothingLeft {
			break
		}
		if !rl.RunOnce() {
			break
		}
		ran++
	}
	return ran
}
