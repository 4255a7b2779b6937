package runtime

// Context is a thread's stack and execution state, realized as a
// dedicated goroutine plus a pair of unbuffered channels. Resume and the
// goroutine's own suspend points hand control back and forth in lockstep,
// so at most one side is ever runnable — the same guarantee a raw
// stack-swap primitive gives, without needing cgo or per-arch assembly to
// get it.
//
// A goroutine that recurses past Go's own stack limit crashes the
// process, the idiomatic Go reading of a guard page turning stack
// overflow into a fatal fault rather than silent corruption.
type Context struct {
	resumeCh chan struct{}
	returnCh chan Response
	done     bool

	// stackHintBytes is the advisory stack-size hint the Runtime was
	// configured with (WithStackSizeHint). Go gives no way to cap a
	// goroutine's stack directly, so it is carried here purely as
	// diagnostic metadata rather than applied to the goroutine.
	stackHintBytes int
}

// endSignal unwinds an entry function early via panic/recover when a
// thread calls End or EndWithValue before its entry returns on its own.
type endSignal struct{}

// newContext starts the thread's goroutine, parked immediately on its
// first resume. stackHintBytes is forwarded from the owning Runtime's
// WithStackSizeHint option and recorded on the Context for diagnostics.
func newContext(t *Thread, entry Entry, stackHintBytes int) *Context {
	c := &Context{
		resumeCh:       make(chan struct{}),
		returnCh:       make(chan Response),
		stackHintBytes: stackHintBytes,
	}
	t.ctx = c

	go func() {
		<-c.resumeCh // wait for the initial dispatch

		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(endSignal); ok {
						return
					}
					panic(r)
				}
			}()
			entry(t)
			// Falling off the end of Entry without calling End or
			// EndWithValue is equivalent to an implicit End().
			t.rt.end(t, nil, false)
		}()

		c.done = true
		c.returnCh <- Response{Kind: KindExit}
	}()

	return c
}

// resume hands control to the thread's goroutine and blocks until it
// suspends or exits. Resuming a context past Exit is a protocol
// violation and aborts the process, same as resuming a terminated stack
// in the reference implementation.
func (c *Context) resume() Response {
	if c.done {
		FatalFunc("Context.resume", "resume called on a terminated context")
	}
	c.resumeCh <- struct{}{}
	return <-c.returnCh
}

// suspend is called from inside the thread's own goroutine to report a
// Response and block until the run loop resumes it again.
func (c *Context) suspend(resp Response) {
	c.returnCh <- resp
	<-c.resumeCh
}
