// Package mypthreads is a cooperative user-space threading runtime: many
// logical threads multiplexed onto a single OS thread via explicit
// context transfer, scheduled by one of three interchangeable policies
// (round-robin, lottery, real-time earliest-deadline-first).
package mypthreads

import (
	"github.com/mypthreads/go-mypthreads/internal/runtime"
)

// ThreadId identifies a logical thread. NoThread (0) never names a real
// thread.
type ThreadId = runtime.ThreadID

// NoThread is the reserved id meaning "no current thread".
const NoThread = runtime.NoThread

// State is a thread's lifecycle state.
type State = runtime.State

const (
	StateNew        = runtime.StateNew
	StateReady      = runtime.StateReady
	StateRunning    = runtime.StateRunning
	StateBlocked    = runtime.StateBlocked
	StateTerminated = runtime.StateTerminated
)

// SchedParams selects a thread's scheduling policy and parameters.
type SchedParams = runtime.SchedParams

// RoundRobin selects the FIFO fallback policy.
func RoundRobin() SchedParams { return runtime.RoundRobinParams() }

// Lottery selects the ticket-weighted policy with the given weight.
func Lottery(tickets uint32) SchedParams { return runtime.LotteryParams(tickets) }

// RealTime selects earliest-deadline-first with a soft deadline expressed
// in runtime-clock milliseconds.
func RealTime(deadlineMs uint64) SchedParams { return runtime.RealTimeParams(deadlineMs) }

// Entry is the body of a logical thread, run in its own goroutine. It
// receives the Thread handle it was spawned with and calls Yield, Block,
// Join, the Mutex methods, and End/EndWithValue on it to cross back into
// the scheduler. Returning from Entry is equivalent to calling End().
type Entry = runtime.Entry

// Thread is a single logical thread's handle, passed to its Entry.
type Thread = runtime.Thread

// Mutex is a blocking mutex with FIFO waiters and direct hand-off on
// unlock.
type Mutex = runtime.Mutex

// MutexInit creates a new, unlocked mutex.
func MutexInit() *Mutex { return runtime.MutexInit() }

// MutexDestroy invalidates m.
func MutexDestroy(m *Mutex) bool { return runtime.MutexDestroy(m) }
