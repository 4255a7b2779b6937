package runtime

import "github.com/mypthreads/go-mypthreads/internal/sched"

// ThreadID identifies a logical thread. 0 (NoThread) never names a real
// thread; ids are handed out starting at 1 and never reused.
type ThreadID = uint32

// NoThread is the reserved id meaning "no current thread".
const NoThread ThreadID = 0

// State is a thread's position in the lifecycle state machine:
// New -> Ready -> Running -> {Ready, Blocked, Terminated}; Blocked -> Ready.
type State int

const (
	StateNew State = iota
	StateReady
	StateRunning
	StateBlocked
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateBlocked:
		return "blocked"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// SchedParams selects the policy a thread is scheduled under, and carries
// the parameters that policy needs (tickets for Lottery, a deadline for
// RealTime; both ignored under RoundRobin).
type SchedParams struct {
	Policy      sched.Policy
	Tickets     uint32
	DeadlineMs  uint64
	HasDeadline bool
}

// RoundRobinParams selects the FIFO fallback policy.
func RoundRobinParams() SchedParams {
	return SchedParams{Policy: sched.RoundRobin}
}

// LotteryParams selects the ticket-weighted policy with the given weight.
// A weight of 0 is treated as 1 (every lottery thread gets at least one
// ticket).
func LotteryParams(tickets uint32) SchedParams {
	return SchedParams{Policy: sched.Lottery, Tickets: tickets}
}

// RealTimeParams selects earliest-deadline-first with a soft deadline
// expressed in runtime-clock milliseconds.
func RealTimeParams(deadlineMs uint64) SchedParams {
	return SchedParams{Policy: sched.RealTime, DeadlineMs: deadlineMs, HasDeadline: true}
}

// ResponseKind tags what a thread reported back to the run loop on its
// most recent suspend.
type ResponseKind int

const (
	KindYield ResponseKind = iota
	KindBlock
	KindExit
	KindJoin
	KindMutexLock
	KindMutexUnlock
)

func (k ResponseKind) String() string {
	switch k {
	case KindYield:
		return "yield"
	case KindBlock:
		return "block"
	case KindExit:
		return "exit"
	case KindJoin:
		return "join"
	case KindMutexLock:
		return "mutex_lock"
	case KindMutexUnlock:
		return "mutex_unlock"
	default:
		return "unknown"
	}
}

// Response is what a dispatched thread reports back to the run loop each
// time it suspends, mirroring the Transfer Protocol's Response message.
type Response struct {
	Kind       ResponseKind
	JoinTarget ThreadID
}
