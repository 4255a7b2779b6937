// Package sched implements the pure thread-selection policies mypthreads
// supports: round-robin, lottery, and real-time earliest-deadline-first.
// Selection never mutates the ready queue; callers own queue removal.
package sched

import (
	"github.com/mypthreads/go-mypthreads/internal/interfaces"
)

// ThreadID mirrors the runtime package's ThreadId without importing it,
// keeping this package free of a dependency on internal/runtime.
type ThreadID = uint32

// Policy identifies which selection algorithm a thread was scheduled under.
type Policy int

const (
	RoundRobin Policy = iota
	Lottery
	RealTime
)

func (p Policy) String() string {
	switch p {
	case RoundRobin:
		return "round-robin"
	case Lottery:
		return "lottery"
	case RealTime:
		return "real-time"
	default:
		return "unknown"
	}
}

// Candidate is the minimal view of a ready thread the scheduler needs in
// order to select among them. It deliberately exposes no mutable state.
type Candidate struct {
	ID         ThreadID
	Policy     Policy
	Tickets    uint32 // Lottery weight; ignored by other policies.
	DeadlineMs uint64 // RealTime deadline; ignored by other policies.
	HasDeadline bool
}

// Select picks the next thread to run out of ready, given the runtime's
// current logical clock. ready must be non-empty; Select panics otherwise,
// since the run loop is expected to check for an empty ready queue itself
// (there is nothing sensible to return).
//
// Selection runs in three passes, mirroring the reference scheduler:
//  1. RealTime candidates, earliest deadline first; if the selected
//     candidate is already past its deadline it is reported as a miss
//     but still runs.
//  2. Lottery candidates, a ticket-weighted random draw.
//  3. RoundRobin candidates (and the fallback for anything else), the
//     first entry in ready queue order.
//
// A non-empty pass always wins over a later pass: real-time threads
// preempt lottery and round-robin threads whenever any are ready, and
// lottery beats round-robin the same way. Within the real-time pool ties
// break on ready-queue order (earliest enqueued wins).
func Select(ready []Candidate, nowMs uint64, rng interfaces.RandSource, onDeadlineMiss func(id ThreadID, deadlineMs, nowMs uint64)) ThreadID {
	if len(ready) == 0 {
		panic("sched: Select called with empty ready set")
	}

	if id, ok := selectRealTime(ready, nowMs, onDeadlineMiss); ok {
		return id
	}
	if id, ok := selectLottery(ready, rng); ok {
		return id
	}
	return selectRoundRobin(ready)
}

func selectRealTime(ready []Candidate, nowMs uint64, onDeadlineMiss func(id ThreadID, deadlineMs, nowMs uint64)) (ThreadID, bool) {
	best := -1
	for i, c := range ready {
		if c.Policy != RealTime {
			continue
		}
		if best == -1 || c.DeadlineMs < ready[best].DeadlineMs {
			best = i
		}
	}
	if best == -1 {
		return 0, false
	}
	chosen := ready[best]
	if onDeadlineMiss != nil && chosen.HasDeadline && nowMs > chosen.DeadlineMs {
		onDeadlineMiss(chosen.ID, chosen.DeadlineMs, nowMs)
	}
	return chosen.ID, true
}

func selectLottery(ready []Candidate, rng interfaces.RandSource) (ThreadID, bool) {
	total := uint32(0)
	for _, c := range ready {
		if c.Policy != Lottery {
			continue
		}
		t := c.Tickets
		if t == 0 {
			t = 1
		}
		total += t
	}
	if total == 0 {
		return 0, false
	}

	draw := uint32(rng.Intn(int(total)))
	var cumulative uint32
	for _, c := range ready {
		if c.Policy != Lottery {
			continue
		}
		t := c.Tickets
		if t == 0 {
			t = 1
		}
		cumulative += t
		if draw < cumulative {
			return c.ID, true
		}
	}
	// Unreachable unless total was computed wrong; fall back to the
	// first lottery candidate rather than panic on a rounding edge.
	for _, c := range ready {
		if c.Policy == Lottery {
			return c.ID, true
		}
	}
	return 0, false
}

func selectRoundRobin(ready []Candidate) ThreadID {
	for _, c := range ready {
		if c.Policy == RoundRobin {
			return c.ID
		}
	}
	// Nothing was RealTime, Lottery, or RoundRobin-tagged explicitly;
	// fall back to the front of the ready queue, same as the reference
	// scheduler's final fallback.
	return ready[0].ID
}
