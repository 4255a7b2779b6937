package sched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fixedRand struct{ n int }

func (f fixedRand) Intn(int) int { return f.n }

func TestSelectRealTimeBeatsEverythingElse(t *testing.T) {
	ready := []Candidate{
		{ID: 1, Policy: RoundRobin},
		{ID: 2, Policy: Lottery, Tickets: 100},
		{ID: 3, Policy: RealTime, DeadlineMs: 500, HasDeadline: true},
		{ID: 4, Policy: RealTime, DeadlineMs: 100, HasDeadline: true},
	}

	id := Select(ready, 0, DefaultRandSource(), nil)
	require.Equal(t, ThreadID(4), id, "earliest deadline should win over later deadline and other policies")
}

func TestSelectDeadlineMissIsReportedButStillEligible(t *testing.T) {
	ready := []Candidate{
		{ID: 1, Policy: RealTime, DeadlineMs: 50, HasDeadline: true},
	}

	var missedID ThreadID
	var missedDeadline, missedNow uint64
	id := Select(ready, 200, DefaultRandSource(), func(tid ThreadID, deadlineMs, nowMs uint64) {
		missedID, missedDeadline, missedNow = tid, deadlineMs, nowMs
	})

	require.Equal(t, ThreadID(1), id)
	require.Equal(t, ThreadID(1), missedID)
	require.Equal(t, uint64(50), missedDeadline)
	require.Equal(t, uint64(200), missedNow)
}

func TestSelectLotteryBeatsRoundRobin(t *testing.T) {
	ready := []Candidate{
		{ID: 1, Policy: RoundRobin},
		{ID: 2, Policy: Lottery, Tickets: 1},
	}

	id := Select(ready, 0, fixedRand{n: 0}, nil)
	require.Equal(t, ThreadID(2), id)
}

func TestSelectLotteryProportionality(t *testing.T) {
	// Two tickets for thread 1, one for thread 2: draws 0-1 pick thread 1,
	// draw 2 picks thread 2.
	ready := []Candidate{
		{ID: 1, Policy: Lottery, Tickets: 2},
		{ID: 2, Policy: Lottery, Tickets: 1},
	}

	require.Equal(t, ThreadID(1), Select(ready, 0, fixedRand{n: 0}, nil))
	require.Equal(t, ThreadID(1), Select(ready, 0, fixedRand{n: 1}, nil))
	require.Equal(t, ThreadID(2), Select(ready, 0, fixedRand{n: 2}, nil))
}

func TestSelectRoundRobinPicksFrontOfQueue(t *testing.T) {
	ready := []Candidate{
		{ID: 5, Policy: RoundRobin},
		{ID: 6, Policy: RoundRobin},
	}

	id := Select(ready, 0, DefaultRandSource(), nil)
	require.Equal(t, ThreadID(5), id)
}

func TestSelectPanicsOnEmptyReady(t *testing.T) {
	require.Panics(t, func() {
		Select(nil, 0, DefaultRandSource(), nil)
	})
}
