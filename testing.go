package mypthreads

import "math/rand"

// deterministicRand wraps a seeded math/rand.Rand behind RandSource so
// lottery-scheduler tests get reproducible draws instead of depending on
// process-global random state.
type deterministicRand struct {
	r *rand.Rand
}

func (d *deterministicRand) Intn(n int) int { return d.r.Intn(n) }

// DeterministicRand returns a RandSource seeded for reproducible lottery
// draws, for use with WithRandSource in tests.
func DeterministicRand(seed int64) RandSource {
	return &deterministicRand{r: rand.New(rand.NewSource(seed))}
}

// CountingEntry returns an Entry that yields n times, then exits with
// value n (as an int). Useful for round-robin/lottery fairness tests that
// just need threads occupying the ready queue for a known number of
// dispatches.
func CountingEntry(n int) Entry {
	return func(t *Thread) {
		for i := 0; i < n; i++ {
			t.Yield()
		}
		t.EndWithValue(n)
	}
}

// StepEntry returns an Entry that calls step once per dispatch (passing
// the 0-based dispatch index), yielding after each call until step
// returns false, at which point the thread exits with no value. It is
// the test-harness equivalent of a hand-written cooperative loop body.
func StepEntry(step func(i int) bool) Entry {
	return func(t *Thread) {
		for i := 0; ; i++ {
			if !step(i) {
				return
			}
			t.Yield()
		}
	}
}

// BlockingEntry returns an Entry that calls Block() once, then exits.
// Useful for exercising UnblockAll.
func BlockingEntry() Entry {
	return func(t *Thread) {
		t.Block()
	}
}
