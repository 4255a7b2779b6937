package sched

import "math/rand"

// globalRand is the default RandSource, backed by the process-global
// math/rand generator. Production runtimes use this; tests inject a
// seeded source through interfaces.RandSource instead (see the root
// package's DeterministicRand).
type globalRand struct{}

func (globalRand) Intn(n int) int {
	return rand.Intn(n)
}

// DefaultRandSource returns the package-global random source.
func DefaultRandSource() globalRand {
	return globalRand{}
}
