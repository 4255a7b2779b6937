package mypthreads

import "github.com/mypthreads/go-mypthreads/internal/constants"

// Re-exported defaults for public API consumers.
const (
	DefaultMaxThreads    = constants.DefaultMaxThreads
	DefaultStackSizeHint = constants.DefaultStackSizeHint
)

// DefaultTickStepMs is the logical clock step, in milliseconds, advanced
// once per dispatch.
var DefaultTickStepMs = uint64(constants.DefaultTickStep.Milliseconds())
