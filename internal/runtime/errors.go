package runtime

// FatalFunc aborts the process when a usage invariant is violated (e.g.
// resuming a terminated context, unlocking a mutex you don't own,
// operating on an uninitialized runtime). The root package overrides this
// at init time to log the violation and panic with a structured error;
// tests may override it again to capture the violation without killing
// the test binary.
var FatalFunc = func(op, msg string) {
	panic(op + ": " + msg)
}
