package hazard

import "errors"

// ErrOutOfMemory is returned when acquiring a hazard slot or a retire entry
// fails to allocate. Go's allocator panics rather than returning an error
// under genuine exhaustion, so in production this path is unreachable; it
// is modeled for API-contract completeness and exercised in tests through
// the internal packages' fault-injection hooks.
var ErrOutOfMemory = errors.New("hazard: out of memory")

// ErrHandleClosed is returned by Protect and Unprotect when called on a
// Handle after Close. Using a handle post-teardown is exactly the class of
// bug this library exists to catch, so it is surfaced as a checkable error
// rather than left as undefined behavior or silently ignored.
var ErrHandleClosed = errors.New("hazard: handle is closed")
