// Package hazard implements hazard-pointer safe memory reclamation: a
// technique that lets one goroutine publish "I am reading through this
// pointer, do not free what it points to" without taking a lock, and lets a
// concurrent retirer defer freeing until every such publication has cleared.
//
// A Domain owns a pool of hazard slots and a list of retired-but-not-yet-freed
// objects. Readers call MakeHazard once (typically per goroutine, reused
// across operations) to obtain a Handle, then call Protect before
// dereferencing a value read from a shared AtomicPointer, and Unprotect (or
// Close) when done. Writers that unlink a node call Retire or RetireFunc
// instead of freeing it directly; the domain frees it once no live Handle
// protects its address.
//
// The three-package split underneath — internal/slotpool for the handle
// side, internal/retirelist for the retire side, internal/diag for optional
// leak diagnostics — exists because those two data structures have no
// dependency on each other's internals; Domain is the only thing that knows
// both.
package hazard
