package slotpool

import "sync/atomic"

// Slot is one hazard-pointer protection channel.
//
// Layout:
//   - protected: the raw address the current owner (if any) promises not to
//     let be freed. Zero means "not currently protecting anything." Written
//     only by the owning goroutine; read by any goroutine running a scan.
//   - next: immutable forward link in the pool's list, set once at insertion
//     and never mutated again.
//   - active: whether a goroutine currently owns this slot. Exactly one
//     goroutine owns a slot at a time; tryAcquire is the sole admission
//     point and release the sole exit point.
//
// Invariants (I1, I2 of the reclamation contract): once linked into a Pool,
// a Slot is never unlinked or freed until the pool itself is torn down, and
// protected is written only while active is true, by the owning goroutine.
type Slot struct {
	protected atomic.Uintptr
	next      *Slot
	active    atomic.Bool
}

// tryAcquire attempts the false→true transition on active and reports
// whether it won the race. Losing is not an error: the caller moves on to
// the next slot in the list.
func (s *Slot) tryAcquire() bool {
	return s.active.CompareAndSwap(false, true)
}

// release clears active, returning the slot to the free pool. The slot
// stays linked; only ownership changes.
func (s *Slot) release() {
	s.active.Store(false)
}

// Protected returns the address currently published in this slot, or zero
// if the slot is unprotecting or between owners.
func (s *Slot) Protected() uintptr {
	return s.protected.Load()
}

// SetProtected publishes addr as the slot's protected address. Callers must
// hold ownership of the slot (a successful tryAcquire not yet followed by
// release) before calling this.
func (s *Slot) SetProtected(addr uintptr) {
	s.protected.Store(addr)
}

// Next returns the slot's immutable successor in the pool's list, or nil at
// the tail. Safe to call from any goroutine at any time, including
// concurrently with other slots being appended past it.
func (s *Slot) Next() *Slot {
	return s.next
}
