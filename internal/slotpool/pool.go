package slotpool

import (
	"errors"
	"sync/atomic"
)

// ErrOutOfMemory is returned by Acquire when allocating a new slot fails.
//
// Go's allocator panics rather than returning an error under genuine
// out-of-memory conditions, so this path is unreachable through normal use;
// it exists so the API contract matches the reclaim-scan literature this
// package is grounded on, and it is exercised in tests through allocSlot,
// an unexported hook swapped out only from _test.go files.
var ErrOutOfMemory = errors.New("slotpool: out of memory acquiring hazard slot")

// allocSlot is the allocation hook for new slots. Tests substitute a
// failing variant to exercise the ErrOutOfMemory path; production code
// never overrides it.
var allocSlot = func() (*Slot, error) {
	return &Slot{}, nil
}

// Pool is a lock-free, append-only stack of hazard slots with an atomic
// head. The pool exclusively owns every slot it has ever produced; a caller
// holding a *Slot returned by Acquire holds a non-owning reference plus the
// active lease established by that call.
type Pool struct {
	head atomic.Pointer[Slot]
}

// Acquire returns a free slot, reusing one released by a previous owner
// when possible and only allocating a new one when every existing slot is
// currently active.
//
// The scan performed here is why the pool does not grow on every call: once
// a slot exists and is released, later Acquire calls will find and reuse it
// rather than growing the list further, so list length converges to the peak number of
// concurrently held handles.
func (p *Pool) Acquire() (*Slot, error) {
	for s := p.head.Load(); s != nil; s = s.next {
		if s.tryAcquire() {
			return s, nil
		}
	}

	s, err := allocSlot()
	if err != nil {
		return nil, ErrOutOfMemory
	}
	s.active.Store(true)

	for {
		head := p.head.Load()
		s.next = head
		if p.head.CompareAndSwap(head, s) {
			return s, nil
		}
	}
}

// Release returns s to the pool for reuse by a future Acquire. The slot
// stays linked in the list; only its ownership changes.
func (p *Pool) Release(s *Slot) {
	s.release()
}

// Each calls fn with every slot currently linked into the pool, walking
// from head to tail. fn observes a consistent snapshot of each slot's
// protected field at the moment it reads it, but slots may be concurrently
// acquired, published to, or released by other goroutines during the walk —
// that is expected and is exactly the property a reclamation scan needs: it
// never misses a slot that existed before the walk started, at the cost of
// possibly seeing a protected value that has already changed by the time
// the scan uses it (which only ever causes the scan to be conservative).
func (p *Pool) Each(fn func(*Slot)) {
	for s := p.head.Load(); s != nil; s = s.next {
		fn(s)
	}
}
