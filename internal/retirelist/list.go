package retirelist

import (
	"errors"
	"sync/atomic"
	"unsafe"
)

// ErrOutOfMemory is returned by Push when allocating a new entry fails. As
// with slotpool.ErrOutOfMemory, this is unreachable in production Go and
// exists only for fault-injection tests via allocEntry.
var ErrOutOfMemory = errors.New("retirelist: out of memory pushing retire entry")

// Entry is one retired pointer awaiting reclamation.
//
// addr is kept as an untyped, type-erased address; the concrete type it
// refers to is captured inside deleter, mirroring the C++ original's
// void*-plus-std::function encoding. deleter must not panic: it runs during
// a scan or during domain teardown, and a panic there is a programming
// error the library propagates rather than swallows (see the panicking
// deleter design note).
type Entry struct {
	next    *Entry
	addr    unsafe.Pointer
	deleter func()
}

var allocEntry = func() (*Entry, error) {
	return &Entry{}, nil
}

// List is a lock-free stack of retire Entries with an atomic head and an
// atomic approximate count. The count exists to drive threshold triggering
// in the domain façade; it is not a correctness variable and callers must
// not rely on it being exact under concurrent Push.
type List struct {
	head     atomic.Pointer[Entry]
	count    atomic.Uint32
	scanning atomic.Bool
}

// Push adds addr and its deleter to the list and returns the count observed
// immediately before this push (so the caller can compare prevCount+1
// against a threshold). Concurrent pushers are ordered LIFO by completion:
// whichever push's CAS succeeds first becomes the new head first.
func (l *List) Push(addr unsafe.Pointer, deleter func()) (prevCount uint32, err error) {
	e, err := allocEntry()
	if err != nil {
		return 0, ErrOutOfMemory
	}
	e.addr = addr
	e.deleter = deleter

	for {
		head := l.head.Load()
		e.next = head
		if l.head.CompareAndSwap(head, e) {
			break
		}
	}
	return l.count.Add(1) - 1, nil
}

// TryScan attempts to claim the non-blocking scanning flag and, if it wins,
// runs a scan with isHazard as the retention predicate. It reports whether
// it actually ran a scan (false means another goroutine's scan is already
// in flight; that scan does not see entries pushed after it detached the
// list, and those entries wait for a later scan or Drain).
//
// isHazard(addr) decides conservatively: true defers reclamation of addr to
// a later scan (a safe over-approximation), false frees it now. Returning
// false for an address that is genuinely still protected is the one
// forbidden outcome — everything else is merely a missed optimization.
func (l *List) TryScan(isHazard func(unsafe.Pointer) bool) bool {
	if !l.scanning.CompareAndSwap(false, true) {
		return false
	}
	defer l.scanning.Store(false)

	l.count.Store(0)

	list := l.head.Swap(nil)

	var keptHead, keptTail *Entry
	var kept uint32
	for e := list; e != nil; {
		next := e.next
		if isHazard(e.addr) {
			e.next = keptHead
			keptHead = e
			if keptTail == nil {
				keptTail = e
			}
			kept++
		} else {
			e.deleter()
		}
		e = next
	}

	if keptHead != nil {
		for {
			head := l.head.Load()
			keptTail.next = head
			if l.head.CompareAndSwap(head, keptHead) {
				break
			}
		}
		l.count.Add(kept)
	}

	return true
}

// Drain unconditionally runs every entry's deleter, ignoring hazard status.
// This is the domain-teardown path: by the time a domain is closed there is
// no live reader left to protect anything, so every outstanding retiree is
// simply freed.
func (l *List) Drain() {
	list := l.head.Swap(nil)
	l.count.Store(0)
	for e := list; e != nil; {
		next := e.next
		e.deleter()
		e = next
	}
}

// Len returns the approximate current length of the list. It is exact in
// the absence of concurrent Push/TryScan calls and approximate otherwise.
func (l *List) Len() uint32 {
	return l.count.Load()
}
