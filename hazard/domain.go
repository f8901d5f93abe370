package hazard

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/kolkov/hazard/internal/retirelist"
	"github.com/kolkov/hazard/internal/slotpool"
)

// Domain is an isolated instance of the hazard-pointer algorithm. Its slots
// are visible only to its own reclamation scans, and its retire list is
// scanned only against its own slots. A process may run any number of
// independent domains concurrently; there is no package-level default
// domain, so unrelated data structures never share reclamation latency.
//
// Consumers typically compose a *Domain into their own type as a struct
// field rather than trying to inherit from it — see internal/lockfreestack
// for the pattern.
type Domain struct {
	noCopy noCopy

	pool   slotpool.Pool
	retire retirelist.List

	reclaimLevel uint32
	snapshotScan bool
	scanHook     func(ScanStats)

	handles     atomic.Int32
	handleSites sync.Map // *Handle -> uint64, populated only under hazarddebug
	closed      atomic.Bool
}

// New constructs a Domain. With no options the reclaim level defaults to
// 1000 and the streaming scan strategy is used.
func New(opts ...Option) *Domain {
	d := &Domain{reclaimLevel: defaultReclaimLevel}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MakeHazard leases a slot from the domain's pool and returns a Handle
// scoped to it. Callers typically call this once per goroutine and reuse
// the returned Handle across many Protect/Unprotect cycles rather than
// creating one per operation.
func (d *Domain) MakeHazard() (*Handle, error) {
	s, err := d.pool.Acquire()
	if err != nil {
		return nil, fmt.Errorf("hazard: make hazard: %w", ErrOutOfMemory)
	}
	d.handles.Add(1)
	h := &Handle{domain: d, slot: s}
	if site := debugCaptureSite(); site != 0 {
		d.handleSites.Store(h, site)
	}
	return h, nil
}

// DebugLeakReport returns a human-readable listing of every handle this
// domain has created but that has not yet been closed, together with the
// call site that created it. Outside hazarddebug builds no sites are ever
// captured, so this always reports no leaks; it exists so callers can wire
// it into a shutdown check unconditionally without a build-tag branch of
// their own.
func (d *Domain) DebugLeakReport() string {
	var buf strings.Builder
	d.handleSites.Range(func(_, v any) bool {
		buf.WriteString(debugSiteString(v.(uint64)))
		return true
	})
	if buf.Len() == 0 {
		return "no open handles"
	}
	return buf.String()
}

// Retire surrenders ptr to the domain. Once no live handle protects ptr's
// address, the domain drops its own reference to *ptr so the garbage
// collector can reclaim it — Go has no manual free, so "freeing" a retired
// value means removing the library's last reachable reference to it.
func Retire[T any](d *Domain, ptr *T) error {
	return RetireFunc(d, ptr, func() { ptr = nil })
}

// RetireFunc surrenders ptr to the domain with an explicit deleter, run
// once no live handle protects ptr's address. deleter must not panic — a
// panic inside it propagates to the caller of the RetireFunc/Close call
// that triggered it, rather than being recovered and hidden — and must
// not call back into d (retiring, protecting, or closing), which the
// library does not attempt to detect.
func RetireFunc[T any](d *Domain, ptr *T, deleter func()) error {
	prev, err := d.retire.Push(unsafe.Pointer(ptr), deleter)
	if err != nil {
		return fmt.Errorf("hazard: retire: %w", ErrOutOfMemory)
	}
	if prev+1 >= d.reclaimLevel {
		d.scan()
	}
	return nil
}

// scan runs one reclamation pass, choosing the streaming or snapshot
// strategy per the domain's configuration, and reports the outcome to the
// scan hook if one is registered. It does nothing if another scan is
// already in flight; that is expected under concurrent retirers crossing
// the threshold together. The in-flight scan does not see entries pushed
// after it detached the list; those stay on the list for a later scan or
// for Close.
func (d *Domain) scan() {
	var scanned, freed, kept int

	isHazard := d.isHazardStreaming
	if d.snapshotScan {
		isHazard = d.isHazardSnapshotLazy()
	}

	ran := d.retire.TryScan(func(addr unsafe.Pointer) bool {
		hazard := isHazard(addr)
		if hazard {
			kept++
		} else {
			freed++
		}
		return hazard
	})
	if !ran {
		return
	}

	d.pool.Each(func(*slotpool.Slot) { scanned++ })

	if d.scanHook != nil {
		d.scanHook(ScanStats{Scanned: scanned, Freed: freed, Kept: kept})
	}
}

// isHazardStreaming re-walks the slot list for every retire entry it is
// asked about. It is the default: simplest to reason about, and immune to
// the ordering pitfall isHazardSnapshotLazy exists to avoid.
func (d *Domain) isHazardStreaming(addr unsafe.Pointer) bool {
	found := false
	d.pool.Each(func(s *slotpool.Slot) {
		if !found && s.Protected() == uintptr(addr) {
			found = true
		}
	})
	return found
}

// isHazardSnapshotLazy returns a predicate over a lookup set of every
// currently-published address, walking the slot list exactly once to build
// it. The walk does not happen when this function is called: it happens on
// the predicate's first invocation, deferred via the nil check below. This
// matters because the predicate is only ever invoked from inside
// retirelist.List.TryScan, once per detached entry, and every one of those
// calls happens after TryScan has already swapped the retire list's head to
// nil. Building the set eagerly here, before TryScan runs, would let a
// reader publish a hazard in the gap between the walk and the detach
// without this scan ever seeing it — freeing an address that is, at the
// moment the deleter runs, still protected. Deferring the walk into the
// predicate closes that gap: nothing in the detached list is judged until
// after the detach itself is complete.
func (d *Domain) isHazardSnapshotLazy() func(unsafe.Pointer) bool {
	var live map[uintptr]struct{}
	return func(addr unsafe.Pointer) bool {
		if live == nil {
			live = make(map[uintptr]struct{})
			d.pool.Each(func(s *slotpool.Slot) {
				if a := s.Protected(); a != 0 {
					live[a] = struct{}{}
				}
			})
		}
		_, ok := live[uintptr(addr)]
		return ok
	}
}

// Close runs every outstanding retire deleter unconditionally — by the
// time Close is called there is no live reader left in this domain to
// protect anything — and marks the domain closed. Close does not free the
// slot pool's slots; Go's garbage collector reclaims the whole Domain once
// nothing references it. Close is idempotent.
func (d *Domain) Close() {
	if !d.closed.CompareAndSwap(false, true) {
		return
	}
	d.retire.Drain()
}

// IdleForMove reports whether the domain currently has no live handles and
// is safe to hand to a new owner. Domain itself is never copied by value
// (see the embedded noCopy marker); "moving" a domain means transferring
// its *Domain pointer once IdleForMove reports true.
func (d *Domain) IdleForMove() bool {
	return d.handles.Load() == 0
}

func (d *Domain) releaseHandle() {
	d.handles.Add(-1)
}
