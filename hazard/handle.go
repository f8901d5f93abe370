package hazard

import (
	"sync/atomic"
	"unsafe"

	"github.com/kolkov/hazard/internal/slotpool"
)

// Handle is a scoped lease over exactly one hazard slot. It is not
// goroutine-shared: only its current owner may call Protect/Unprotect.
// Ownership transfers by handing over the *Handle itself, never by copying
// a Handle value — the embedded noCopy marker makes go vet's copylocks
// analyzer flag an accidental value copy.
type Handle struct {
	noCopy noCopy

	domain *Domain
	slot   *slotpool.Slot
	closed atomic.Bool
}

// Protect implements the protect-validate loop: publish src's current
// value into h's slot, then reread src. If the two reads agree, the
// address is safely protected and is returned; otherwise src changed
// concurrently and the loop restarts. Go's sync/atomic typed operations
// are sequentially consistent, strictly stronger than the acquire/release
// pairing the algorithm requires, so this loop's correctness does not
// depend on any ordering finer than what atomic.Pointer[T] already gives.
func Protect[T any](h *Handle, src *AtomicPointer[T]) (*T, error) {
	if h.closed.Load() {
		return nil, ErrHandleClosed
	}
	for {
		p := src.Load()
		h.slot.SetProtected(uintptr(unsafe.Pointer(p)))
		if p == src.Load() {
			return p, nil
		}
	}
}

// Unprotect clears h's published address. It is idempotent: calling it
// when nothing is protected is a no-op.
func (h *Handle) Unprotect() error {
	if h.closed.Load() {
		return ErrHandleClosed
	}
	h.slot.SetProtected(0)
	return nil
}

// Close clears the handle's protected address and returns its slot to the
// domain's pool. Close is idempotent; a second call is a documented no-op,
// matching io.Closer convention rather than the single-destruction model a
// move-only type would enforce.
func (h *Handle) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}
	h.slot.SetProtected(0)
	h.domain.pool.Release(h.slot)
	h.domain.releaseHandle()
	h.domain.handleSites.Delete(h)
}
