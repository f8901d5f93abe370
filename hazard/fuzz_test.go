package hazard

import (
	"sync/atomic"
	"testing"
)

// FuzzDomainSequence drives randomized sequences of make/protect/unprotect/
// close/retire against a small fixed pool of addresses and checks the
// invariant that holds regardless of the sequence chosen: by the time the
// domain is closed, each retirement's deleter has run exactly once. Slot
// exclusivity is not checked by this target.
func FuzzDomainSequence(f *testing.F) {
	f.Add([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	f.Add([]byte{7, 6, 5, 4, 3, 2, 1, 0, 1, 2})

	f.Fuzz(func(t *testing.T, ops []byte) {
		if len(ops) > 256 {
			ops = ops[:256]
		}

		d := New(WithReclaimLevel(4))
		pool := make([]int, 8)
		srcs := make([]*AtomicPointer[int], len(pool))
		for i := range srcs {
			srcs[i] = &AtomicPointer[int]{}
			srcs[i].Store(&pool[i])
		}

		var runs [8]atomic.Int32
		var retired [8]int32
		var handles []*Handle

		for _, op := range ops {
			idx := int(op) % len(pool)
			switch op % 4 {
			case 0:
				h, err := d.MakeHazard()
				if err != nil {
					t.Fatalf("MakeHazard() error = %v", err)
				}
				handles = append(handles, h)
			case 1:
				if len(handles) == 0 {
					continue
				}
				h := handles[0]
				if _, err := Protect(h, srcs[idx]); err != nil {
					t.Fatalf("Protect() error = %v", err)
				}
			case 2:
				if len(handles) == 0 {
					continue
				}
				handles[0].Unprotect()
			case 3:
				if err := RetireFunc(d, &pool[idx], func() { runs[idx].Add(1) }); err != nil {
					t.Fatalf("RetireFunc() error = %v", err)
				}
				retired[idx]++
			}
			if len(handles) > 0 && op%7 == 0 {
				handles[0].Close()
				handles = handles[1:]
			}
		}

		for _, h := range handles {
			h.Close()
		}
		d.Close()
		for i := range runs {
			if got := runs[i].Load(); got != retired[i] {
				t.Fatalf("address %d: deleter ran %d times for %d retirements", i, got, retired[i])
			}
		}
		// sequence must complete without panic, deadlock, or race
	})
}
