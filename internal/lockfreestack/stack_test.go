package lockfreestack

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kolkov/hazard/hazard"
)

func TestPushPopOrder(t *testing.T) {
	s := New[int]()
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.Push(i)
	}

	for i := 4; i >= 0; i-- {
		v, ok := s.Pop()
		if !ok {
			t.Fatalf("Pop() ok = false, want true")
		}
		if v != i {
			t.Errorf("Pop() = %d, want %d", v, i)
		}
	}

	if _, ok := s.Pop(); ok {
		t.Errorf("Pop() on empty stack ok = true, want false")
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	s := New[string]()
	defer s.Close()

	s.Push("a")
	for i := 0; i < 3; i++ {
		v, ok := s.Peek()
		if !ok || v != "a" {
			t.Fatalf("Peek() = (%q, %v), want (\"a\", true)", v, ok)
		}
	}
	v, ok := s.Pop()
	if !ok || v != "a" {
		t.Fatalf("Pop() = (%q, %v), want (\"a\", true)", v, ok)
	}
}

// TestSingleProducerMultiConsumer is the §8 scenario 1 harness: one
// goroutine pops everything preloaded while N-1 goroutines peek in a busy
// loop and must never observe a crash or a torn value.
func TestSingleProducerMultiConsumer(t *testing.T) {
	const preload = 100_000
	const peekers = 7

	s := New[int](hazard.WithReclaimLevel(64))
	defer s.Close()

	for i := 0; i < preload; i++ {
		s.Push(i)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < peekers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					s.Peek()
				}
			}
		}()
	}

	var pops int
	for {
		if _, ok := s.Pop(); !ok {
			break
		}
		pops++
	}
	close(stop)
	wg.Wait()

	if pops != preload {
		t.Errorf("pops = %d, want %d", pops, preload)
	}
}

// TestConcurrentPopHalfPeekHalf is the §8 scenario 2 harness: half the
// goroutines pop, half peek, and the total successful pops across all
// popping goroutines must equal the preloaded count exactly once each.
func TestConcurrentPopHalfPeekHalf(t *testing.T) {
	const preload = 100_000
	const workers = 8

	s := New[int](hazard.WithReclaimLevel(64))
	defer s.Close()

	for i := 0; i < preload; i++ {
		s.Push(i)
	}

	var totalPops atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if id%2 == 0 {
				for {
					if _, ok := s.Pop(); !ok {
						return
					}
					totalPops.Add(1)
				}
			}
			for j := 0; j < preload/workers; j++ {
				s.Peek()
			}
		}(i)
	}
	wg.Wait()

	if got := totalPops.Load(); got != preload {
		t.Errorf("totalPops = %d, want %d", got, preload)
	}
}

// TestABAStyleProtectValidateRace is the §8 scenario 4 harness: several
// goroutines pop and immediately re-push (an ABA-style churn on the head
// pointer) while another goroutine peeks in a tight loop, under the
// snapshot scan strategy. Go's garbage collector keeps a popped node
// reachable for as long as any stale pointer still references it, so the
// address-reuse form of ABA cannot corrupt memory the way it would in the
// C++ original; what this exercises is the protect-validate loop holding
// up under real concurrent head churn, plus the snapshot scan strategy
// running concurrently with that churn rather than only after it settles.
func TestABAStyleProtectValidateRace(t *testing.T) {
	s := New[int](hazard.WithReclaimLevel(4), hazard.WithSnapshotScan())
	defer s.Close()

	const churners = 4
	const perChurner = 20000
	const preload = 64

	for i := 0; i < preload; i++ {
		s.Push(i)
	}

	var emptyPops atomic.Int64
	var churnWg sync.WaitGroup
	for c := 0; c < churners; c++ {
		churnWg.Add(1)
		go func(id int) {
			defer churnWg.Done()
			for i := 0; i < perChurner; i++ {
				if v, ok := s.Pop(); ok {
					s.Push(v)
				} else {
					emptyPops.Add(1)
					s.Push(id*perChurner + i)
				}
			}
		}(c)
	}

	stop := make(chan struct{})
	var peekWg sync.WaitGroup
	peekWg.Add(1)
	go func() {
		defer peekWg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				s.Peek()
			}
		}
	}()

	churnWg.Wait()
	close(stop)
	peekWg.Wait()

	want := int64(preload) + emptyPops.Load()
	var got int64
	for {
		if _, ok := s.Pop(); !ok {
			break
		}
		got++
	}
	if got != want {
		t.Errorf("final stack length = %d, want %d (preload + observed empty pops)", got, want)
	}
}
