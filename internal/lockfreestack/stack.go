package lockfreestack

import (
	"github.com/kolkov/hazard/hazard"
)

type node[T any] struct {
	value T
	next  *node[T]
}

// Stack is a lock-free, multi-producer multi-consumer LIFO stack. Its zero
// value is not usable; construct one with New.
type Stack[T any] struct {
	head   hazard.AtomicPointer[node[T]]
	domain *hazard.Domain
}

// New constructs a Stack backed by a fresh hazard domain configured with
// opts.
func New[T any](opts ...hazard.Option) *Stack[T] {
	return &Stack[T]{domain: hazard.New(opts...)}
}

// Push adds v to the top of the stack. Push never blocks and never
// allocates a hazard handle: it does not dereference the current head, so
// it needs no protection against concurrent reclamation.
func (s *Stack[T]) Push(v T) {
	n := &node[T]{value: v}
	for {
		head := s.head.Load()
		n.next = head
		if s.head.CompareAndSwap(head, n) {
			return
		}
	}
}

// Pop removes and returns the top value, reporting false if the stack was
// empty. The popped node is retired to the domain rather than freed
// directly, so any concurrent Peek that is mid-protect on it is never
// invalidated out from under it.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T

	h, err := s.domain.MakeHazard()
	if err != nil {
		return zero, false
	}
	defer h.Close()

	for {
		head, err := hazard.Protect(h, &s.head)
		if err != nil {
			return zero, false
		}
		if head == nil {
			return zero, false
		}
		next := head.next
		if s.head.CompareAndSwap(head, next) {
			v := head.value
			_ = hazard.Retire(s.domain, head)
			return v, true
		}
	}
}

// Peek returns the top value without removing it, reporting false if the
// stack is empty.
func (s *Stack[T]) Peek() (T, bool) {
	var zero T

	h, err := s.domain.MakeHazard()
	if err != nil {
		return zero, false
	}
	defer h.Close()

	head, err := hazard.Protect(h, &s.head)
	if err != nil || head == nil {
		return zero, false
	}
	return head.value, true
}

// Close tears down the stack's domain, running every outstanding retire
// deleter. Callers must not use the stack afterwards.
func (s *Stack[T]) Close() {
	s.domain.Close()
}
