// Package slotpool implements the hazard-pointer slot pool: a lock-free,
// append-only singly-linked list of single-writer slots.
//
// A slot is a "protection channel." At most one goroutine owns a slot at any
// instant (tracked by the slot's active flag); the owner is the only writer
// of the slot's protected address. Slots are never unlinked or freed once
// linked into the pool — only the whole pool going away (its owning domain
// tearing down) frees them. This is load-bearing: a reclamation scan reads
// protected fields concurrently with owners releasing slots, and removing
// slots from the list would require its own safe-memory-reclamation scheme,
// which is exactly the problem this package exists to avoid needing.
//
// Acquire walks the list looking for a free slot before allocating a new
// one, so the list's length converges to the peak number of simultaneously
// held handles rather than growing per-acquisition.
package slotpool
