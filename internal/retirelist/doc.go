// Package retirelist implements the retired-pointer stack and its
// reclamation scan.
//
// Retire entries are pushed by any number of concurrent retirers as a
// lock-free singly-linked stack. When a scan runs, it detaches the whole
// list, walks it once, and either runs each entry's deleter (freeing it) or
// splices it back onto the head for a later scan to reconsider. Ownership
// of a retired object passes to the deleter exactly once: either this scan
// runs it, or the entry survives back onto the list for the next one.
//
// This package makes no domain-specific decision about what counts as
// "hazard" — callers supply an isHazard predicate at scan time. Keeping
// that decision out of the list keeps it reusable across domains with
// different slot-pool shapes, and keeps the CAS-heavy hot path free of
// anything but pointer arithmetic.
package retirelist
