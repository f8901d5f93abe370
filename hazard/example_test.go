package hazard_test

import (
	"fmt"

	"github.com/kolkov/hazard/hazard"
)

// Example demonstrates protecting a shared pointer and retiring a node
// once it has been unlinked.
func Example() {
	d := hazard.New(hazard.WithReclaimLevel(0))
	defer d.Close()

	type node struct{ value int }

	src := &hazard.AtomicPointer[node]{}
	src.Store(&node{value: 42})

	h, err := d.MakeHazard()
	if err != nil {
		fmt.Println("MakeHazard failed:", err)
		return
	}
	defer h.Close()

	n, err := hazard.Protect(h, src)
	if err != nil {
		fmt.Println("Protect failed:", err)
		return
	}
	fmt.Println(n.value)

	// A writer unlinks the node from src and retires it. The reader
	// unprotects it first, so with ReclaimLevel 0 this Retire call's scan
	// frees it at once; had h still protected it, the scan would keep it.
	src.Store(nil)
	old := n
	h.Unprotect()
	if err := hazard.Retire(d, old); err != nil {
		fmt.Println("Retire failed:", err)
		return
	}

	// Output:
	// 42
}
