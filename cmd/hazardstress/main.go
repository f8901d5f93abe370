// Command hazardstress drives the lock-free stack in
// internal/lockfreestack under configurable goroutine counts and reclaim
// levels, and reports pop and scan counts. It exits non-zero if the number
// of successful pops differs from the number of preloaded nodes, or if the
// scenario name is unknown.
//
// Usage:
//
//	hazardstress -goroutines 8 -nodes 100000 -reclaim-level 128 -scenario mixed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/kolkov/hazard/hazard"
	"github.com/kolkov/hazard/internal/lockfreestack"
)

func main() {
	if _, err := maxprocs.Set(); err != nil {
		fmt.Fprintf(os.Stderr, "hazardstress: automaxprocs: %v\n", err)
	}

	var (
		goroutines   = flag.Int("goroutines", runtime.NumCPU(), "number of concurrent worker goroutines")
		nodes        = flag.Int("nodes", 100_000, "number of nodes to preload onto the stack")
		reclaimLevel = flag.Uint("reclaim-level", 128, "hazard.Domain reclaim level")
		scenario     = flag.String("scenario", "mixed", "one of: single-consumer, mixed")
	)
	flag.Parse()

	if err := run(context.Background(), *scenario, *goroutines, *nodes, uint32(*reclaimLevel)); err != nil {
		fmt.Fprintln(os.Stderr, "hazardstress:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, scenario string, goroutines, nodes int, reclaimLevel uint32) error {
	var scans atomic.Int64
	s := lockfreestack.New[int](
		hazard.WithReclaimLevel(reclaimLevel),
		hazard.WithScanHook(func(hazard.ScanStats) { scans.Add(1) }),
	)
	defer s.Close()

	for i := 0; i < nodes; i++ {
		s.Push(i)
	}

	var pops atomic.Int64
	g, ctx := errgroup.WithContext(ctx)

	switch scenario {
	case "single-consumer":
		g.Go(func() error {
			for {
				if _, ok := s.Pop(); !ok {
					return nil
				}
				pops.Add(1)
			}
		})
		for i := 1; i < goroutines; i++ {
			g.Go(func() error {
				for {
					select {
					case <-ctx.Done():
						return nil
					default:
					}
					if _, ok := s.Peek(); !ok {
						return nil
					}
				}
			})
		}
	case "mixed":
		for i := 0; i < goroutines; i++ {
			id := i
			g.Go(func() error {
				if id%2 == 0 {
					for {
						if _, ok := s.Pop(); !ok {
							return nil
						}
						pops.Add(1)
					}
				}
				for {
					select {
					case <-ctx.Done():
						return nil
					default:
					}
					if _, ok := s.Peek(); !ok {
						return nil
					}
				}
			})
		}
	default:
		return fmt.Errorf("unknown scenario %q", scenario)
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if got := pops.Load(); got != int64(nodes) {
		return fmt.Errorf("invariant violated: popped %d nodes, want %d", got, nodes)
	}

	fmt.Printf("scenario=%s goroutines=%d nodes=%d reclaim-level=%d pops=%d scans=%d\n",
		scenario, goroutines, nodes, reclaimLevel, pops.Load(), scans.Load())
	return nil
}
