// Package diag implements retire-site capture and deduplication for leak
// diagnostics.
//
// When a build is compiled with the hazarddebug tag, every call to
// Domain.MakeHazard records the call site of its caller, and
// Domain.DebugLeakReport lists where each handle that is still open was
// created. Retire and RetireFunc record no site. Sites are deduplicated by
// hash so a hot call site (one MakeHazard call inside a tight loop) costs
// one allocation total, not one per call.
//
// Design mirrors a common stack-trace deduplication approach:
//   - Fixed-size stack traces (8 frames)
//   - Hash-based deduplication (FNV-1a)
//   - Global sync.Map storage, safe for concurrent capture
//
// This package is diagnostics-only: nothing in the reclamation hot path
// depends on it, and outside of hazarddebug builds the domain never calls
// into it.
package diag

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
	"sync"
	"unsafe"
)

// MaxFrames is the maximum number of stack frames captured per call site.
const MaxFrames = 8

// Site is a captured call site. Its program counters live in a fixed-size
// array inside the Site rather than in a separately allocated slice.
type Site struct {
	pc [MaxFrames]uintptr
}

var sites sync.Map // uint64 hash -> *Site

// CaptureSite records the call stack starting at CaptureSite's caller,
// skipping skip further frames (skip==0 means "my direct caller"), and
// returns a hash of the whole captured stack. Stacks that have already been
// captured are not re-stored.
func CaptureSite(skip int) uint64 {
	var pcs [MaxFrames]uintptr
	n := runtime.Callers(2+skip, pcs[:])
	if n == 0 {
		return 0
	}

	hash := hashSite(pcs[:n])
	if _, exists := sites.Load(hash); exists {
		return hash
	}
	sites.Store(hash, &Site{pc: pcs})
	return hash
}

// Lookup returns the site previously captured under hash, or nil if hash is
// zero or unknown.
func Lookup(hash uint64) *Site {
	if hash == 0 {
		return nil
	}
	v, ok := sites.Load(hash)
	if !ok {
		return nil
	}
	return v.(*Site)
}

// hashSite computes an FNV-1a hash over the raw program counters.
func hashSite(pcs []uintptr) uint64 {
	h := fnv.New64a()
	for _, pc := range pcs {
		//nolint:gosec // G103: reading a uintptr's bytes for hashing only.
		b := (*[8]byte)(unsafe.Pointer(&pc))[:]
		_, _ = h.Write(b)
	}
	return h.Sum64()
}

// String formats the site as a multi-line, human-readable trace suitable for
// inclusion in a leak report. User frames only; runtime frames are elided.
func (s *Site) String() string {
	if s == nil {
		return "  <unknown retire site>\n"
	}

	frames := runtime.CallersFrames(s.pc[:])
	var buf strings.Builder
	for {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}
		if strings.HasPrefix(frame.Function, "runtime.") {
			if !more {
				break
			}
			continue
		}
		fmt.Fprintf(&buf, "  %s()\n      %s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	if buf.Len() == 0 {
		return "  <runtime internal>\n"
	}
	return buf.String()
}

// Reset clears the site depot. Test-only.
func Reset() {
	sites = sync.Map{}
}
