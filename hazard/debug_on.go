//go:build hazarddebug

package hazard

import "github.com/kolkov/hazard/internal/diag"

// debugCaptureSite records the caller's call site for later inclusion in a
// leak report. Only compiled into hazarddebug builds; the release build's
// debugCaptureSite (debug_off.go) is a zero-cost no-op instead.
func debugCaptureSite() uint64 {
	return diag.CaptureSite(1)
}

func debugSiteString(hash uint64) string {
	return diag.Lookup(hash).String()
}
