//go:build !hazarddebug

package hazard

// debugCaptureSite is a no-op outside hazarddebug builds: it never walks
// the stack, so MakeHazard pays nothing for diagnostics most builds never
// use.
func debugCaptureSite() uint64 { return 0 }

func debugSiteString(uint64) string { return "" }
