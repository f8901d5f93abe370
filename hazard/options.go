package hazard

// defaultReclaimLevel is the retire-list length at which a scan triggers
// when the caller does not supply WithReclaimLevel.
const defaultReclaimLevel = 1000

// ScanStats summarizes one reclamation scan. It is passed to a
// WithScanHook callback after the scan completes.
type ScanStats struct {
	Scanned int // hazard slots examined
	Freed   int // retire entries whose deleter ran
	Kept    int // retire entries spliced back for a later scan
}

// Option configures a Domain at construction time.
type Option func(*Domain)

// WithReclaimLevel sets the retire-list length at which Retire/RetireFunc
// triggers a scan. Zero means "scan on every retire."
func WithReclaimLevel(n uint32) Option {
	return func(d *Domain) { d.reclaimLevel = n }
}

// WithSnapshotScan switches the domain's reclamation scan from the default
// streaming (re-read-per-entry) strategy to a snapshot strategy that reads
// every slot once per scan into an auxiliary set. Both strategies satisfy
// the same correctness contract; snapshot trades a small window of
// staleness tolerance for fewer total slot reads under a large retire list.
func WithSnapshotScan() Option {
	return func(d *Domain) { d.snapshotScan = true }
}

// WithScanHook registers fn to be called after every reclamation scan with
// a summary of what the scan did. fn runs synchronously inside the retire
// call that triggered the scan, so it must not call back into the same
// domain (retiring, protecting, or closing it); such re-entry is a
// programming error the library does not attempt to detect.
func WithScanHook(fn func(ScanStats)) Option {
	return func(d *Domain) { d.scanHook = fn }
}
