package hazard

// noCopy is embedded in types that must never be copied by value after
// first use. go vet's copylocks analyzer flags any assignment or
// pass-by-value of a struct embedding noCopy, the same technique
// sync.WaitGroup and sync.Mutex use in the standard library.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
