package unit

import "sync"

var (
	siOnce sync.Once
	si     *Registry
)

// SI returns the shared standard registry. It is built once on first use and
// is read-only afterwards, so it may be used from any number of problems
// without synchronization.
func SI() *Registry {
	siOnce.Do(func() {
		si = NewRegistry()
	})
	return si
}
