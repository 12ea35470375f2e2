// Package opflight deduplicates concurrent mutations of the same resource.
//
// A Guard tracks which logical operations are currently running, keyed by
// operation name and resource ID. Handlers call Begin before mutating and
// End when the mutation settles. A second request for the same key while the
// first is still running is rejected instead of queued, mirroring the
// "operation in progress" protection a UI needs against double submissions.
package opflight

import (
	"sync"
)

// Guard tracks in-flight operations. The zero value is not usable, use New.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func New() *Guard {
	return &Guard{
		inFlight: make(map[string]struct{}),
	}
}

// Begin marks the operation as in flight. It returns false if the same
// operation on the same resource is already running, in which case the
// caller must not proceed and must not call End.
func (g *Guard) Begin(operation, resource string) bool {
	key := operation + ":" + resource

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.inFlight[key]; ok {
		return false
	}

	g.inFlight[key] = struct{}{}
	return true
}

// End marks the operation as settled. It must be called exactly once for
// every successful Begin, regardless of the operation outcome.
func (g *Guard) End(operation, resource string) {
	key := operation + ":" + resource

	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, key)
}
