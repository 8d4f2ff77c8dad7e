package guard

import (
	"sync"
	"time"
)

// MemoryGuard is an in-process [DuplicateRequestGuard] backed by a map.
//
// Claims expire after the configured TTL so that a retry after a transient
// provider failure is not blocked forever. A zero TTL keeps claims for the
// process lifetime. Expiry is lazy: an expired claim is replaced on the next
// acquire for the same fingerprint.
type MemoryGuard struct {
	mu     sync.Mutex
	claims map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryGuard creates a MemoryGuard with the given claim TTL.
func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{
		claims: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TryAcquire atomically claims the fingerprint. Returns false when a live
// claim already exists.
func (g *MemoryGuard) TryAcquire(fingerprint string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if claimedAt, ok := g.claims[fingerprint]; ok {
		if g.ttl == 0 || now.Sub(claimedAt) < g.ttl {
			return false, nil
		}
	}

	g.claims[fingerprint] = now
	return true, nil
}

// Len reports the number of stored claims, live or expired.
func (g *MemoryGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.claims)
}

// SessionTracker is an in-process [DispatchTracker] scoped to one serving
// session. Dispatched credentials are remembered until the process exits.
type SessionTracker struct {
	mu         sync.Mutex
	dispatched map[string]struct{}
}

// NewSessionTracker creates an empty SessionTracker.
func NewSessionTracker() *SessionTracker {
	return &SessionTracker{dispatched: make(map[string]struct{})}
}

func (t *SessionTracker) HasDispatched(credential string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.dispatched[credential]
	return ok
}

func (t *SessionTracker) MarkDispatched(credential string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dispatched[credential] = struct{}{}
}
