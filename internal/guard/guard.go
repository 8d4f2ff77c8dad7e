// package guard defines the duplicate-suppression capabilities for playlist creation
package guard

// DuplicateRequestGuard ensures at most one accepted orchestration per
// fingerprint. TryAcquire is an atomic check-and-insert: exactly one of any
// set of concurrent callers for the same fingerprint observes true.
type DuplicateRequestGuard interface {
	TryAcquire(fingerprint string) (bool, error)
}

// DispatchTracker is the companion guard for the calling UI layer: it
// remembers which credentials have already triggered an orchestration so a
// re-render or redirect replay cannot dispatch a second round-trip.
//
// Callers must mark before sending, not after, to close the race window on
// rapid re-invocation.
type DispatchTracker interface {
	HasDispatched(credential string) bool
	MarkDispatched(credential string)
}

// Fingerprint derives the idempotency key from the resolved provider user ID
// and the requested playlist name. It requires a successful identity lookup
// first; it is never computed from client input alone.
func Fingerprint(userID, playlistName string) string {
	return userID + "-" + playlistName
}
