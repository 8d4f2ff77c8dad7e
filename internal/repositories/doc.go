// Package repositories implements SQLite-backed persistence for idempotency
// claims.
//
// The in-memory guard forgets claims on restart; [ClaimRepository] is the
// durable alternative for deployments where a restart must not reopen the
// duplicate-creation window. Both satisfy guard.DuplicateRequestGuard and
// are selected by configuration.
package repositories
