// Package models defines domain entities for the requeue playlist capture service.
//
// The package contains two categories of types:
//
// 1. Request/response values crossing the HTTP boundary:
//   - [CreationRequest] : Caller parameters, validated before dispatch
//   - [Outcome] : The single terminal result with its HTTP status mapping
//
// 2. Provider and guard domain values:
//   - [TrackRef] : Opaque provider track URI, order-preserving
//   - [Track] : Recently played track metadata for display surfaces
//   - [PlaylistHandle] : Created playlist identity
//   - [Claim] : A persisted idempotency claim with optional expiry
package models
