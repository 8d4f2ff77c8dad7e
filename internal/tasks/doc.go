// Package tasks contains the playlist creation engine.
//
// # State machine
//
// One orchestration moves through
//
//	idle → identity_resolved → guard_acquired → tracks_fetched →
//	playlist_created → populated
//
// with a parallel terminal failed state reachable from every non-terminal
// state. Each failure carries a [models.FailureReason] tag: auth for a
// provider failure during identity resolution, duplicate_request for a guard
// rejection, no_tracks_found for an empty playback history, and
// provider_failure for everything downstream. The engine returns exactly one
// [models.Outcome] per call.
//
// # Duplicate suppression
//
// The idempotency fingerprint is derived from the resolved provider user ID
// and the playlist name, so it can only be computed after one successful
// provider round-trip. A rejected duplicate therefore still costs one
// identity call, and nothing more.
//
// # Progress
//
// Progress updates are sent on a caller-owned channel with non-blocking
// sends, following the pattern used by the CLI and web layers for live
// status display.
package tasks
