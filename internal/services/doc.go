// Package services implements the streaming provider client.
//
// [Provider] is the seam between the orchestration engine and the provider's
// HTTP API: identity lookup, bounded recently-played fetch, playlist
// creation, and playlist population. [SpotifyService] is the concrete
// implementation; it also carries the OAuth2 authorization-code
// configuration consumed by the server and CLI auth flows.
//
// Failure contract: transport/provider failures are [*ProviderError] values
// carrying the status code and response body; an empty playback history is
// the domain-level [shared.ErrNoRecentTracks], which callers must treat
// differently (it maps to a 400, not a 500).
package services
