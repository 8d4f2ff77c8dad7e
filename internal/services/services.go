// package services defines interface Provider for the streaming provider HTTP API
package services

import (
	"context"

	"github.com/desertthunder/requeue/internal/models"
)

// Provider defines the four authenticated calls the playlist creation
// sequence depends on. Each call fails with a [*ProviderError] when the
// provider returns a non-success status; no call retries.
type Provider interface {
	// ResolveIdentity returns the provider user ID for the bearer credential.
	ResolveIdentity(ctx context.Context, credential string) (string, error)

	// RecentTracks returns the user's most recently played tracks, newest
	// first, bounded by limit. Returns [shared.ErrNoRecentTracks] when the
	// provider reports an empty history.
	RecentTracks(ctx context.Context, credential string, limit int) ([]models.Track, error)

	// CreatePlaylist creates a private playlist owned by userID.
	CreatePlaylist(ctx context.Context, credential, userID, name string) (*models.PlaylistHandle, error)

	// AddTracks appends the track URIs to the playlist, preserving input order.
	AddTracks(ctx context.Context, credential, playlistID string, uris []models.TrackRef) error

	// Name returns the provider's display name (e.g. "Spotify")
	Name() string
}
