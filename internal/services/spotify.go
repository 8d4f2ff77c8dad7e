// Spotify implementation of [Provider]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/requeue/internal/models"
	"github.com/desertthunder/requeue/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// Scopes required for reading playback history and creating playlists.
var spotifyScopes = []string{
	"user-read-recently-played",
	"playlist-modify-public",
	"playlist-modify-private",
}

// ProviderError carries the provider's status code and response body for a failed call.
//
// The body is logged server-side for diagnosis and never surfaced to callers.
type ProviderError struct {
	StatusCode int
	Body       string
	Endpoint   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("spotify API error: %s returned status %d", e.Endpoint, e.StatusCode)
}

// SpotifyUser represents the subset of a Spotify user profile the service reads.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyPlayHistory represents one entry of the recently-played response.
type SpotifyPlayHistory struct {
	Track    SpotifyTrack `json:"track"`
	PlayedAt string       `json:"played_at"`
}

// SpotifyRecentlyPlayed represents the recently-played endpoint response.
type SpotifyRecentlyPlayed struct {
	Items []SpotifyPlayHistory `json:"items"`
}

// SpotifyPlaylist represents the subset of a created playlist the service reads.
type SpotifyPlaylist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyService implements the [Provider] interface for Spotify API interactions.
//
// Holds an [oauth2.Config] for the authorization-code flow; the bearer
// credential itself is passed into each call rather than stored, because the
// serving process handles many users' credentials concurrently.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(clientID, clientSecret, redirectURI string) (*SpotifyService, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/auth/spotify/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// OAuthConfig exposes the service's OAuth2 configuration for callback handlers.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// AuthURL returns the OAuth2 authorization URL for user login.
//
// show_dialog forces the consent screen so a stale provider session cannot
// silently re-issue a credential mid-flow.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
}

// ExchangeCode trades an authorization code for a bearer access token.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
	}
	return token.AccessToken, nil
}

// doRequest performs an authenticated HTTP request to the Spotify API.
//
// A non-2xx status produces a [*ProviderError] carrying the response body.
func (s *SpotifyService) doRequest(ctx context.Context, credential, method, endpoint string, body, result any) error {
	if credential == "" {
		return shared.ErrNotAuthenticated
	}

	apiURL := s.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+credential)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ProviderError{StatusCode: resp.StatusCode, Body: string(respBody), Endpoint: endpoint}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ResolveIdentity retrieves the current authenticated user's provider ID.
func (s *SpotifyService) ResolveIdentity(ctx context.Context, credential string) (string, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, credential, http.MethodGet, "/me", nil, &user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// RecentTracks retrieves the user's recently played tracks, newest first.
func (s *SpotifyService) RecentTracks(ctx context.Context, credential string, limit int) ([]models.Track, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/me/player/recently-played?limit=%d", limit)

	var response SpotifyRecentlyPlayed
	if err := s.doRequest(ctx, credential, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	if len(response.Items) == 0 {
		return nil, shared.ErrNoRecentTracks
	}

	tracks := make([]models.Track, 0, len(response.Items))
	for _, item := range response.Items {
		track := models.Track{
			URI:      models.TrackRef(item.Track.URI),
			Title:    item.Track.Name,
			Album:    item.Track.Album.Name,
			Duration: item.Track.DurationMS,
		}
		if len(item.Track.Artists) > 0 {
			track.Artist = item.Track.Artists[0].Name
		}
		if playedAt, err := time.Parse(time.RFC3339, item.PlayedAt); err == nil {
			track.PlayedAt = playedAt
		}
		tracks = append(tracks, track)
	}

	return tracks, nil
}

// CreatePlaylist creates a new private playlist owned by the given user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, credential, userID, name string) (*models.PlaylistHandle, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", userID)

	payload := map[string]any{
		"name":   name,
		"public": false,
	}

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, credential, http.MethodPost, endpoint, payload, &playlist); err != nil {
		return nil, err
	}

	return &models.PlaylistHandle{ID: playlist.ID, Name: playlist.Name}, nil
}

// AddTracks appends the track URIs to the playlist in input order.
func (s *SpotifyService) AddTracks(ctx context.Context, credential, playlistID string, uris []models.TrackRef) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)

	payload := map[string]any{"uris": uris}

	return s.doRequest(ctx, credential, http.MethodPost, endpoint, payload, nil)
}
