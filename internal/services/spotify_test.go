package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/requeue/internal/models"
	"github.com/desertthunder/requeue/internal/shared"
	internaltest "github.com/desertthunder/requeue/internal/testing"
)

func newTestService(t *testing.T, handler http.Handler) (*SpotifyService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv, err := NewSpotifyService("test_client_id", "test_client_secret", "http://localhost:8080/cb")
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	srv.baseURL = server.URL

	return srv, server
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("With Valid Credentials", func(t *testing.T) {
		srv, err := NewSpotifyService("cid", "secret", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.Name() != "Spotify" {
			t.Errorf("expected service name 'Spotify', got %s", srv.Name())
		}
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		if _, err := NewSpotifyService("", "secret", ""); err == nil {
			t.Error("expected error for missing client_id")
		}
	})

	t.Run("Missing Client Secret", func(t *testing.T) {
		if _, err := NewSpotifyService("cid", "", ""); err == nil {
			t.Error("expected error for missing client_secret")
		}
	})

	t.Run("Default Redirect URI", func(t *testing.T) {
		srv, err := NewSpotifyService("cid", "secret", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.config.RedirectURL == "" {
			t.Error("expected a default redirect URI")
		}
	})
}

func TestAuthURL(t *testing.T) {
	srv, err := NewSpotifyService("test_client_id", "test_client_secret", "")
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	authURL := srv.AuthURL("test_state")

	for _, want := range []string{"accounts.spotify.com", "test_client_id", "test_state", "show_dialog=true", "user-read-recently-played"} {
		if !strings.Contains(authURL, want) {
			t.Errorf("auth URL should contain %q, got %s", want, authURL)
		}
	}
}

func TestResolveIdentity(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotAuth string
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me" {
				t.Errorf("expected /me, got %s", r.URL.Path)
			}
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(SpotifyUser{ID: "user42", DisplayName: "User"})
		}))

		userID, err := srv.ResolveIdentity(context.Background(), "tok_abc")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if userID != "user42" {
			t.Errorf("expected user42, got %s", userID)
		}
		if gotAuth != "Bearer tok_abc" {
			t.Errorf("expected bearer header, got %q", gotAuth)
		}
	})

	t.Run("Provider Failure", func(t *testing.T) {
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"status":401,"message":"The access token expired"}}`))
		}))

		_, err := srv.ResolveIdentity(context.Background(), "tok_expired")
		if err == nil {
			t.Fatal("expected error")
		}

		var provErr *ProviderError
		if !errors.As(err, &provErr) {
			t.Fatalf("expected *ProviderError, got %T", err)
		}
		if provErr.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", provErr.StatusCode)
		}
		if !strings.Contains(provErr.Body, "access token expired") {
			t.Errorf("expected body to be captured, got %q", provErr.Body)
		}
	})

	t.Run("Empty Credential", func(t *testing.T) {
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should be made without a credential")
		}))

		if _, err := srv.ResolveIdentity(context.Background(), ""); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestRecentTracks(t *testing.T) {
	t.Run("Success Preserves Order", func(t *testing.T) {
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me/player/recently-played" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("limit"); got != "12" {
				t.Errorf("expected limit 12, got %s", got)
			}
			json.NewEncoder(w).Encode(SpotifyRecentlyPlayed{Items: []SpotifyPlayHistory{
				{Track: SpotifyTrack{URI: "spotify:track:aaa", Name: "A"}, PlayedAt: "2024-06-01T12:00:00Z"},
				{Track: SpotifyTrack{URI: "spotify:track:bbb", Name: "B"}, PlayedAt: "2024-06-01T11:00:00Z"},
				{Track: SpotifyTrack{URI: "spotify:track:ccc", Name: "C"}, PlayedAt: "2024-06-01T10:00:00Z"},
			}})
		}))

		tracks, err := srv.RecentTracks(context.Background(), "tok_abc", 12)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []models.TrackRef{"spotify:track:aaa", "spotify:track:bbb", "spotify:track:ccc"}
		if len(tracks) != len(want) {
			t.Fatalf("expected %d tracks, got %d", len(want), len(tracks))
		}
		for i, uri := range want {
			if tracks[i].URI != uri {
				t.Errorf("track %d: expected %s, got %s", i, uri, tracks[i].URI)
			}
		}
	})

	t.Run("Empty History", func(t *testing.T) {
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(SpotifyRecentlyPlayed{})
		}))

		_, err := srv.RecentTracks(context.Background(), "tok_abc", 30)
		if !errors.Is(err, shared.ErrNoRecentTracks) {
			t.Errorf("expected ErrNoRecentTracks, got %v", err)
		}

		var provErr *ProviderError
		if errors.As(err, &provErr) {
			t.Error("empty history must not be a provider error")
		}
	})

	t.Run("Limit Clamped", func(t *testing.T) {
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("limit"); got != "50" {
				t.Errorf("expected limit clamped to 50, got %s", got)
			}
			json.NewEncoder(w).Encode(SpotifyRecentlyPlayed{Items: []SpotifyPlayHistory{
				{Track: SpotifyTrack{URI: "spotify:track:aaa"}},
			}})
		}))

		if _, err := srv.RecentTracks(context.Background(), "tok_abc", 500); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestCreatePlaylist(t *testing.T) {
	srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/user42/playlists" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload["name"] != "Gym Mix" {
			t.Errorf("expected name Gym Mix, got %v", payload["name"])
		}
		if public, ok := payload["public"].(bool); !ok || public {
			t.Error("created playlist must default to private")
		}

		json.NewEncoder(w).Encode(SpotifyPlaylist{ID: "pl_99", Name: "Gym Mix"})
	}))

	handle, err := srv.CreatePlaylist(context.Background(), "tok_abc", "user42", "Gym Mix")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if handle.ID != "pl_99" || handle.Name != "Gym Mix" {
		t.Errorf("unexpected handle %+v", handle)
	}
}

func TestAddTracks(t *testing.T) {
	t.Run("Preserves Order", func(t *testing.T) {
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/pl_99/tracks" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}

			var payload struct {
				URIs []string `json:"uris"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode payload: %v", err)
			}

			want := []string{"spotify:track:aaa", "spotify:track:bbb"}
			for i, uri := range want {
				if payload.URIs[i] != uri {
					t.Errorf("uri %d: expected %s, got %s", i, uri, payload.URIs[i])
				}
			}

			w.WriteHeader(http.StatusCreated)
		}))

		uris := []models.TrackRef{"spotify:track:aaa", "spotify:track:bbb"}
		if err := srv.AddTracks(context.Background(), "tok_abc", "pl_99", uris); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Provider Failure", func(t *testing.T) {
		srv, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("insufficient scope"))
		}))

		err := srv.AddTracks(context.Background(), "tok_abc", "pl_99", []models.TrackRef{"spotify:track:aaa"})

		var provErr *ProviderError
		if !errors.As(err, &provErr) {
			t.Fatalf("expected *ProviderError, got %v", err)
		}
		if provErr.StatusCode != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", provErr.StatusCode)
		}
	})
}

func TestDoRequestTransport(t *testing.T) {
	newTransportService := func(t *testing.T, rt http.RoundTripper) *SpotifyService {
		t.Helper()
		srv, err := NewSpotifyService("test_client_id", "test_client_secret", "http://localhost:8080/cb")
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}
		srv.httpClient = &http.Client{Transport: rt}
		return srv
	}

	t.Run("Transport Error", func(t *testing.T) {
		srv := newTransportService(t, internaltest.NewMockRoundTripper(nil, errors.New("connection refused")))

		_, err := srv.ResolveIdentity(context.Background(), "tok_abc")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "request failed") {
			t.Errorf("expected wrapped transport error, got %v", err)
		}
	})

	t.Run("Unreadable Body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       &internaltest.FCloser{},
			Header:     make(http.Header),
		}
		srv := newTransportService(t, internaltest.NewMockRoundTripper(resp, nil))

		_, err := srv.ResolveIdentity(context.Background(), "tok_abc")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("expected decode error, got %v", err)
		}
	})
}
