// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/desertthunder/requeue/internal/models"
)

// MockProvider is a configurable test double for the provider interface that
// counts calls per operation.
type MockProvider struct {
	mu sync.Mutex

	UserID string
	Tracks []models.Track
	Handle *models.PlaylistHandle

	ResolveErr error
	RecentErr  error
	CreateErr  error
	AddErr     error

	ResolveCalls int
	RecentCalls  int
	CreateCalls  int
	AddCalls     int

	AddedURIs []models.TrackRef
}

func (m *MockProvider) ResolveIdentity(ctx context.Context, credential string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveCalls++
	if m.ResolveErr != nil {
		return "", m.ResolveErr
	}
	return m.UserID, nil
}

func (m *MockProvider) RecentTracks(ctx context.Context, credential string, limit int) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecentCalls++
	if m.RecentErr != nil {
		return nil, m.RecentErr
	}
	return m.Tracks, nil
}

func (m *MockProvider) CreatePlaylist(ctx context.Context, credential, userID, name string) (*models.PlaylistHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.Handle != nil {
		return m.Handle, nil
	}
	return &models.PlaylistHandle{ID: "pl_mock", Name: name}, nil
}

func (m *MockProvider) AddTracks(ctx context.Context, credential, playlistID string, uris []models.TrackRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddCalls++
	if m.AddErr != nil {
		return m.AddErr
	}
	m.AddedURIs = append([]models.TrackRef(nil), uris...)
	return nil
}

func (m *MockProvider) Name() string { return "mock" }

// MockGuard is a test double for guard.DuplicateRequestGuard with scripted results.
type MockGuard struct {
	Acquired bool
	Err      error
	Calls    int
}

func (g *MockGuard) TryAcquire(fingerprint string) (bool, error) {
	g.Calls++
	return g.Acquired, g.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading a response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)
