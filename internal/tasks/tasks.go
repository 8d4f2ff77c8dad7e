// package tasks implements the playlist creation orchestration.
//
// The core abstraction is CreationEngine, which sequences identity
// resolution, guard acquisition, the recent-tracks fetch, playlist creation,
// and population into a single terminal outcome. The engine emits progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/requeue/internal/guard"
	"github.com/desertthunder/requeue/internal/models"
	"github.com/desertthunder/requeue/internal/services"
	"github.com/desertthunder/requeue/internal/shared"
)

// State enumerates the orchestration's states in transition order.
type State int

const (
	StateIdle State = iota
	StateIdentityResolved
	StateGuardAcquired
	StateTracksFetched
	StatePlaylistCreated
	StatePopulated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIdentityResolved:
		return "identity_resolved"
	case StateGuardAcquired:
		return "guard_acquired"
	case StateTracksFetched:
		return "tracks_fetched"
	case StatePlaylistCreated:
		return "playlist_created"
	case StatePopulated:
		return "populated"
	case StateFailed:
		return "failed"
	default:
		return ""
	}
}

// CreationEngine orchestrates one end-to-end playlist creation per request.
//
// The five provider-facing steps are strictly sequential; the guard is the
// only shared mutable resource among concurrent orchestrations.
type CreationEngine struct {
	provider services.Provider
	guard    guard.DuplicateRequestGuard
	logger   *log.Logger
}

// NewCreationEngine creates a CreationEngine with the provided collaborators.
func NewCreationEngine(provider services.Provider, g guard.DuplicateRequestGuard, logger *log.Logger) *CreationEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CreationEngine{provider: provider, guard: g, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls the sequence.
func (e *CreationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// fail logs the failure with its full detail and produces the terminal error outcome.
//
// Callers only ever see the generic message; provider bodies stay in the logs.
func (e *CreationEngine) fail(reason models.FailureReason, message string, err error) *models.Outcome {
	kv := []any{"reason", reason.String()}
	var provErr *services.ProviderError
	if errors.As(err, &provErr) {
		kv = append(kv, "status", provErr.StatusCode, "endpoint", provErr.Endpoint, "body", provErr.Body)
	} else if err != nil {
		kv = append(kv, "error", err)
	}
	e.logger.Error("playlist creation failed", kv...)

	return &models.Outcome{Message: message, Kind: models.OutcomeError, Reason: reason}
}

// Create runs the playlist creation sequence and returns exactly one Outcome,
// regardless of which transition produced it.
//
// No step retries; any failure terminates the sequence immediately. Partial
// side effects (a created but empty playlist) are surfaced as an error and
// not rolled back.
func (e *CreationEngine) Create(ctx context.Context, req models.CreationRequest, progress chan<- ProgressUpdate) *models.Outcome {
	if err := req.Validate(); err != nil {
		return e.fail(models.ReasonValidation, fmt.Sprintf("Missing required data: %v", err), err)
	}

	e.sendProgress(progress, resolveIdentityUpdate())

	userID, err := e.provider.ResolveIdentity(ctx, req.Credential)
	if err != nil {
		return e.fail(models.ReasonAuth, "Failed to create playlist. Please try again.", err)
	}

	e.logger.Info("identity resolved", "user", userID)
	e.sendProgress(progress, guardUpdate(userID))

	fingerprint := guard.Fingerprint(userID, req.PlaylistName)

	acquired, err := e.guard.TryAcquire(fingerprint)
	if err != nil {
		return e.fail(models.ReasonProvider, "Failed to create playlist. Please try again.", err)
	}
	if !acquired {
		return e.fail(models.ReasonDuplicate, "Playlist has already been created", shared.ErrDuplicateRequest)
	}

	e.sendProgress(progress, fetchTracksUpdate(req.TrackCount))

	tracks, err := e.provider.RecentTracks(ctx, req.Credential, req.TrackCount)
	if err != nil {
		if errors.Is(err, shared.ErrNoRecentTracks) {
			return e.fail(models.ReasonNoTracks, "No recent tracks found", err)
		}
		return e.fail(models.ReasonProvider, "Failed to create playlist. Please try again.", err)
	}

	uris := make([]models.TrackRef, len(tracks))
	for i, track := range tracks {
		uris[i] = track.URI
	}

	e.sendProgress(progress, createPlaylistUpdate(req.PlaylistName, len(uris)))

	handle, err := e.provider.CreatePlaylist(ctx, req.Credential, userID, req.PlaylistName)
	if err != nil {
		return e.fail(models.ReasonProvider, "Failed to create playlist. Please try again.", err)
	}

	e.logger.Info("playlist created", "id", handle.ID, "name", handle.Name)
	e.sendProgress(progress, populateUpdate(handle, len(uris)))

	if err := e.provider.AddTracks(ctx, req.Credential, handle.ID, uris); err != nil {
		return e.fail(models.ReasonProvider, "Failed to create playlist. Please try again.", err)
	}

	e.sendProgress(progress, populatedUpdate(handle, len(uris)))
	e.logger.Info("playlist populated", "id", handle.ID, "tracks", len(uris))

	return &models.Outcome{Message: "Playlist created successfully!", Kind: models.OutcomeSuccess, Reason: models.ReasonNone}
}
