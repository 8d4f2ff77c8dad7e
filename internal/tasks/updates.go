package tasks

import (
	"fmt"

	"github.com/desertthunder/requeue/internal/models"
)

// ProgressUpdate represents a progress event during an orchestration.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	State   State  // State the orchestration is entering
	Message string // Human-readable message for display
	Data    any    // Optional state-specific data for advanced UIs
}

func resolveIdentityUpdate() ProgressUpdate {
	return ProgressUpdate{
		State:   StateIdentityResolved,
		Message: "Resolving Spotify identity...",
	}
}

func guardUpdate(userID string) ProgressUpdate {
	return ProgressUpdate{
		State:   StateGuardAcquired,
		Message: fmt.Sprintf("Checking for a previous run as %s...", userID),
	}
}

func fetchTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		State:   StateTracksFetched,
		Message: fmt.Sprintf("Fetching the last %d played tracks...", count),
	}
}

func createPlaylistUpdate(name string, tracks int) ProgressUpdate {
	return ProgressUpdate{
		State:   StatePlaylistCreated,
		Message: fmt.Sprintf("Creating playlist %q for %d tracks...", name, tracks),
	}
}

func populateUpdate(handle *models.PlaylistHandle, tracks int) ProgressUpdate {
	return ProgressUpdate{
		State:   StatePlaylistCreated,
		Message: fmt.Sprintf("Adding %d tracks to %s (ID: %s)...", tracks, handle.Name, handle.ID),
		Data:    handle,
	}
}

func populatedUpdate(handle *models.PlaylistHandle, tracks int) ProgressUpdate {
	return ProgressUpdate{
		State:   StatePopulated,
		Message: fmt.Sprintf("Playlist ready: %s (%d tracks)", handle.Name, tracks),
		Data:    handle,
	}
}
