// package models defines the data model for the playlist capture service
package models

import (
	"fmt"
	"strings"
	"time"
)

// OutcomeKind classifies a terminal Outcome as success or error.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeError   OutcomeKind = "error"
)

// FailureReason tags the terminal failure state of an orchestration.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonValidation
	ReasonAuth
	ReasonDuplicate
	ReasonNoTracks
	ReasonProvider
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonValidation:
		return "validation"
	case ReasonAuth:
		return "auth"
	case ReasonDuplicate:
		return "duplicate_request"
	case ReasonNoTracks:
		return "no_tracks_found"
	case ReasonProvider:
		return "provider_failure"
	default:
		return ""
	}
}

// CreationRequest carries the caller-supplied parameters for one playlist creation.
type CreationRequest struct {
	Credential   string `json:"accessToken"`
	TrackCount   int    `json:"numberOfSongs"`
	PlaylistName string `json:"playlistName"`
}

// Validate checks that all three fields are present before any provider call is made.
func (r CreationRequest) Validate() error {
	if strings.TrimSpace(r.Credential) == "" {
		return fmt.Errorf("missing access token")
	}
	if r.TrackCount <= 0 {
		return fmt.Errorf("number of songs must be a positive integer")
	}
	if strings.TrimSpace(r.PlaylistName) == "" {
		return fmt.Errorf("missing playlist name")
	}
	return nil
}

// TrackRef is an opaque provider URI identifying a single track (e.g. "spotify:track:...").
//
// Produced by the recent-tracks fetch and consumed unmodified, in order, by the populate call.
type TrackRef string

// PlaylistHandle identifies a playlist created on the provider.
type PlaylistHandle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Outcome is the single terminal result of an orchestration.
type Outcome struct {
	Message string        `json:"message"`
	Kind    OutcomeKind   `json:"kind"`
	Reason  FailureReason `json:"-"`
}

// StatusCode maps the outcome onto an HTTP status:
// 200 for success, 400 for validation/duplicate/no-tracks, 500 for provider or auth failures.
func (o Outcome) StatusCode() int {
	switch o.Reason {
	case ReasonNone:
		return 200
	case ReasonValidation, ReasonDuplicate, ReasonNoTracks:
		return 400
	default:
		return 500
	}
}

// Claim records an acquired idempotency fingerprint.
//
// A zero ExpiresAt means the claim never expires (process- or store-lifetime).
type Claim struct {
	ID          string
	Fingerprint string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the claim's TTL has elapsed at the given instant.
func (c Claim) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Track holds display metadata for a recently played track, alongside its URI.
type Track struct {
	URI      TrackRef
	Title    string
	Artist   string
	Album    string
	Duration int // Duration in milliseconds
	PlayedAt time.Time
}
