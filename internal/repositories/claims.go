package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/requeue/internal/models"
	"github.com/desertthunder/requeue/internal/shared"
)

// ClaimRepository persists idempotency claims in SQLite.
//
// A TTL of zero keeps claims until the row is removed externally.
type ClaimRepository struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewClaimRepository creates a ClaimRepository with the given claim TTL.
func NewClaimRepository(db *sql.DB, ttl time.Duration) *ClaimRepository {
	return &ClaimRepository{db: db, ttl: ttl, now: time.Now}
}

// TryAcquire atomically claims the fingerprint, implementing
// guard.DuplicateRequestGuard. Expired claims for the fingerprint are
// removed inside the same transaction, so a retry after TTL expiry wins the
// row back without a separate sweep.
func (r *ClaimRepository) TryAcquire(fingerprint string) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := r.now().UTC()

	if _, err := tx.Exec(
		"DELETE FROM claims WHERE fingerprint = ? AND expires_at IS NOT NULL AND expires_at <= ?",
		fingerprint, now,
	); err != nil {
		return false, fmt.Errorf("failed to evict expired claim: %w", err)
	}

	claim := models.Claim{
		ID:          shared.GenerateID(),
		Fingerprint: fingerprint,
		CreatedAt:   now,
	}

	var expiresAt any
	if r.ttl > 0 {
		claim.ExpiresAt = now.Add(r.ttl)
		expiresAt = claim.ExpiresAt
	}

	_, err = tx.Exec(
		"INSERT INTO claims (id, fingerprint, created_at, expires_at) VALUES (?, ?, ?, ?)",
		claim.ID, claim.Fingerprint, claim.CreatedAt, expiresAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit claim: %w", err)
	}

	return true, nil
}

// Get retrieves the live claim for a fingerprint.
func (r *ClaimRepository) Get(fingerprint string) (*models.Claim, error) {
	query := `
		SELECT id, fingerprint, created_at, expires_at
		FROM claims
		WHERE fingerprint = ?
	`

	var (
		claim     models.Claim
		expiresAt sql.NullTime
	)

	err := r.db.QueryRow(query, fingerprint).Scan(&claim.ID, &claim.Fingerprint, &claim.CreatedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("claim not found: %s", fingerprint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query claim: %w", err)
	}

	if expiresAt.Valid {
		claim.ExpiresAt = expiresAt.Time
	}

	return &claim, nil
}

// Sweep deletes all expired claims and returns the number removed.
func (r *ClaimRepository) Sweep() (int, error) {
	result, err := r.db.Exec(
		"DELETE FROM claims WHERE expires_at IS NOT NULL AND expires_at <= ?",
		r.now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep claims: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count swept claims: %w", err)
	}

	return int(removed), nil
}
