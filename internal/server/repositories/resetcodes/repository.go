package resetcodes

import (
	"context"
	"time"

	"github.com/nileguide/api/internal/server/models"
)

// Repository is the reset-code half of the credential store contract.
// Every mutation is a single SQL statement, so each is atomic on its own;
// the service layer combines them in transactions where two must land
// together.
type Repository interface {
	// Create persists a new reset-code row.
	Create(ctx context.Context, code *models.ResetCode) error

	// ConsumeAllUsable marks every currently usable code of the account as
	// consumed. Called before issuing a new code so at most one usable code
	// exists at a time.
	ConsumeAllUsable(ctx context.Context, accountID string, now time.Time, maxAttempts int) error

	// FindUsableByDigest returns the most recently created usable code whose
	// stored hash equals digest, or common.ErrorNotFound. Digest equality is
	// the selector; recency ordering is a safety margin.
	FindUsableByDigest(ctx context.Context, accountID, digest string, now time.Time, maxAttempts int) (*models.ResetCode, error)

	// ChargeAttempt increments the attempt counter of the account's newest
	// usable code and stamps its last-attempt time. Charging when no usable
	// code exists is a no-op, not an error.
	ChargeAttempt(ctx context.Context, accountID string, now time.Time, maxAttempts int) error

	// MarkConsumed sets the consumed-at and last-attempt times of one code.
	MarkConsumed(ctx context.Context, id string, now time.Time) error
}
