// Package resetcodes provides a PostgreSQL-backed repository for password
// reset codes. Terminal states (consumed, expired, exhausted) are logical:
// rows are never deleted here, only superseded or consumed.
package resetcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nileguide/api/internal/common"
	"github.com/nileguide/api/internal/dbx"
	"github.com/nileguide/api/internal/server/models"
)

// usableFilter selects codes that are unconsumed, unexpired, and below the
// attempt ceiling. $1 is the account id, $2 the reference time, $3 the
// ceiling in every query that embeds it.
const usableFilter = `
		account_id = $1
		AND consumed_at IS NULL
		AND expires_at > $2
		AND attempt_count < $3`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new reset-code row.
func (r *PostgresRepository) Create(ctx context.Context, code *models.ResetCode) error {
	query := `
		INSERT INTO password_reset_codes (id, account_id, code_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		code.ID, code.AccountID, code.CodeHash, code.ExpiresAt,
	).Scan(&code.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ConsumeAllUsable supersedes every usable code of the account in one
// statement.
func (r *PostgresRepository) ConsumeAllUsable(ctx context.Context, accountID string, now time.Time, maxAttempts int) error {
	query := `
		UPDATE password_reset_codes SET consumed_at = $2
		WHERE ` + usableFilter
	if _, err := r.db.ExecContext(ctx, query, accountID, now, maxAttempts); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindUsableByDigest returns the newest usable code with the given hash,
// or common.ErrorNotFound.
func (r *PostgresRepository) FindUsableByDigest(ctx context.Context, accountID, digest string, now time.Time, maxAttempts int) (*models.ResetCode, error) {
	query := `
		SELECT id, account_id, code_hash, created_at, expires_at,
		       consumed_at, attempt_count, last_attempt_at
		FROM password_reset_codes
		WHERE code_hash = $4 AND ` + usableFilter + `
		ORDER BY created_at DESC
		LIMIT 1
	`
	code := &models.ResetCode{}
	err := r.db.QueryRowContext(ctx, query, accountID, now, maxAttempts, digest).Scan(
		&code.ID, &code.AccountID, &code.CodeHash, &code.CreatedAt, &code.ExpiresAt,
		&code.ConsumedAt, &code.AttemptCount, &code.LastAttemptAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return code, nil
}

// ChargeAttempt charges one failed guess against the newest usable code.
// The increment targets whichever code is currently live regardless of what
// string the caller submitted, so wrong guesses still deplete the budget of
// the real code. Zero affected rows means no usable code existed; that is
// not an error.
func (r *PostgresRepository) ChargeAttempt(ctx context.Context, accountID string, now time.Time, maxAttempts int) error {
	query := `
		UPDATE password_reset_codes
		SET attempt_count = attempt_count + 1, last_attempt_at = $2
		WHERE id = (
			SELECT id FROM password_reset_codes
			WHERE ` + usableFilter + `
			ORDER BY created_at DESC
			LIMIT 1
		)
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, now, maxAttempts); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// MarkConsumed finalizes a code after a successful password reset.
func (r *PostgresRepository) MarkConsumed(ctx context.Context, id string, now time.Time) error {
	query := `
		UPDATE password_reset_codes
		SET consumed_at = $2, last_attempt_at = $2
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, now); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
