// Package accounts provides a PostgreSQL-backed repository for user accounts.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nileguide/api/internal/common"
	"github.com/nileguide/api/internal/dbx"
	"github.com/nileguide/api/internal/server/models"
)

// pgUniqueViolation is the PostgreSQL error code raised when an insert hits
// the unique index on email.
const pgUniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account. A unique-index violation on email is
// reported as common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, email, password_hash, full_name, nationality, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.PasswordHash,
		account.FullName, account.Nationality, account.Role.String(), account.IsActive,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// GetByEmail returns the account with the given normalized email, or
// common.ErrorNotFound. With onlyActive set, inactive and soft-deleted rows
// are filtered at the query so they are indistinguishable from missing ones.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string, onlyActive bool) (*models.Account, error) {
	query := selectAccount + ` WHERE email = $1`
	if onlyActive {
		query += activePredicate
	}
	return r.getOne(ctx, query, email)
}

// GetByID returns the account with the given id, or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string, onlyActive bool) (*models.Account, error) {
	query := selectAccount + ` WHERE id = $1`
	if onlyActive {
		query += activePredicate
	}
	return r.getOne(ctx, query, id)
}

// UpdatePasswordHash replaces the account's password hash in a single
// atomic statement.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	query := `
		UPDATE accounts SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const selectAccount = `
		SELECT id, email, password_hash, full_name, nationality, role,
		       is_active, deleted_at, created_at, updated_at
		FROM accounts`

const activePredicate = ` AND is_active AND deleted_at IS NULL`

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	account := &models.Account{}
	var role string

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID, &account.Email, &account.PasswordHash,
		&account.FullName, &account.Nationality, &role,
		&account.IsActive, &account.DeletedAt, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.Role = models.Role(role)
	return account, nil
}
