// Package services contains server-side business logic. This file implements
// AuthService, which handles account registration, login, and profile lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nileguide/api/internal/common"
	"github.com/nileguide/api/internal/server/auth"
	"github.com/nileguide/api/internal/server/models"
	"github.com/nileguide/api/internal/server/repositories/repomanager"
)

// Session bundles a signed access token with its expiry and the identity it
// was minted for.
type Session struct {
	Token     string
	ExpiresAt time.Time
	AccountID string
	Role      models.Role
}

// AuthService provides credential-related operations:
// - Register: create accounts
// - Login: verify credentials and mint a session token
// - Profile: resolve the account behind a verified token
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	issuer      *auth.Issuer
}

// NewAuthService constructs an AuthService over the given pool, repositories,
// and token issuer.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, issuer *auth.Issuer) *AuthService {
	return &AuthService{db: db, repomanager: m, hasher: hasher, issuer: issuer}
}

// normalizeEmail canonicalizes an email address before any lookup or insert,
// so the same mailbox never yields two accounts.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterParams carries validated registration input.
type RegisterParams struct {
	Email       string
	Password    string
	FullName    string
	Nationality string
}

// Register creates a new tourist account and signs it in. A duplicate email
// is reported as common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(params.Email),
		PasswordHash: hash,
		FullName:     params.FullName,
		Nationality:  params.Nationality,
		Role:         models.RoleTourist,
		IsActive:     true,
	}

	repo := s.repomanager.Accounts(s.db)
	created, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	token, expiresAt, err := s.issuer.Issue(created)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, ExpiresAt: expiresAt, AccountID: created.ID, Role: created.Role}, nil
}

// Login verifies the credentials and mints a session token. Every failure
// mode collapses into common.ErrorUnauthorized so callers cannot tell a
// missing account from a wrong password or a deactivated one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, normalizeEmail(email), false)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	if !account.Authenticatable() {
		return nil, common.ErrorUnauthorized
	}

	token, expiresAt, err := s.issuer.Issue(account)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, ExpiresAt: expiresAt, AccountID: account.ID, Role: account.Role}, nil
}

// Profile resolves the account identified by a verified token subject.
// A vanished or deactivated account reads as common.ErrorUnauthorized, the
// same as a bad token.
func (s *AuthService) Profile(ctx context.Context, accountID string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByID(ctx, accountID, true)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return account, nil
}
