// This file implements ResetService, the password reset state machine:
// issuing one-time codes, verifying guesses, and consuming a code to set a
// new password.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nileguide/api/internal/common"
	"github.com/nileguide/api/internal/dbx"
	"github.com/nileguide/api/internal/logging"
	"github.com/nileguide/api/internal/server/auth"
	"github.com/nileguide/api/internal/server/email"
	"github.com/nileguide/api/internal/server/models"
	"github.com/nileguide/api/internal/server/repositories/repomanager"
)

// ResetService drives the password reset flow. All failures on the guess
// path collapse into common.ErrorInvalidCode so callers learn nothing about
// which codes or accounts exist.
type ResetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	notifier    email.Notifier
	logger      logging.Logger

	pepper      string
	codeTTL     time.Duration
	codeSpace   int64
	maxAttempts int

	now func() time.Time
}

// NewResetService constructs a ResetService with the given code policy.
func NewResetService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher,
	notifier email.Notifier, logger logging.Logger,
	pepper string, codeTTL time.Duration, codeSpace int64, maxAttempts int) *ResetService {
	return &ResetService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		notifier:    notifier,
		logger:      logger,
		pepper:      pepper,
		codeTTL:     codeTTL,
		codeSpace:   codeSpace,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// RequestCode issues a fresh reset code for the account behind the email and
// mails it out. An unknown or inactive email is not an error and leaves no
// trace; the caller's response is identical either way.
func (s *ResetService) RequestCode(ctx context.Context, emailAddr string) error {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, normalizeEmail(emailAddr), true)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}

	code, err := auth.GenerateResetCode(s.codeSpace)
	if err != nil {
		return common.ErrorInternal
	}
	now := s.now()

	record := &models.ResetCode{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		CodeHash:  auth.ResetCodeDigest(account.ID, code, s.pepper),
		ExpiresAt: now.Add(s.codeTTL),
	}

	// Superseding older codes and inserting the new one happen atomically,
	// so there is never more than one live code per account.
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.ResetCodes(tx)
		if err := repoTx.ConsumeAllUsable(ctx, account.ID, now, s.maxAttempts); err != nil {
			return err
		}
		return repoTx.Create(ctx, record)
	}); err != nil {
		return common.ErrorInternal
	}

	subject := "Your password reset code"
	if err := s.notifier.Send(ctx, account.Email, subject, email.ResetCodeMessage(code, s.codeTTL)); err != nil {
		s.logger.Error(ctx, "reset code delivery failed", "account_id", account.ID, "error", err)
		return common.ErrorInternal
	}
	return nil
}

// VerifyCode reports whether the code currently unlocks a reset for the
// email. It never advances the state machine on success, so a client may
// pre-check a code and still consume it afterwards.
func (s *ResetService) VerifyCode(ctx context.Context, emailAddr, code string) error {
	_, _, err := s.matchCode(ctx, emailAddr, code)
	return err
}

// ConsumeCode sets a new password and burns the code, atomically. Reusing
// the current password is rejected before anything is written, and the
// rejected attempt does not touch the code.
func (s *ResetService) ConsumeCode(ctx context.Context, emailAddr, code, newPassword string) error {
	account, record, err := s.matchCode(ctx, emailAddr, code)
	if err != nil {
		return err
	}

	if s.hasher.Verify(newPassword, account.PasswordHash) {
		return common.ErrorPasswordReuse
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	now := s.now()
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Accounts(tx).UpdatePasswordHash(ctx, account.ID, hash); err != nil {
			return err
		}
		return s.repomanager.ResetCodes(tx).MarkConsumed(ctx, record.ID, now)
	}); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// matchCode resolves the account and its live code for a guess. Any miss,
// whether the email is unknown, no code is live, or the guess is wrong,
// comes back as common.ErrorInvalidCode; a wrong guess against an account
// with a live code also charges one attempt against it.
func (s *ResetService) matchCode(ctx context.Context, emailAddr, code string) (*models.Account, *models.ResetCode, error) {
	accountRepo := s.repomanager.Accounts(s.db)
	account, err := accountRepo.GetByEmail(ctx, normalizeEmail(emailAddr), true)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorInvalidCode
		}
		return nil, nil, common.ErrorInternal
	}

	digest := auth.ResetCodeDigest(account.ID, code, s.pepper)
	now := s.now()

	codeRepo := s.repomanager.ResetCodes(s.db)
	record, err := codeRepo.FindUsableByDigest(ctx, account.ID, digest, now, s.maxAttempts)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// The miss still costs the account's live code one attempt,
			// whichever code that is.
			if chargeErr := codeRepo.ChargeAttempt(ctx, account.ID, now, s.maxAttempts); chargeErr != nil {
				return nil, nil, common.ErrorInternal
			}
			return nil, nil, common.ErrorInvalidCode
		}
		return nil, nil, common.ErrorInternal
	}

	if !auth.DigestsEqual(record.CodeHash, digest) {
		return nil, nil, common.ErrorInvalidCode
	}
	return account, record, nil
}
