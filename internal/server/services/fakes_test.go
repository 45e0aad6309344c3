package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nileguide/api/internal/dbx"
	"github.com/nileguide/api/internal/server/models"
	accountsrepo "github.com/nileguide/api/internal/server/repositories/accounts"
	resetcodesrepo "github.com/nileguide/api/internal/server/repositories/resetcodes"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeAccountsRepo struct {
	createOut *models.Account
	createErr error

	byEmailOut *models.Account
	byEmailErr error

	byIDOut *models.Account
	byIDErr error

	updateErr error

	// recorded arguments
	createdAccount  *models.Account
	byEmailArg      string
	byEmailActive   bool
	byIDActive      bool
	updatedID       string
	updatedHash     string
	updateCallCount int
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	f.createdAccount = a
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return a, nil
}

func (f *fakeAccountsRepo) GetByEmail(ctx context.Context, email string, onlyActive bool) (*models.Account, error) {
	f.byEmailArg = email
	f.byEmailActive = onlyActive
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string, onlyActive bool) (*models.Account, error) {
	f.byIDActive = onlyActive
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeAccountsRepo) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	f.updateCallCount++
	f.updatedID = id
	f.updatedHash = passwordHash
	return f.updateErr
}

type fakeResetCodesRepo struct {
	createErr     error
	consumeAllErr error
	findOut       *models.ResetCode
	findErr       error
	chargeErr     error
	markErr       error

	createdCode     *models.ResetCode
	consumeAllCalls int
	findDigest      string
	chargeCalls     int
	markedID        string
}

func (f *fakeResetCodesRepo) Create(ctx context.Context, code *models.ResetCode) error {
	f.createdCode = code
	return f.createErr
}

func (f *fakeResetCodesRepo) ConsumeAllUsable(ctx context.Context, accountID string, now time.Time, maxAttempts int) error {
	f.consumeAllCalls++
	return f.consumeAllErr
}

func (f *fakeResetCodesRepo) FindUsableByDigest(ctx context.Context, accountID, digest string, now time.Time, maxAttempts int) (*models.ResetCode, error) {
	f.findDigest = digest
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeResetCodesRepo) ChargeAttempt(ctx context.Context, accountID string, now time.Time, maxAttempts int) error {
	f.chargeCalls++
	return f.chargeErr
}

func (f *fakeResetCodesRepo) MarkConsumed(ctx context.Context, id string, now time.Time) error {
	f.markedID = id
	return f.markErr
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
	c *fakeResetCodesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository     { return m.a }
func (m *fakeRepoManager) ResetCodes(db dbx.DBTX) resetcodesrepo.Repository { return m.c }

var errBoom = errors.New("boom")

// fakeNotifier records outbound mail and optionally fails.
type fakeNotifier struct {
	sendErr error

	to      string
	subject string
	body    string
	calls   int
}

func (f *fakeNotifier) Send(ctx context.Context, to, subject, body string) error {
	f.calls++
	f.to, f.subject, f.body = to, subject, body
	return f.sendErr
}

func requireIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("want %v, got %v", want, err)
	}
}
