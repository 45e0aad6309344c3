package accounts

import (
	"context"

	"github.com/nileguide/api/internal/server/models"
)

// Repository is the account half of the credential store contract.
//
// The onlyActive parameter makes the active/not-deleted predicate an
// explicit, visible part of each lookup instead of an invisible filter:
// authentication paths pass true and never see inactive or soft-deleted
// rows; callers that need to inspect account state pass false.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string, onlyActive bool) (*models.Account, error)
	GetByID(ctx context.Context, id string, onlyActive bool) (*models.Account, error)
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
}
