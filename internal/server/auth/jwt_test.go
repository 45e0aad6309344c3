package auth

import (
	"testing"
	"time"

	"github.com/nileguide/api/internal/common"
	"github.com/nileguide/api/internal/server/models"
)

func testAccount() *models.Account {
	return &models.Account{
		ID:    "acc-1",
		Email: "alice@example.com",
		Role:  models.RoleTourist,
	}
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("super-secret", time.Hour)

	tok, _, err := issuer.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "acc-1" {
		t.Fatalf("subject mismatch: got %q", claims.Subject)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("email mismatch: got %q", claims.Email)
	}
	if claims.Role != "tourist" {
		t.Fatalf("role mismatch: got %q", claims.Role)
	}
}

func TestIssue_ExpiryEqualsIssueTimePlusTTL(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewIssuer("secret", 30*time.Minute)
	issuer.now = func() time.Time { return fixed }

	_, expiresAt, err := issuer.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if want := fixed.Add(30 * time.Minute); !expiresAt.Equal(want) {
		t.Fatalf("expiry mismatch: got %v want %v", expiresAt, want)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("secret", -1*time.Second)
	tok, _, err := issuer.Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = issuer.Verify(tok)
	if err != common.ErrTokenExpired {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewIssuer("secret-a", time.Hour).Issue(testAccount())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewIssuer("secret-b", time.Hour).Verify(tok)
	if err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer("secret", time.Hour).Verify("not.a.token")
	if err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_UnknownRoleRejected(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("secret", time.Hour)
	account := testAccount()
	account.Role = models.Role("superuser")

	tok, _, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := issuer.Verify(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken for unknown role, got %v", err)
	}
}
