package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("hunter2hunter2")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if digest == "hunter2hunter2" || digest == "" {
		t.Fatalf("digest must not echo the plaintext: %q", digest)
	}

	if !h.Verify("hunter2hunter2", digest) {
		t.Fatal("correct password must verify")
	}
	if h.Verify("wrong-password", digest) {
		t.Fatal("wrong password must not verify")
	}
}

func TestPasswordHasher_SaltedDigestsDiffer(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("same-input-1a")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := h.Hash("same-input-1a")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same input must differ (random salt)")
	}
}

func TestNewPasswordHasher_DefaultsCost(t *testing.T) {
	h := NewPasswordHasher(0)
	digest, err := h.Hash("abc12345")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	// bcrypt digests encode their cost; default cost is 10
	if !strings.HasPrefix(digest, "$2a$10$") {
		t.Fatalf("expected default-cost digest, got %q", digest)
	}
}
