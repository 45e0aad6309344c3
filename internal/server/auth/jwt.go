// Package auth holds credential primitives: session token issue/verify,
// password hashing, and reset-code generation and digesting.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nileguide/api/internal/common"
	"github.com/nileguide/api/internal/server/models"
)

// Claims is the exact claim set carried by a session token:
// the account id (subject), email, and role. Nothing else is embedded.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Issuer mints and verifies HS256-signed session tokens. There is no refresh
// mechanism: a token is valid until its expiry and that is all.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the account and returns it together with the
// expiry instant, which is exactly issue time plus the configured TTL.
func (i *Issuer) Issue(account *models.Account) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: account.Email,
		Role:  account.Role.String(),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Verify parses a bearer token and returns its claims. It rejects tokens
// with a non-HMAC signing method, a bad signature, a past expiry, or a claim
// set that does not carry a subject and a known role.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Subject == "" || !models.Role(claims.Role).Valid() {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
