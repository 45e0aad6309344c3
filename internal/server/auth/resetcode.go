package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

// GenerateResetCode draws one value uniformly at random from [0, space) using
// the crypto/rand source and formats it zero-padded to the width of the code
// space. For the default space of 10^6 this yields "000000".."999999" with
// leading zeros significant. crypto/rand.Int is rejection-sampled, so no
// subrange is favored.
func GenerateResetCode(space int64) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(space))
	if err != nil {
		return "", fmt.Errorf("reset code generation: %w", err)
	}
	width := len(strconv.FormatInt(space-1, 10))
	return fmt.Sprintf("%0*d", width, n.Int64()), nil
}

// ResetCodeDigest computes the stored representation of a reset code:
// hex(SHA-256(accountID ":" code ":" pepper)). The account id binds the
// digest to its owner, the pepper keeps offline brute force out of reach of
// anyone holding only the database.
func ResetCodeDigest(accountID, code, pepper string) string {
	sum := sha256.Sum256([]byte(accountID + ":" + code + ":" + pepper))
	return hex.EncodeToString(sum[:])
}

// DigestsEqual compares two digest strings in constant time. The SQL
// equality used by the store cannot be assumed timing-safe, so callers
// re-check matches through this before trusting them.
func DigestsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
