package models

import "time"

// ResetCode is one password-reset code issued to an account. Only a peppered
// hash of the code is stored; the raw 6-digit value is sent out-of-band and
// never persisted.
//
// There is no status column. The terminal states are derived:
// consumed (ConsumedAt set), expired (ExpiresAt in the past), and exhausted
// (AttemptCount at the ceiling). Rows are never deleted except by the
// account FK cascade.
type ResetCode struct {
	ID            string
	AccountID     string
	CodeHash      string
	CreatedAt     time.Time
	ExpiresAt     time.Time
	ConsumedAt    *time.Time
	AttemptCount  int
	LastAttemptAt *time.Time
}

// Usable reports whether the code can still be verified or consumed:
// unconsumed, unexpired, and with attempts below the ceiling.
func (c *ResetCode) Usable(now time.Time, maxAttempts int) bool {
	return c.ConsumedAt == nil && c.ExpiresAt.After(now) && c.AttemptCount < maxAttempts
}
