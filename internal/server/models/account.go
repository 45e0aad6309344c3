package models

import "time"

// Account is a registered user of the consumer application. Email is stored
// normalized (trimmed, lowercase) and is unique at the database level.
//
// Inactive or soft-deleted accounts are authentication-opaque: every lookup
// on an authentication path treats them the same as a missing row.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Nationality  string
	Role         Role
	IsActive     bool
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Authenticatable reports whether the account may pass authentication.
func (a *Account) Authenticatable() bool {
	return a.IsActive && a.DeletedAt == nil
}
