package models

// Role is the closed set of account roles. It travels inside the session
// token as an opaque claim; capability checks belong at authorization points,
// never as ad-hoc string comparisons at call sites.
type Role string

const (
	RoleTourist Role = "tourist"
	RoleGuide   Role = "guide"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleTourist, RoleGuide, RoleAdmin:
		return true
	}
	return false
}

// CanManageAccounts reports whether the role may act on accounts other than
// its own. Only administrative tooling consults this today.
func (r Role) CanManageAccounts() bool {
	return r == RoleAdmin
}

func (r Role) String() string { return string(r) }
