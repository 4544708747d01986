package models

// Principal is the authenticated caller resolved from a bearer token.
// User and provider IDs come from different tables, so ownership checks
// must compare the role as well as the ID.
type Principal struct {
	ID    uint
	Role  Role
	Email string
}

func (p Principal) IsUser(id uint) bool {
	return p.Role == RoleUser && p.ID == id
}

func (p Principal) IsProvider(id uint) bool {
	return p.Role == RoleProvider && p.ID == id
}
