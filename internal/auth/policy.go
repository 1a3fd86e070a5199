package auth

import "github.com/medwaste/classify-be/internal/models"

// Role is the access level derived from an identity.
type Role int

const (
	// RoleStandard sees and mutates only records it owns.
	RoleStandard Role = iota
	// RoleAdministrator sees every record but may not bulk-clear the
	// shared history table.
	RoleAdministrator
)

func (r Role) String() string {
	if r == RoleAdministrator {
		return "administrator"
	}
	return "standard"
}

// RoleOf derives the role for an identity. Administrator status follows the
// IsAdministrator flag alone, never the email text.
func RoleOf(identity models.Identity) Role {
	if identity.IsAdministrator {
		return RoleAdministrator
	}
	return RoleStandard
}
