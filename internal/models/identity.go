package models

// LocalAdminID is the sentinel id carried by the locally synthesized
// administrator identity. It never exists in the users table.
const LocalAdminID = "local-admin"

// Identity represents the principal currently using the system: either a
// real account resolved by the identity backend, or the locally synthesized
// administrator.
type Identity struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	IsAdministrator bool   `json:"isAdministrator"`
}

// Synthetic reports whether this identity was created locally and has no
// backing account.
func (i Identity) Synthetic() bool {
	return i.ID == LocalAdminID
}
