package auth

import (
	"crypto/subtle"

	"github.com/medwaste/classify-be/internal/models"
)

// AdminCredential is the configured bootstrap administrator pair. A sign-in
// matching it yields a locally synthesized administrator identity without
// any backend call.
type AdminCredential struct {
	Email    string
	Password string
}

// Match compares the pair in constant time. An empty pair never matches, so
// the bootstrap administrator can be disabled through configuration.
func (c AdminCredential) Match(email, password string) bool {
	if c.Email == "" || c.Password == "" {
		return false
	}
	e := subtle.ConstantTimeCompare([]byte(c.Email), []byte(email))
	p := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password))
	return e == 1 && p == 1
}

// Identity returns the synthesized administrator identity.
func (c AdminCredential) Identity() models.Identity {
	return models.Identity{
		ID:              models.LocalAdminID,
		Email:           c.Email,
		IsAdministrator: true,
	}
}
