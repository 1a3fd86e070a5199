// Package backend defines the seam to the identity-and-storage backend the
// session layer consumes. The production implementation is Local, backed by
// the service layer's user store and JWT session tokens; tests substitute
// fakes.
package backend

import (
	"context"

	"github.com/medwaste/classify-be/internal/models"
)

// Subscription is a handle to an identity-change registration. Unsubscribe
// must be called when the consumer goes away so the backend does not keep
// invoking a callback against a destroyed consumer.
type Subscription interface {
	Unsubscribe()
}

// Backend is the identity-and-storage surface consumed by the session
// manager. A nil identity from CurrentSession or a notification means
// "no session".
type Backend interface {
	CurrentSession(ctx context.Context) (*models.Identity, error)
	OnIdentityChange(fn func(identity *models.Identity)) Subscription
	SignInWithPassword(ctx context.Context, email, password string) (models.Identity, error)
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}
