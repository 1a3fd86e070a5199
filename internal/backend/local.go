package backend

import (
	"context"
	"errors"
	"sync"

	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/models"
	"github.com/medwaste/classify-be/internal/services"
)

// Local implements Backend on top of the user service and JWT session
// tokens. One Local instance represents one device's session with the
// backend, seeded from whatever token the device presented.
type Local struct {
	users    services.UserServiceProvider
	notifier *Notifier

	mu     sync.Mutex
	token  string
	userID string
}

// NewLocal creates a Local backend seeded with the given session token
// (may be empty).
func NewLocal(users services.UserServiceProvider, notifier *Notifier, token string) *Local {
	return &Local{users: users, notifier: notifier, token: token}
}

// CurrentSession resolves the seeded token to an identity. An absent,
// expired, or unparseable token resolves to no session rather than an
// error; backend failures are reported so callers can decide.
func (l *Local) CurrentSession(ctx context.Context) (*models.Identity, error) {
	l.mu.Lock()
	token := l.token
	l.mu.Unlock()

	if token == "" {
		return nil, nil
	}
	claims, err := auth.ValidateJWT(token)
	if err != nil {
		return nil, nil
	}

	// Tokens for the synthesized administrator have no backing account row
	// and resolve without touching storage.
	if claims.IsAdmin {
		identity := claims.Identity()
		return &identity, nil
	}

	user, err := l.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	identity := user.Identity()
	l.mu.Lock()
	l.userID = user.ID
	l.mu.Unlock()
	return &identity, nil
}

// OnIdentityChange forwards account-level changes affecting this session's
// user to fn.
func (l *Local) OnIdentityChange(fn func(identity *models.Identity)) Subscription {
	return l.notifier.Subscribe(func(userID string, identity *models.Identity) {
		l.mu.Lock()
		current := l.userID
		if current != "" && userID == current && identity == nil {
			// The account is gone; this session's token is dead weight.
			l.token = ""
			l.userID = ""
		}
		l.mu.Unlock()

		if current != "" && userID == current {
			fn(identity)
		}
	})
}

// SignInWithPassword authenticates against the user store and mints a fresh
// session token for this device.
func (l *Local) SignInWithPassword(ctx context.Context, email, password string) (models.Identity, error) {
	user, err := l.users.AuthenticateUser(ctx, email, password)
	if err != nil {
		return models.Identity{}, err
	}

	identity := user.Identity()
	token, err := auth.GenerateJWT(identity)
	if err != nil {
		return models.Identity{}, err
	}

	l.mu.Lock()
	l.token = token
	l.userID = user.ID
	l.mu.Unlock()
	return identity, nil
}

// SignUp creates an account. It does not authenticate the caller; a
// confirmation step is external to this backend.
func (l *Local) SignUp(ctx context.Context, email, password string) error {
	_, err := l.users.CreateUser(ctx, email, password)
	return err
}

// SignOut ends this device's session.
func (l *Local) SignOut(ctx context.Context) error {
	l.mu.Lock()
	l.token = ""
	l.userID = ""
	l.mu.Unlock()
	return nil
}

// Token returns the current session token, if any.
func (l *Local) Token() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.token
}
