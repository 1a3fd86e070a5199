// Package session owns the current identity for one consumer of the
// identity backend and the transitions between its lifecycle states.
package session

import (
	"context"
	"sync"

	"github.com/medwaste/classify-be/internal/auth"
	"github.com/medwaste/classify-be/internal/backend"
	"github.com/medwaste/classify-be/internal/models"
	"github.com/rs/zerolog/log"
)

// State is the lifecycle phase of a Manager.
type State int

const (
	// Bootstrapping means the existing-session query has not resolved yet.
	Bootstrapping State = iota
	// Unauthenticated means no identity is present.
	Unauthenticated
	// Authenticated means a current identity is present.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Manager owns the current identity: it is the single writer, with explicit
// sign-in/up/out calls and asynchronous backend notifications both funneled
// through one apply path where the last write wins. Consumers re-read the
// identity through Current rather than caching it.
type Manager struct {
	backend backend.Backend
	admin   auth.AdminCredential

	mu       sync.Mutex
	state    State
	identity *models.Identity
	sub      backend.Subscription
	onChange func(identity *models.Identity)
}

// NewManager creates a Manager in the Bootstrapping state.
func NewManager(b backend.Backend, admin auth.AdminCredential) *Manager {
	return &Manager{backend: b, admin: admin, state: Bootstrapping}
}

// SetOnChange registers a listener invoked after every identity change
// (nil identity on sign-out). Register it before Bootstrap to observe the
// initial resolution.
func (m *Manager) SetOnChange(fn func(identity *models.Identity)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Bootstrap resolves any existing session and subscribes to identity-change
// notifications for the manager's remaining lifetime. A backend failure
// resolves to Unauthenticated rather than retrying indefinitely.
func (m *Manager) Bootstrap(ctx context.Context) {
	identity, err := m.backend.CurrentSession(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Session bootstrap failed, starting unauthenticated")
		identity = nil
	}
	m.apply(identity)

	sub := m.backend.OnIdentityChange(m.apply)
	m.mu.Lock()
	m.sub = sub
	m.mu.Unlock()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the current identity, if any.
func (m *Manager) Current() (models.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return models.Identity{}, false
	}
	return *m.identity, true
}

// SignIn authenticates the given pair. When it matches the bootstrap
// administrator credential the identity is synthesized locally and the
// backend is never contacted. Credential failures leave the current state
// untouched and are reported to the caller.
func (m *Manager) SignIn(ctx context.Context, email, password string) (models.Identity, error) {
	if m.admin.Match(email, password) {
		identity := m.admin.Identity()
		m.apply(&identity)
		return identity, nil
	}

	identity, err := m.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		return models.Identity{}, err
	}
	m.apply(&identity)
	return identity, nil
}

// SignUp creates an account. The caller stays in its current state; account
// confirmation happens outside this system.
func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	return m.backend.SignUp(ctx, email, password)
}

// SignOut clears the current identity. The synthesized administrator is
// cleared without a backend call; for everyone else the backend sign-out is
// invoked first, and local state is cleared regardless of its outcome.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	synthetic := m.identity != nil && m.identity.Synthetic()
	m.mu.Unlock()

	var err error
	if !synthetic {
		if err = m.backend.SignOut(ctx); err != nil {
			log.Warn().Err(err).Msg("Backend sign-out failed, clearing local session anyway")
		}
	}
	m.apply(nil)
	return err
}

// Close releases the identity-change subscription. The manager must not be
// used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	sub := m.sub
	m.sub = nil
	m.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

// apply is the single write path for the shared identity; notification
// callbacks and explicit call results both land here, last write wins.
func (m *Manager) apply(identity *models.Identity) {
	m.mu.Lock()
	if identity == nil {
		m.state = Unauthenticated
		m.identity = nil
	} else {
		id := *identity
		m.state = Authenticated
		m.identity = &id
	}
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(identity)
	}
}
