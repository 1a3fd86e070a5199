package backend

import (
	"sync"

	"github.com/medwaste/classify-be/internal/models"
)

// Notifier fans account-level identity changes out to subscribers. The user
// service publishes into it; each Local backend subscribes and forwards
// only the changes affecting its own session.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(userID string, identity *models.Identity)
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(userID string, identity *models.Identity))}
}

// Publish notifies every subscriber that the given user's identity changed.
// A nil identity means the user's sessions ended (deletion or forced
// sign-out). Callbacks run outside the notifier lock.
func (n *Notifier) Publish(userID string, identity *models.Identity) {
	n.mu.Lock()
	subs := make([]func(string, *models.Identity), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(userID, identity)
	}
}

// Subscribe registers a callback for all identity changes.
func (n *Notifier) Subscribe(fn func(userID string, identity *models.Identity)) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn
	return &notifierSub{notifier: n, id: id}
}

type notifierSub struct {
	notifier *Notifier
	id       int
}

func (s *notifierSub) Unsubscribe() {
	s.notifier.mu.Lock()
	defer s.notifier.mu.Unlock()
	delete(s.notifier.subs, s.id)
}
