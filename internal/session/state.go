package session

import (
	"sync"

	"github.com/aussiebroadwan/devhub/internal/domain"
)

// Listener receives the current user, nil when signed out.
type Listener func(*domain.User)

// State holds the current user and broadcasts every change to its
// subscribers. Deliveries are serialized: each listener sees every published
// value in publication order. Listeners must not call Publish or Subscribe.
type State struct {
	// deliver serializes Publish and Subscribe so that deliveries never
	// interleave.
	deliver sync.Mutex

	mu        sync.RWMutex
	current   *domain.User
	nextID    uint64
	listeners []subscription
}

type subscription struct {
	id uint64
	fn Listener
}

// NewState returns a State holding initial (which may be nil).
func NewState(initial *domain.User) *State {
	return &State{current: initial}
}

// Current returns the most recently published user.
func (s *State) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Publish replaces the current user and delivers it to every subscriber.
func (s *State) Publish(u *domain.User) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.current = u
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(u)
	}
}

// Subscribe registers fn and immediately delivers the current user to it.
// The returned function removes the subscription; it is safe to call more
// than once and from inside a listener.
func (s *State) Subscribe(fn Listener) (unsubscribe func()) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (s *State) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}
