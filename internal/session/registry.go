package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/cart"
	"github.com/slerbakk/storefront/internal/toast"
)

const (
	// DefaultTTL is how long an idle session is kept before it expires
	DefaultTTL = 30 * time.Minute

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = time.Minute
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one visitor's storefront state: their cart and their toasts.
type Session struct {
	ID       string
	Cart     *cart.Store
	Toasts   *toast.Queue
	lastSeen time.Time
}

// Registry keeps sessions in memory. Nothing survives a restart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	clock    clockwork.Clock
	log      logrus.FieldLogger

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

// NewRegistry creates a registry and starts its cleanup loop. A nil clock
// means the real clock.
func NewRegistry(ttl time.Duration, clock clockwork.Clock, log logrus.FieldLogger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	r := &Registry{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		clock:       clock,
		log:         log,
		stopCleanup: make(chan struct{}),
	}

	r.wg.Add(1)
	go r.cleanupLoop()

	return r
}

// cleanupLoop periodically drops idle sessions
func (r *Registry) cleanupLoop() {
	defer r.wg.Done()

	ticker := r.clock.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			r.expireSessions()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *Registry) expireSessions() {
	now := r.clock.Now()

	r.mu.Lock()
	expired := make([]*Session, 0)
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) >= r.ttl {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Toasts.Clear()
	}
	if len(expired) > 0 {
		r.log.WithField("count", len(expired)).Info("expired idle sessions")
	}
}

// Create starts a new session with an empty cart and no toasts.
func (r *Registry) Create() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Cart:     cart.NewStore(),
		Toasts:   toast.NewQueue(r.clock, r.log),
		lastSeen: r.clock.Now(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.log.WithField("session_id", s.ID).Debug("session created")
	return s
}

// Get returns the session and marks it as seen.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = r.clock.Now()
	return s, nil
}

// GetOrCreate returns the session for id, or a new session when id is
// unknown or expired. The boolean reports whether a session was created.
func (r *Registry) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, err := r.Get(id); err == nil {
			return s, false
		}
	}
	return r.Create(), true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops the background cleanup and waits for it to finish
func (r *Registry) Close() error {
	close(r.stopCleanup)
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		s.Toasts.Clear()
	}
	return nil
}
