package toast

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/domain"
)

// DefaultDuration is how long a toast stays visible unless overridden.
const DefaultDuration = 3 * time.Second

// lastID is shared by every queue so ids stay unique for the process lifetime.
var lastID atomic.Int64

func nextID() int64 {
	return lastID.Add(1)
}

// Queue holds the visible toasts of one session in display order (newest
// last). Toasts with a positive duration remove themselves when it elapses.
type Queue struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	log    logrus.FieldLogger
	toasts []domain.Toast
	timers map[int64]clockwork.Timer
}

// NewQueue creates an empty queue. A nil clock means the real clock.
func NewQueue(clock clockwork.Clock, log logrus.FieldLogger) *Queue {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Queue{
		clock:  clock,
		log:    log,
		toasts: []domain.Toast{},
		timers: make(map[int64]clockwork.Timer),
	}
}

type settings struct {
	category domain.Category
	duration time.Duration
}

// Option customises a single Add call.
type Option func(*settings)

func WithCategory(c domain.Category) Option {
	return func(s *settings) { s.category = c }
}

// WithDuration sets the display duration. Zero or negative keeps the toast
// until it is removed explicitly.
func WithDuration(d time.Duration) Option {
	return func(s *settings) { s.duration = d }
}

// Add appends a toast and returns its id.
func (q *Queue) Add(message string, opts ...Option) int64 {
	cfg := settings{category: domain.CategoryInfo, duration: DefaultDuration}
	for _, opt := range opts {
		opt(&cfg)
	}

	t := domain.Toast{
		ID:        nextID(),
		Message:   message,
		Category:  cfg.category,
		Duration:  cfg.duration,
		CreatedAt: q.clock.Now(),
	}

	q.mu.Lock()
	q.toasts = append(q.toasts, t)
	q.mu.Unlock()

	if t.Expires() {
		q.schedule(t.ID, t.Duration)
	}

	q.log.WithFields(logrus.Fields{
		"toast_id": t.ID,
		"category": t.Category,
		"duration": t.Duration,
	}).Debug("toast added")
	return t.ID
}

func (q *Queue) AddSuccess(message string, opts ...Option) int64 {
	return q.Add(message, append(opts, WithCategory(domain.CategorySuccess))...)
}

func (q *Queue) AddError(message string, opts ...Option) int64 {
	return q.Add(message, append(opts, WithCategory(domain.CategoryError))...)
}

func (q *Queue) AddInfo(message string, opts ...Option) int64 {
	return q.Add(message, append(opts, WithCategory(domain.CategoryInfo))...)
}

func (q *Queue) AddWarning(message string, opts ...Option) int64 {
	return q.Add(message, append(opts, WithCategory(domain.CategoryWarning))...)
}

// Remove deletes the toast with the given id. Removing an id that is not
// present, whether expired, dismissed or unknown, does nothing.
func (q *Queue) Remove(id int64) {
	q.mu.Lock()
	timer, scheduled := q.timers[id]
	delete(q.timers, id)
	i := slices.IndexFunc(q.toasts, func(t domain.Toast) bool { return t.ID == id })
	if i >= 0 {
		q.toasts = slices.Delete(slices.Clone(q.toasts), i, i+1)
	}
	q.mu.Unlock()

	if scheduled {
		timer.Stop()
	}
	if i >= 0 {
		q.log.WithField("toast_id", id).Debug("toast removed")
	}
}

func (q *Queue) schedule(id int64, d time.Duration) {
	timer := q.clock.AfterFunc(d, func() { q.expire(id) })

	q.mu.Lock()
	visible := slices.ContainsFunc(q.toasts, func(t domain.Toast) bool { return t.ID == id })
	if visible {
		q.timers[id] = timer
	}
	q.mu.Unlock()

	if !visible {
		// removed before the timer was recorded
		timer.Stop()
	}
}

// expire runs on the timer's own goroutine. The timer has already fired,
// so it is forgotten rather than stopped.
func (q *Queue) expire(id int64) {
	q.mu.Lock()
	delete(q.timers, id)
	q.mu.Unlock()
	q.Remove(id)
}

// Clear removes every toast and stops all pending expiry timers.
func (q *Queue) Clear() {
	q.mu.Lock()
	timers := q.timers
	q.timers = make(map[int64]clockwork.Timer)
	q.toasts = []domain.Toast{}
	q.mu.Unlock()

	for _, timer := range timers {
		timer.Stop()
	}
}

// Toasts returns a copy of the visible toasts in display order.
func (q *Queue) Toasts() []domain.Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.toasts)
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}

func (q *Queue) pendingTimers() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}
