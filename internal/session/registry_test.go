package session

import (
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRegistry(t *testing.T, ttl time.Duration) (*Registry, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	log := logrus.New()
	log.SetOutput(io.Discard)
	r := NewRegistry(ttl, clock, log)
	t.Cleanup(func() { r.Close() })
	return r, clock
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r, _ := setupRegistry(t, time.Hour)

	s := r.Create()
	require.NotEmpty(t, s.ID)
	require.NotNil(t, s.Cart)
	require.NotNil(t, s.Toasts)

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r, _ := setupRegistry(t, time.Hour)

	_, err := r.Get("nonexistent-id")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r, _ := setupRegistry(t, time.Hour)
	a, b := r.Create(), r.Create()

	a.Cart.AddItem(domain.Product{ID: "1", Price: decimal.NewFromInt(10)})
	a.Toasts.AddSuccess("added")

	assert.Equal(t, 1, a.Cart.TotalItemCount())
	assert.Equal(t, 0, b.Cart.TotalItemCount())
	assert.Equal(t, 1, a.Toasts.Len())
	assert.Equal(t, 0, b.Toasts.Len())
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r, _ := setupRegistry(t, time.Hour)

	s, created := r.GetOrCreate("")
	assert.True(t, created)

	again, created := r.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	other, created := r.GetOrCreate("stale-cookie")
	assert.True(t, created)
	assert.NotEqual(t, "stale-cookie", other.ID)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ExpireSessions(t *testing.T) {
	r, clock := setupRegistry(t, 10*time.Minute)
	idle := r.Create()
	active := r.Create()

	clock.Advance(6 * time.Minute)
	_, err := r.Get(active.ID)
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	r.expireSessions()

	_, err = r.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(active.ID)
	assert.NoError(t, err)
}

func TestRegistry_CleanupLoopExpires(t *testing.T) {
	r, clock := setupRegistry(t, time.Minute)
	r.Create()

	require.NoError(t, clock.BlockUntilContext(t.Context(), 1))
	clock.Advance(CleanupInterval)

	require.Eventually(t, func() bool {
		return r.Len() == 0
	}, time.Second, 5*time.Millisecond, "idle session was not expired")
}
