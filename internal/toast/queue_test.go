package toast

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQueue(t *testing.T) (*Queue, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	log := logrus.New()
	log.SetOutput(io.Discard)
	q := NewQueue(clock, log)
	t.Cleanup(q.Clear)
	return q, clock
}

func TestQueue_AddDefaults(t *testing.T) {
	q, _ := setupQueue(t)

	id := q.Add("hello")

	toasts := q.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, id, toasts[0].ID)
	assert.Equal(t, "hello", toasts[0].Message)
	assert.Equal(t, domain.CategoryInfo, toasts[0].Category)
	assert.Equal(t, DefaultDuration, toasts[0].Duration)
}

func TestQueue_AddTwiceYieldsDistinctIDs(t *testing.T) {
	q, _ := setupQueue(t)

	first := q.Add("one")
	second := q.Add("two")

	assert.NotEqual(t, first, second)
	toasts := q.Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, "one", toasts[0].Message)
	assert.Equal(t, "two", toasts[1].Message)
}

func TestQueue_IDsUniqueAcrossQueuesAndGoroutines(t *testing.T) {
	q1, _ := setupQueue(t)
	q2, _ := setupQueue(t)

	var mu sync.Mutex
	seen := make(map[int64]struct{})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := q1
			if i%2 == 0 {
				q = q2
			}
			id := q.Add("x", WithDuration(0))
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, seen, 100)
}

func TestQueue_ConvenienceCategories(t *testing.T) {
	q, _ := setupQueue(t)

	q.AddSuccess("s")
	q.AddError("e")
	q.AddInfo("i")
	q.AddWarning("w", WithCategory(domain.CategorySuccess)) // category is fixed

	got := []domain.Category{}
	for _, toast := range q.Toasts() {
		got = append(got, toast.Category)
	}
	assert.Equal(t, []domain.Category{
		domain.CategorySuccess,
		domain.CategoryError,
		domain.CategoryInfo,
		domain.CategoryWarning,
	}, got)
}

func TestQueue_AutoExpiry(t *testing.T) {
	q, clock := setupQueue(t)

	q.Add("Saved!", WithCategory(domain.CategorySuccess), WithDuration(100*time.Millisecond))
	require.Equal(t, 1, q.Len())

	clock.Advance(99 * time.Millisecond)
	assert.Equal(t, 1, q.Len())

	clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool {
		return q.Len() == 0
	}, time.Second, 5*time.Millisecond, "toast did not expire")
	require.Eventually(t, func() bool {
		return q.pendingTimers() == 0
	}, time.Second, 5*time.Millisecond, "expired timer was not forgotten")
}

func TestQueue_NonPositiveDurationNeverExpires(t *testing.T) {
	q, clock := setupQueue(t)

	q.Add("sticky", WithDuration(0))
	q.Add("also sticky", WithDuration(-5*time.Second))
	assert.Equal(t, 0, q.pendingTimers())

	clock.Advance(time.Hour)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 2, q.Len())
}

func TestQueue_ExpiryOnlyRemovesItsOwnToast(t *testing.T) {
	q, clock := setupQueue(t)

	q.Add("short", WithDuration(time.Second))
	long := q.Add("long", WithDuration(5*time.Second))

	clock.Advance(time.Second)
	require.Eventually(t, func() bool {
		return q.Len() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, long, q.Toasts()[0].ID)
}

func TestQueue_RemoveIsIdempotent(t *testing.T) {
	q, _ := setupQueue(t)
	id := q.Add("bye")
	keep := q.Add("stay")

	q.Remove(id)
	q.Remove(id)
	q.Remove(987654321)

	toasts := q.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, keep, toasts[0].ID)
}

func TestQueue_RemoveStopsTimer(t *testing.T) {
	q, clock := setupQueue(t)
	id := q.Add("dismissed early", WithDuration(time.Second))
	require.Equal(t, 1, q.pendingTimers())

	q.Remove(id)
	assert.Equal(t, 0, q.pendingTimers())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_ClearStopsTimers(t *testing.T) {
	q, clock := setupQueue(t)
	q.Add("a", WithDuration(time.Second))
	q.Add("b", WithDuration(2*time.Second))

	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.pendingTimers())

	// a toast added after Clear is not affected by the old timers
	q.Add("c", WithDuration(10*time.Second))
	clock.Advance(3 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_ToastsReturnsCopy(t *testing.T) {
	q, _ := setupQueue(t)
	q.Add("original")

	toasts := q.Toasts()
	toasts[0].Message = "mutated"

	assert.Equal(t, "original", q.Toasts()[0].Message)
}

func TestQueue_RealClockExpiry(t *testing.T) {
	q := NewQueue(nil, nil)
	q.Add("fast", WithDuration(20*time.Millisecond))

	require.Eventually(t, func() bool {
		return q.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoQueue)

	q, _ := setupQueue(t)
	got, err := FromContext(NewContext(context.Background(), q))
	require.NoError(t, err)
	assert.Same(t, q, got)
}
