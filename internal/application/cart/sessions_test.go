package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

type fakeStoreRepository struct {
	mu     sync.Mutex
	stores map[string]*Store
	getErr error
}

func newFakeStoreRepository() *fakeStoreRepository {
	return &fakeStoreRepository{stores: make(map[string]*Store)}
}

func (r *fakeStoreRepository) Get(_ context.Context, id string) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.stores[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *fakeStoreRepository) Save(_ context.Context, s *Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[s.ID()] = s
	return nil
}

func (r *fakeStoreRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.stores, id)
	return nil
}

func TestSessions_OpenReusesStore(t *testing.T) {
	tel, counters := newTestObservability()
	sessions := NewSessions(newFakeStoreRepository(), nil, tel)
	ctx := context.Background()

	first, err := sessions.Open(ctx, "s-1")
	require.NoError(t, err)
	_, err = first.AddItem(ctx, mustEntry(t, "Pepper", "$15"))
	require.NoError(t, err)

	again, err := sessions.Open(ctx, "s-1")
	require.NoError(t, err)
	other, err := sessions.Open(ctx, "s-2")
	require.NoError(t, err)

	assert.Same(t, first, again)
	assert.Equal(t, 1, again.State().Len())
	assert.True(t, other.State().IsEmpty())
	assert.Equal(t, 2.0, counters[observability.MCartSessionsOpened].get())
}

func TestSessions_CloseDiscardsCart(t *testing.T) {
	sessions := NewSessions(newFakeStoreRepository(), nil, nil)
	ctx := context.Background()

	store, err := sessions.Open(ctx, "s-1")
	require.NoError(t, err)
	_, err = store.AddItem(ctx, mustEntry(t, "Pepper", "$15"))
	require.NoError(t, err)

	require.NoError(t, sessions.Close(ctx, "s-1"))
	require.NoError(t, sessions.Close(ctx, "unknown"))

	reopened, err := sessions.Open(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, reopened.State().IsEmpty())
}

func TestSessions_Errors(t *testing.T) {
	repo := newFakeStoreRepository()
	sessions := NewSessions(repo, nil, nil)
	ctx := context.Background()

	_, err := sessions.Open(ctx, "")
	assert.ErrorIs(t, err, ErrSessionIDRequired)
	assert.ErrorIs(t, sessions.Close(ctx, ""), ErrSessionIDRequired)

	repo.getErr = errors.New("backend unavailable")
	_, err = sessions.Open(ctx, "s-1")
	assert.EqualError(t, err, "backend unavailable")
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSessions_SweepClosesIdleSessions(t *testing.T) {
	tel, counters := newTestObservability()
	repo := newFakeStoreRepository()
	sessions := NewSessions(repo, nil, tel)
	clock := &manualClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	sessions.now = clock.Now
	ctx := context.Background()

	idle, err := sessions.Open(ctx, "idle")
	require.NoError(t, err)
	_, err = idle.AddItem(ctx, mustEntry(t, "Pepper", "$15"))
	require.NoError(t, err)
	_, err = sessions.Open(ctx, "active")
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, err = sessions.Open(ctx, "active")
	require.NoError(t, err)
	clock.Advance(15 * time.Minute)

	closed, err := sessions.Sweep(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Len(t, repo.stores, 1)
	assert.Contains(t, repo.stores, "active")
	assert.Equal(t, 1.0, counters[observability.MCartSessionsExpired].get())

	reopened, err := sessions.Open(ctx, "idle")
	require.NoError(t, err)
	assert.True(t, reopened.State().IsEmpty())

	closed, err = sessions.Sweep(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, closed)
}

func TestSessions_CloseForgetsSession(t *testing.T) {
	repo := newFakeStoreRepository()
	sessions := NewSessions(repo, nil, nil)
	ctx := context.Background()

	_, err := sessions.Open(ctx, "s-1")
	require.NoError(t, err)
	require.NoError(t, sessions.Close(ctx, "s-1"))

	closed, err := sessions.Sweep(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, closed)
	assert.Empty(t, sessions.lastSeen)
}

func TestSessions_RunSweeperStopsOnCancel(t *testing.T) {
	repo := newFakeStoreRepository()
	sessions := NewSessions(repo, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := sessions.Open(ctx, "s-1")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- sessions.RunSweeper(ctx, time.Millisecond, 0) }()

	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return len(repo.stores) == 0
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
