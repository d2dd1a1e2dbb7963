package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	domoutbox "github.com/Zhima-Mochi/minishop-cart/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability/logctx"
)

var (
	ErrSessionIDRequired = errors.New("cart: session id is required")
	ErrSessionNotFound   = errors.New("cart: session not found")
)

// StoreRepository keeps the live store of every open session.
// Get returns ErrSessionNotFound for unknown ids.
type StoreRepository interface {
	Get(ctx context.Context, id string) (*Store, error)
	Save(ctx context.Context, s *Store) error
	Delete(ctx context.Context, id string) error
}

// Sessions hands out one Store per cart session and expires the idle ones.
type Sessions struct {
	mu        sync.Mutex
	repo      StoreRepository
	publisher domoutbox.Publisher
	tel       observability.Observability
	log       observability.Logger
	opened    observability.Counter
	expired   observability.Counter

	lastSeen map[string]time.Time
	now      func() time.Time
}

func NewSessions(repo StoreRepository, publisher domoutbox.Publisher, tel observability.Observability) *Sessions {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Sessions{
		repo:      repo,
		publisher: publisher,
		tel:       tel,
		log:       tel.Logger().With(observability.F("service", cartService)),
		opened:    tel.Metrics().Counter(observability.MCartSessionsOpened),
		expired:   tel.Metrics().Counter(observability.MCartSessionsExpired),
		lastSeen:  make(map[string]time.Time),
		now:       time.Now,
	}
}

// Open returns the store for id, creating an empty one on first use.
func (s *Sessions) Open(ctx context.Context, id string) (*Store, error) {
	if id == "" {
		return nil, ErrSessionIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.repo.Get(ctx, id)
	switch {
	case err == nil:
		s.lastSeen[id] = s.now()
		return store, nil
	case !errors.Is(err, ErrSessionNotFound):
		return nil, err
	}

	store = NewStore(id, s.publisher, s.tel)
	if err := s.repo.Save(ctx, store); err != nil {
		return nil, err
	}
	s.lastSeen[id] = s.now()
	s.opened.Add(1)
	logctx.FromOr(ctx, s.log).Info("cart_session_opened", observability.F("session_id", id))
	return store, nil
}

// Close discards the session and its cart. Unknown ids are ignored.
func (s *Sessions) Close(ctx context.Context, id string) error {
	if id == "" {
		return ErrSessionIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.close(ctx, id); err != nil {
		return err
	}
	logctx.FromOr(ctx, s.log).Info("cart_session_closed", observability.F("session_id", id))
	return nil
}

// close must be called with s.mu held.
func (s *Sessions) close(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	delete(s.lastSeen, id)
	return nil
}

// Sweep closes every session not opened within idle and returns how many it closed.
func (s *Sessions) Sweep(ctx context.Context, idle time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	closed := 0
	for id, seen := range s.lastSeen {
		if seen.After(cutoff) {
			continue
		}
		if err := s.close(ctx, id); err != nil {
			return closed, err
		}
		closed++
		s.expired.Add(1)
		logctx.FromOr(ctx, s.log).Info("cart_session_expired",
			observability.F("session_id", id),
			observability.F("idle_since", seen),
		)
	}
	return closed, nil
}

// RunSweeper sweeps every interval until ctx is done. Sweep errors are
// logged and the loop carries on.
func (s *Sessions) RunSweeper(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx, idle); err != nil {
				logctx.FromOr(ctx, s.log).Warn("cart_session_sweep_failed", observability.F("error", err))
			}
		}
	}
}
