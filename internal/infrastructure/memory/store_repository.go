package memory

import (
	"context"
	"fmt"
	"sync"

	appcart "github.com/Zhima-Mochi/minishop-cart/internal/application/cart"
)

// StoreRepository keeps the live cart store of each session in memory.
// Stores are shared, not cloned: a store guards its own state.
type StoreRepository struct {
	mu     sync.RWMutex
	stores map[string]*appcart.Store
}

var _ appcart.StoreRepository = (*StoreRepository)(nil)

func NewStoreRepository() *StoreRepository {
	return &StoreRepository{
		stores: make(map[string]*appcart.Store),
	}
}

func (r *StoreRepository) Get(ctx context.Context, id string) (*appcart.Store, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	store, ok := r.stores[id]
	if !ok {
		return nil, appcart.ErrSessionNotFound
	}
	return store, nil
}

func (r *StoreRepository) Save(ctx context.Context, store *appcart.Store) error {
	_ = ctx
	if store == nil || store.ID() == "" {
		return fmt.Errorf("store repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.stores[store.ID()] = store
	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[id]; !ok {
		return appcart.ErrSessionNotFound
	}
	delete(r.stores, id)
	return nil
}

// Len reports the number of open sessions.
func (r *StoreRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}
