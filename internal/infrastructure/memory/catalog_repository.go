package memory

import (
	"context"
	"sync"

	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
)

// CatalogRepository serves a fixed product list. Later products with an
// already seen name replace the earlier one in place.
type CatalogRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int
}

var _ domain.Repository = (*CatalogRepository)(nil)

func NewCatalogRepository(products ...domain.Product) *CatalogRepository {
	r := &CatalogRepository{
		index: make(map[string]int, len(products)),
	}
	for _, p := range products {
		if i, ok := r.index[p.Name]; ok {
			r.products[i] = p
			continue
		}
		r.index[p.Name] = len(r.products)
		r.products = append(r.products, p)
	}
	return r
}

func (r *CatalogRepository) List(ctx context.Context) ([]domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *CatalogRepository) Get(ctx context.Context, name string) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProduct(r.products[i]), nil
}

func cloneProduct(p domain.Product) *domain.Product {
	clone := p
	return &clone
}
