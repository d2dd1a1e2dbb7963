package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("catalog: product not found")

// Product is an item offered by the storefront.
type Product struct {
	Name        string
	Description string
	Image       string
	Cost        string
	Category    string
}

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, name string) (*Product, error)
}
