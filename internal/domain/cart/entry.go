package cart

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired = errors.New("cart: entry name is required")
	ErrInvalidCost  = errors.New("cart: invalid cost")
)

// Entry is one distinct product line in the cart.
type Entry struct {
	Name        string
	Description string
	Image       string
	// Cost is the literal the entry was created with, e.g. "$15".
	Cost     string
	Price    decimal.Decimal
	Quantity int
}

// NewEntry builds an entry with quantity 1. The cost literal is parsed here
// and never again; a malformed cost is rejected with ErrInvalidCost.
func NewEntry(name, description, image, cost string) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, ErrNameRequired
	}
	price, err := ParseCost(cost)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Name:        name,
		Description: description,
		Image:       image,
		Cost:        strings.TrimSpace(cost),
		Price:       price,
		Quantity:    1,
	}, nil
}

// Subtotal is price times quantity, unrounded.
func (e Entry) Subtotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}
