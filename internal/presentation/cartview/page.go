package cartview

import (
	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
)

type Mode string

const (
	ModeEmpty     Mode = "empty"
	ModePopulated Mode = "populated"
)

const (
	PageTitle    = "Shopping Cart"
	EmptyMessage = "Your cart is empty"
)

// Line is one rendered cart entry. Amounts are formatted with two decimals.
type Line struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	UnitCost    string `json:"unit_cost"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

type Summary struct {
	TotalItems  int    `json:"total_items"`
	TotalAmount string `json:"total_amount"`
}

// Page is everything the cart screen shows. An empty page has no lines,
// no summary and no checkout; only the message and continue shopping.
type Page struct {
	Mode         Mode     `json:"mode"`
	Title        string   `json:"title"`
	EmptyMessage string   `json:"empty_message,omitempty"`
	Lines        []Line   `json:"lines,omitempty"`
	Summary      *Summary `json:"summary,omitempty"`
	Notice       *Notice  `json:"notice,omitempty"`
}

// NewPage derives the page for s.
func NewPage(s domain.State) Page {
	if s.IsEmpty() {
		return Page{
			Mode:         ModeEmpty,
			Title:        PageTitle,
			EmptyMessage: EmptyMessage,
		}
	}

	entries := s.Entries()
	lines := make([]Line, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, Line{
			Name:        e.Name,
			Description: e.Description,
			Image:       e.Image,
			UnitCost:    e.Cost,
			Quantity:    e.Quantity,
			Subtotal:    domain.FormatAmount(e.Subtotal()),
		})
	}

	return Page{
		Mode:  ModePopulated,
		Title: PageTitle,
		Lines: lines,
		Summary: &Summary{
			TotalItems:  s.TotalQuantity(),
			TotalAmount: domain.FormatAmount(s.TotalAmount()),
		},
	}
}

// WithNotice returns a copy of p carrying n.
func (p Page) WithNotice(n Notice) Page {
	p.Notice = &n
	return p
}
