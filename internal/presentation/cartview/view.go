package cartview

import (
	"context"

	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability/logctx"
)

// CheckoutMessage is shown instead of a checkout flow.
const CheckoutMessage = "Functionality to be added for future reference"

const componentCartView = "cart_view"

// Store is the cart the view reads and mutates.
type Store interface {
	State() domain.State
	Execute(ctx context.Context, in domain.Intent) (domain.State, error)
}

// Event describes the user action that asked to continue shopping.
type Event struct {
	// Source names where the action came from, e.g. "empty" or "footer".
	Source string
}

// ContinueShoppingFunc leaves the cart. The view never navigates by itself.
type ContinueShoppingFunc func(ctx context.Context, e Event)

// Notice is a transient message for the user.
type Notice struct {
	Message string `json:"message"`
}

// View derives display values from a Store and maps user actions to intents.
// It keeps no copy of the cart; every call reads the store.
type View struct {
	store      Store
	onContinue ContinueShoppingFunc
	log        observability.Logger
}

func New(store Store, onContinue ContinueShoppingFunc, logger observability.Logger) *View {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &View{
		store:      store,
		onContinue: onContinue,
		log:        logger.With(observability.F("component", componentCartView)),
	}
}

// Render builds the page for the current cart.
func (v *View) Render(context.Context) Page {
	return NewPage(v.store.State())
}

// Increment raises the quantity of name by one. Unknown names are ignored.
func (v *View) Increment(ctx context.Context, name string) (domain.State, error) {
	return v.store.Execute(ctx, domain.IncrementItem{Name: name})
}

// Decrement lowers the quantity of name by one, removing the entry at quantity 1.
func (v *View) Decrement(ctx context.Context, name string) (domain.State, error) {
	return v.store.Execute(ctx, domain.DecrementItem{Name: name})
}

func (v *View) Remove(ctx context.Context, name string) (domain.State, error) {
	return v.store.Execute(ctx, domain.RemoveItem{Name: name})
}

// ContinueShopping hands control back to the caller. The cart is untouched.
func (v *View) ContinueShopping(ctx context.Context, e Event) {
	logctx.FromOr(ctx, v.log).Debug("cart_continue_shopping", observability.F("source", e.Source))
	if v.onContinue != nil {
		v.onContinue(ctx, e)
	}
}

// Checkout only reports that checkout is not available yet.
func (v *View) Checkout(ctx context.Context) Notice {
	logctx.FromOr(ctx, v.log).Info("cart_checkout_unavailable",
		observability.F("total_items", v.store.State().TotalQuantity()),
	)
	return Notice{Message: CheckoutMessage}
}
