package cart

const (
	EventItemAdded       = "cart.item_added"
	EventQuantityChanged = "cart.quantity_changed"
	EventItemRemoved     = "cart.item_removed"
)

// Event is a change notification produced by Reduce.
type Event interface {
	EventName() string
	ItemName() string
}

// ItemAdded is emitted when a new name enters the cart.
type ItemAdded struct {
	Name     string
	Cost     string
	Quantity int
}

func (ItemAdded) EventName() string  { return EventItemAdded }
func (e ItemAdded) ItemName() string { return e.Name }

// QuantityChanged is emitted when an existing entry changes quantity and stays in the cart.
type QuantityChanged struct {
	Name string
	From int
	To   int
}

func (QuantityChanged) EventName() string  { return EventQuantityChanged }
func (e QuantityChanged) ItemName() string { return e.Name }

// ItemRemoved is emitted when an entry leaves the cart, explicitly or by
// dropping to zero. Quantity is the last quantity it held.
type ItemRemoved struct {
	Name     string
	Quantity int
}

func (ItemRemoved) EventName() string  { return EventItemRemoved }
func (e ItemRemoved) ItemName() string { return e.Name }
