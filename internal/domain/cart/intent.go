package cart

// Intent is a requested cart mutation. The set of intents is closed.
type Intent interface {
	IntentName() string
	isIntent()
}

// AddItem adds the entry, or bumps the quantity of an entry with the same name.
type AddItem struct {
	Entry Entry
}

// RemoveItem deletes the entry with the given name.
type RemoveItem struct {
	Name string
}

// UpdateQuantity sets the quantity of an entry. Zero or less removes it.
type UpdateQuantity struct {
	Name   string
	Amount int
}

// IncrementItem raises the quantity of an entry by one.
type IncrementItem struct {
	Name string
}

// DecrementItem lowers the quantity of an entry by one, removing it at quantity 1.
type DecrementItem struct {
	Name string
}

func (AddItem) IntentName() string        { return "add_item" }
func (RemoveItem) IntentName() string     { return "remove_item" }
func (UpdateQuantity) IntentName() string { return "update_quantity" }
func (IncrementItem) IntentName() string  { return "increment_item" }
func (DecrementItem) IntentName() string  { return "decrement_item" }

func (AddItem) isIntent()        {}
func (RemoveItem) isIntent()     {}
func (UpdateQuantity) isIntent() {}
func (IncrementItem) isIntent()  {}
func (DecrementItem) isIntent()  {}

// Reduce applies an intent and returns the next state together with the
// change it caused. A nil Event means the intent was a no-op.
func Reduce(s State, in Intent) (State, Event) {
	switch in := in.(type) {
	case AddItem:
		return addItem(s, in.Entry)
	case RemoveItem:
		return removeItem(s, in.Name)
	case UpdateQuantity:
		return updateQuantity(s, in.Name, in.Amount)
	case IncrementItem:
		return stepQuantity(s, in.Name, 1)
	case DecrementItem:
		return stepQuantity(s, in.Name, -1)
	default:
		return s, nil
	}
}

func addItem(s State, e Entry) (State, Event) {
	if e.Name == "" {
		return s, nil
	}
	next := s.clone()
	if i := s.indexOf(e.Name); i >= 0 {
		from := next[i].Quantity
		next[i].Quantity++
		return State{entries: next}, QuantityChanged{Name: e.Name, From: from, To: next[i].Quantity}
	}
	e.Quantity = 1
	next = append(next, e)
	return State{entries: next}, ItemAdded{Name: e.Name, Cost: e.Cost, Quantity: 1}
}

func removeItem(s State, name string) (State, Event) {
	i := s.indexOf(name)
	if i < 0 {
		return s, nil
	}
	removed := s.entries[i]
	next := s.clone()
	next = append(next[:i], next[i+1:]...)
	return State{entries: next}, ItemRemoved{Name: name, Quantity: removed.Quantity}
}

func updateQuantity(s State, name string, amount int) (State, Event) {
	i := s.indexOf(name)
	if i < 0 {
		return s, nil
	}
	if amount <= 0 {
		return removeItem(s, name)
	}
	from := s.entries[i].Quantity
	if from == amount {
		return s, nil
	}
	next := s.clone()
	next[i].Quantity = amount
	return State{entries: next}, QuantityChanged{Name: name, From: from, To: amount}
}

// stepQuantity moves the quantity of an existing entry by delta, resolving
// the current quantity from s. Unknown names are a no-op.
func stepQuantity(s State, name string, delta int) (State, Event) {
	i := s.indexOf(name)
	if i < 0 {
		return s, nil
	}
	return updateQuantity(s, name, s.entries[i].Quantity+delta)
}
