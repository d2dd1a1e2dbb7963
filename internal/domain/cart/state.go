package cart

import "github.com/shopspring/decimal"

// State is the ordered list of cart entries, keyed by name.
// The zero value is an empty cart. States are never mutated in place.
type State struct {
	entries []Entry
}

// NewState builds a state from existing entries. Entries with a quantity
// below 1 are dropped and only the first entry of a given name is kept.
func NewState(entries ...Entry) State {
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Quantity < 1 {
			continue
		}
		if _, dup := seen[e.Name]; dup {
			continue
		}
		seen[e.Name] = struct{}{}
		out = append(out, e)
	}
	return State{entries: out}
}

func (s State) Len() int { return len(s.entries) }

func (s State) IsEmpty() bool { return len(s.entries) == 0 }

// Entries returns a copy of the entries in insertion order.
func (s State) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lookup returns the entry with the given name.
func (s State) Lookup(name string) (Entry, bool) {
	if i := s.indexOf(name); i >= 0 {
		return s.entries[i], true
	}
	return Entry{}, false
}

// TotalQuantity is the sum of all quantities.
func (s State) TotalQuantity() int {
	total := 0
	for _, e := range s.entries {
		total += e.Quantity
	}
	return total
}

// TotalAmount is the sum of all subtotals, unrounded.
func (s State) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		total = total.Add(e.Subtotal())
	}
	return total
}

func (s State) indexOf(name string) int {
	for i, e := range s.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

func (s State) clone() []Entry {
	out := make([]Entry, len(s.entries), len(s.entries)+1)
	copy(out, s.entries)
	return out
}
