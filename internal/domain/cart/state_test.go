package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEntry(t *testing.T, name, cost string) Entry {
	t.Helper()
	e, err := NewEntry(name, name+" description", "https://img.example/"+name+".jpg", cost)
	require.NoError(t, err)
	return e
}

func withQuantity(e Entry, q int) Entry {
	e.Quantity = q
	return e
}

func TestReduce_AddDistinctNames(t *testing.T) {
	names := []string{"Snake Plant", "Spider Plant", "Peace Lily", "Boston Fern"}

	s := State{}
	for _, n := range names {
		s, _ = Reduce(s, AddItem{Entry: mustEntry(t, n, "$10")})
	}

	require.Equal(t, len(names), s.Len())
	for i, e := range s.Entries() {
		assert.Equal(t, names[i], e.Name, "insertion order is preserved")
		assert.Equal(t, 1, e.Quantity)
	}
}

func TestReduce_AddSameNameTwice(t *testing.T) {
	first := mustEntry(t, "Pepper", "$15")
	second := mustEntry(t, "Pepper", "$99")
	second.Description = "ignored"

	s, ev := Reduce(State{}, AddItem{Entry: first})
	require.Equal(t, ItemAdded{Name: "Pepper", Cost: "$15", Quantity: 1}, ev)

	s, ev = Reduce(s, AddItem{Entry: second})
	require.Equal(t, QuantityChanged{Name: "Pepper", From: 1, To: 2}, ev)

	require.Equal(t, 1, s.Len())
	got, ok := s.Lookup("Pepper")
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, "$15", got.Cost, "cost is fixed at creation")
	assert.Equal(t, "Pepper description", got.Description)
}

func TestReduce_AddForcesQuantityOne(t *testing.T) {
	s, _ := Reduce(State{}, AddItem{Entry: withQuantity(mustEntry(t, "Basil", "$5"), 7)})

	got, ok := s.Lookup("Basil")
	require.True(t, ok)
	assert.Equal(t, 1, got.Quantity)
}

func TestReduce_UpdateQuantity(t *testing.T) {
	base := NewState(withQuantity(mustEntry(t, "Pepper", "$15"), 2), mustEntry(t, "Basil", "$5"))

	tests := []struct {
		name      string
		amount    int
		wantQty   int
		wantFound bool
		wantEvent Event
	}{
		{name: "raise", amount: 5, wantQty: 5, wantFound: true, wantEvent: QuantityChanged{Name: "Pepper", From: 2, To: 5}},
		{name: "lower", amount: 1, wantQty: 1, wantFound: true, wantEvent: QuantityChanged{Name: "Pepper", From: 2, To: 1}},
		{name: "unchanged", amount: 2, wantQty: 2, wantFound: true, wantEvent: nil},
		{name: "zero removes", amount: 0, wantFound: false, wantEvent: ItemRemoved{Name: "Pepper", Quantity: 2}},
		{name: "negative removes", amount: -3, wantFound: false, wantEvent: ItemRemoved{Name: "Pepper", Quantity: 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, ev := Reduce(base, UpdateQuantity{Name: "Pepper", Amount: tc.amount})

			assert.Equal(t, tc.wantEvent, ev)
			got, ok := next.Lookup("Pepper")
			require.Equal(t, tc.wantFound, ok)
			if ok {
				assert.Equal(t, tc.wantQty, got.Quantity)
			}
			for _, e := range next.Entries() {
				assert.GreaterOrEqual(t, e.Quantity, 1)
			}

			original, _ := base.Lookup("Pepper")
			assert.Equal(t, 2, original.Quantity, "input state is not mutated")
		})
	}
}

func TestReduce_UpdateQuantityMissingName(t *testing.T) {
	base := NewState(mustEntry(t, "Basil", "$5"))

	next, ev := Reduce(base, UpdateQuantity{Name: "Pepper", Amount: 3})

	assert.Nil(t, ev)
	assert.Equal(t, base.Entries(), next.Entries())
}

func TestReduce_StepQuantity(t *testing.T) {
	base := NewState(withQuantity(mustEntry(t, "Pepper", "$15"), 3), mustEntry(t, "Basil", "$5"))

	tests := []struct {
		name      string
		intent    Intent
		wantQty   int
		wantEvent Event
	}{
		{name: "increment", intent: IncrementItem{Name: "Pepper"}, wantQty: 4, wantEvent: QuantityChanged{Name: "Pepper", From: 3, To: 4}},
		{name: "decrement", intent: DecrementItem{Name: "Pepper"}, wantQty: 2, wantEvent: QuantityChanged{Name: "Pepper", From: 3, To: 2}},
		{name: "decrement at one removes", intent: DecrementItem{Name: "Basil"}, wantQty: 0, wantEvent: ItemRemoved{Name: "Basil", Quantity: 1}},
		{name: "increment unknown", intent: IncrementItem{Name: "Rose"}, wantQty: 0, wantEvent: nil},
		{name: "decrement unknown", intent: DecrementItem{Name: "Rose"}, wantQty: 0, wantEvent: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, ev := Reduce(base, tc.intent)

			assert.Equal(t, tc.wantEvent, ev)
			name := ""
			if ev != nil {
				name = ev.ItemName()
			}
			if got, ok := next.Lookup(name); ok {
				assert.Equal(t, tc.wantQty, got.Quantity)
			} else {
				assert.Zero(t, tc.wantQty)
			}
			assert.Equal(t, 2, base.Len(), "input state is not mutated")
		})
	}
}

func TestReduce_RemoveItem(t *testing.T) {
	base := NewState(mustEntry(t, "Pepper", "$15"), withQuantity(mustEntry(t, "Basil", "$5"), 4), mustEntry(t, "Mint", "$3"))

	next, ev := Reduce(base, RemoveItem{Name: "Basil"})
	require.Equal(t, ItemRemoved{Name: "Basil", Quantity: 4}, ev)
	require.Equal(t, 2, next.Len())
	_, ok := next.Lookup("Basil")
	assert.False(t, ok)
	assert.Equal(t, "Pepper", next.Entries()[0].Name)
	assert.Equal(t, "Mint", next.Entries()[1].Name)
	assert.Equal(t, 3, base.Len(), "input state is not mutated")

	again, ev := Reduce(next, RemoveItem{Name: "Basil"})
	assert.Nil(t, ev)
	assert.Equal(t, next.Entries(), again.Entries())
}

func TestState_Totals(t *testing.T) {
	s := NewState(withQuantity(mustEntry(t, "Pepper", "$15"), 2), mustEntry(t, "Basil", "$5"))

	assert.Equal(t, 3, s.TotalQuantity())
	assert.Equal(t, "35.00", s.TotalAmount().StringFixed(2))
	assert.Equal(t, "$35.00", FormatAmount(s.TotalAmount()))
}

func TestState_TotalsFractional(t *testing.T) {
	s := NewState(withQuantity(mustEntry(t, "Aloe", "$10.10"), 3), mustEntry(t, "Jade", "$0.005"))

	assert.Equal(t, "30.305", s.TotalAmount().String())
	assert.Equal(t, "$30.31", FormatAmount(s.TotalAmount()))
}

func TestNewState_EnforcesInvariants(t *testing.T) {
	s := NewState(
		withQuantity(mustEntry(t, "Pepper", "$15"), 0),
		mustEntry(t, "Basil", "$5"),
		withQuantity(mustEntry(t, "Basil", "$6"), 9),
	)

	require.Equal(t, 1, s.Len())
	got, _ := s.Lookup("Basil")
	assert.Equal(t, 1, got.Quantity)
	assert.Equal(t, "$5", got.Cost)
}

func TestState_EntriesIsACopy(t *testing.T) {
	s := NewState(mustEntry(t, "Pepper", "$15"))

	entries := s.Entries()
	entries[0].Quantity = 42

	got, _ := s.Lookup("Pepper")
	assert.Equal(t, 1, got.Quantity)
}

func TestState_ZeroValueIsEmpty(t *testing.T) {
	var s State
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.TotalQuantity())
	assert.True(t, s.TotalAmount().IsZero())
	assert.Empty(t, s.Entries())
}
