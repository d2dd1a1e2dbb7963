package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domcart "github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	domoutbox "github.com/Zhima-Mochi/minishop-cart/internal/domain/outbox"
)

func TestBus_DeliversInlineInOrder(t *testing.T) {
	bus := NewBus(nil)

	var got []string
	bus.Subscribe(domcart.EventItemAdded, func(_ context.Context, e domoutbox.Event) error {
		got = append(got, "first:"+e.(domcart.ItemAdded).Name)
		return nil
	})
	bus.Subscribe(domcart.EventItemAdded, func(_ context.Context, e domoutbox.Event) error {
		got = append(got, "second:"+e.(domcart.ItemAdded).Name)
		return nil
	})
	bus.Subscribe(domcart.EventItemRemoved, func(context.Context, domoutbox.Event) error {
		got = append(got, "removed")
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), domcart.ItemAdded{Name: "Pepper", Cost: "$15", Quantity: 1}))

	assert.Equal(t, []string{"first:Pepper", "second:Pepper"}, got)
}

func TestBus_HandlerFailuresDoNotStopDelivery(t *testing.T) {
	bus := NewBus(nil)

	calls := 0
	bus.Subscribe(domcart.EventItemRemoved, func(context.Context, domoutbox.Event) error {
		calls++
		panic("boom")
	})
	bus.Subscribe(domcart.EventItemRemoved, func(context.Context, domoutbox.Event) error {
		calls++
		return errors.New("handler failed")
	})
	bus.Subscribe(domcart.EventItemRemoved, func(context.Context, domoutbox.Event) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), domcart.ItemRemoved{Name: "Basil", Quantity: 1})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestBus_NoSubscribersAndNilEvent(t *testing.T) {
	bus := NewBus(nil)

	assert.NoError(t, bus.Publish(context.Background(), domcart.QuantityChanged{Name: "Pepper", From: 1, To: 2}))
	assert.NoError(t, bus.Publish(context.Background(), nil))
}

func TestBus_CancelledContext(t *testing.T) {
	bus := NewBus(nil)
	called := false
	bus.Subscribe(domcart.EventItemAdded, func(context.Context, domoutbox.Event) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(ctx, domcart.ItemAdded{Name: "Pepper"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
