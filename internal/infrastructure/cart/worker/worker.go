package worker

import (
	"context"

	domcart "github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	domoutbox "github.com/Zhima-Mochi/minishop-cart/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability/logctx"
	workerpresentation "github.com/Zhima-Mochi/minishop-cart/internal/presentation/worker"
)

const componentCartWorker = "cart_worker"

// Worker records cart change events as structured logs and counters.
type Worker struct {
	subscriber domoutbox.Subscriber
	log        observability.Logger
	events     observability.Counter // cart_events_total{event}
}

func New(subscriber domoutbox.Subscriber, tel observability.Observability) *Worker {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Worker{
		subscriber: subscriber,
		log:        tel.Logger().With(observability.F("component", componentCartWorker)),
		events:     tel.Metrics().Counter(observability.MCartEvents),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(domcart.EventItemAdded, w.handle)
	w.subscriber.Subscribe(domcart.EventQuantityChanged, w.handle)
	w.subscriber.Subscribe(domcart.EventItemRemoved, w.handle)
}

func (w *Worker) handle(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(domcart.Event)
	if !ok {
		return nil
	}
	name := evt.EventName()

	ctx = workerpresentation.WithEventContext(ctx, logctx.FromOr(ctx, w.log), map[string]string{
		"event": name,
		"item":  evt.ItemName(),
	})
	logger := logctx.FromOr(ctx, w.log)

	switch evt := evt.(type) {
	case domcart.ItemAdded:
		logger.Info("cart_item_added",
			observability.F("cost", evt.Cost),
			observability.F("quantity", evt.Quantity),
		)
	case domcart.QuantityChanged:
		logger.Info("cart_quantity_changed",
			observability.F("from", evt.From),
			observability.F("to", evt.To),
		)
	case domcart.ItemRemoved:
		logger.Info("cart_item_removed",
			observability.F("quantity", evt.Quantity),
		)
	}

	w.events.Add(1, observability.L("event", name))
	return nil
}
