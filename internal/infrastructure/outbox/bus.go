package outbox

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	domoutbox "github.com/Zhima-Mochi/minishop-cart/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability/logctx"
)

const componentOutbox = "outbox"

// Bus is an in-process event bus. Publish delivers to every subscriber of
// the event name on the caller's goroutine, in subscription order, and
// returns once all of them ran. Nothing is queued or persisted.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]domoutbox.Handler
	log  observability.Logger
}

func NewBus(logger observability.Logger) *Bus {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Bus{
		subs: make(map[string][]domoutbox.Handler),
		log:  logger.With(observability.F("component", componentOutbox)),
	}
}

func (b *Bus) Subscribe(eventName string, h domoutbox.Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], h)
}

// Publish never fails because of a subscriber: handler errors and panics are
// logged and delivery continues with the next handler.
func (b *Bus) Publish(ctx context.Context, e domoutbox.Event) error {
	if e == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	name := e.EventName()

	b.mu.RLock()
	handlers := append([]domoutbox.Handler(nil), b.subs[name]...)
	b.mu.RUnlock()

	logger := logctx.FromOr(ctx, b.log).With(observability.F("event", name))
	if len(handlers) == 0 {
		logger.Debug("event_dropped_no_subscriber")
		return nil
	}

	for _, h := range handlers {
		if err := b.dispatch(ctx, h, e); err != nil {
			logger.Warn("event_handler_error", observability.F("error", err))
		}
	}

	logger.Debug("event_fanned_out", observability.F("handlers", len(handlers)))
	return nil
}

func (b *Bus) dispatch(ctx context.Context, h domoutbox.Handler, e domoutbox.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logctx.FromOr(ctx, b.log).Error("event_handler_panic",
				observability.F("event", e.EventName()),
				observability.F("panic", fmt.Sprint(r)),
				observability.F("stack", string(debug.Stack())),
			)
			err = nil
		}
	}()
	return h(ctx, e)
}
