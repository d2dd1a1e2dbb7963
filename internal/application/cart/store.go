package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	domoutbox "github.com/Zhima-Mochi/minishop-cart/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability/logctx"
)

const (
	cartService   = "cart-service"
	useCasePrefix = "cart."
	spanPrefix    = "UC.Cart."

	outcomeApplied = "applied"
	outcomeNoop    = "noop"
	outcomeError   = "error"
)

var ErrIntentRequired = errors.New("cart: intent is required")

var spanNames = map[string]string{
	domain.AddItem{}.IntentName():        "AddItem",
	domain.RemoveItem{}.IntentName():     "RemoveItem",
	domain.UpdateQuantity{}.IntentName(): "UpdateQuantity",
	domain.IncrementItem{}.IntentName():  "IncrementItem",
	domain.DecrementItem{}.IntentName():  "DecrementItem",
}

var _ application.UseCase[domain.Intent, domain.State] = (*Store)(nil)

// Store owns the cart state of one session. Intents are applied one at a
// time; each Execute sees the state left by the previous one.
type Store struct {
	id        string
	mu        sync.Mutex
	state     domain.State
	publisher domoutbox.Publisher

	log          observability.Logger
	tracer       observability.Tracer
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

// NewStore returns an empty store. A nil publisher disables change notifications.
func NewStore(id string, publisher domoutbox.Publisher, tel observability.Observability) *Store {
	if tel == nil {
		tel = observability.Nop()
	}
	metricsProvider := tel.Metrics()

	return &Store{
		id:        id,
		publisher: publisher,
		log: tel.Logger().With(
			observability.F("service", cartService),
			observability.F("session_id", id),
		),
		tracer:       tel.Tracer(),
		reqCounter:   metricsProvider.Counter(observability.MUsecaseRequests),
		durHistogram: metricsProvider.Histogram(observability.MUsecaseDuration),
	}
}

// ID is the session the store belongs to.
func (s *Store) ID() string { return s.id }

// State returns the current snapshot.
func (s *Store) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Execute applies the intent and publishes the resulting change, if any.
// The returned state is the one produced by this intent. The only errors are
// a nil intent and a done context, in which case nothing is applied.
func (s *Store) Execute(ctx context.Context, in domain.Intent) (_ domain.State, err error) {
	if in == nil {
		return s.State(), ErrIntentRequired
	}
	useCase := useCasePrefix + in.IntentName()
	logger := logctx.FromOr(ctx, s.log).With(observability.F("use_case", useCase))

	ctx, span := s.tracer.Start(ctx, spanPrefix+spanNames[in.IntentName()],
		attribute.String("use_case", useCase),
		attribute.String("cart.session_id", s.id),
	)
	start := time.Now()
	outcome, statusText := outcomeApplied, "OK"
	var evt domain.Event
	var publishErr error

	defer func() {
		lat := time.Since(start).Seconds()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, statusText)
		} else {
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()

		s.reqCounter.Add(1,
			observability.L("use_case", useCase),
			observability.L("outcome", outcome),
		)
		s.durHistogram.Observe(lat,
			observability.L("use_case", useCase),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if evt != nil {
			fields = append(fields,
				observability.F("event", evt.EventName()),
				observability.F("item", evt.ItemName()),
			)
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if publishErr != nil {
			fields = append(fields, observability.F("event_publish_error", publishErr.Error()))
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	if err := ctx.Err(); err != nil {
		outcome, statusText = outcomeError, "CONTEXT_CANCELED"
		return s.State(), err
	}

	s.mu.Lock()
	next, change := domain.Reduce(s.state, in)
	s.state = next
	s.mu.Unlock()

	if change == nil {
		outcome, statusText = outcomeNoop, "NOOP"
		return next, nil
	}
	evt = change

	span.AddEvent(change.EventName(),
		trace.WithAttributes(attribute.String("cart.item", change.ItemName())),
	)

	// Published outside the lock so subscribers may read the store.
	if s.publisher != nil {
		publishErr = s.publisher.Publish(logctx.With(ctx, logger), change)
		if publishErr != nil {
			statusText = "EVENT_PUBLISH_FAILED"
		}
	}

	return next, nil
}

// AddItem adds the entry, or bumps the quantity of an entry with the same name.
func (s *Store) AddItem(ctx context.Context, e domain.Entry) (domain.State, error) {
	return s.Execute(ctx, domain.AddItem{Entry: e})
}

func (s *Store) RemoveItem(ctx context.Context, name string) (domain.State, error) {
	return s.Execute(ctx, domain.RemoveItem{Name: name})
}

// UpdateQuantity sets the quantity; zero or less removes the entry.
func (s *Store) UpdateQuantity(ctx context.Context, name string, amount int) (domain.State, error) {
	return s.Execute(ctx, domain.UpdateQuantity{Name: name, Amount: amount})
}
