package outbox

import "context"

// Event is anything published on the bus, identified by name.
// Cart change events satisfy it.
type Event interface {
	EventName() string
}

// Handler reacts to a published event. Handlers run on the publisher's
// goroutine, so they must not block.
type Handler func(ctx context.Context, e Event) error

// Publisher hands events to the subscribers registered for their name.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber registers handlers by event name.
type Subscriber interface {
	Subscribe(eventName string, h Handler)
}
