package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus.
//
// - Type-based fan-out: handlers subscribe by Event.Type().
// - Synchronous delivery: Publish calls handlers in the caller goroutine, in
//   subscription order.
// - Error aggregation: handler errors are joined and returned from Publish.
// - Metrics count every publish; observers are only told about them.
//
// Handlers run inside the publisher's goroutine; the match orchestrator
// publishes from its tick loop, so they should return quickly.
type EventBus interface {
	// Publish delivers the event to every active subscriber of event.Type().
	Publish(event Event) error
	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is ignored.
	Unsubscribe(Subscription) error

	// PublishAsync publishes in a separate goroutine. The returned channel
	// receives the joined handler error (or nil) and is then closed.
	PublishAsync(event Event) <-chan error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	GetMetrics() EventBusMetrics
}

// Event is an immutable message. Data is owned by the publisher and must be
// treated as read-only by handlers.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	EventHandler func(event Event) error
)

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is told about every publish and its outcome.
type EventBusObserver interface {
	OnDelivered(eventType string, handlers int, err error, took time.Duration)
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
}
