package bus

import "time"

// EventBus is an in-process pub/sub bus.
//
// Delivery is synchronous: Publish calls every handler on the caller's goroutine, in
// subscription order, before it returns. The frame loop relies on this so that an
// impact published during a tick is observed before the frame is presented. Handlers
// must be quick.
//
// Topics are optional logical groupings; the default topic is "".
type EventBus interface {
	// Publish delivers the event to every active subscriber of event.Type() in the
	// default topic. Handler errors are joined and returned.
	Publish(event Event) error
	// PublishToTopic publishes within a topic.
	PublishToTopic(topic string, event Event) error
	// Subscribe registers a handler for an event type in the default topic.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// SubscribeTopic registers a handler for an event type within a topic.
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil sub is ignored.
	Unsubscribe(sub Subscription) error

	// AddObserver registers an observer notified after every delivery.
	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// GetMetrics returns a snapshot of delivery counters.
	GetMetrics() Metrics
}

// Event is an immutable message transported by the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked once per delivered event.
	EventHandler func(event Event) error
)

// Subscription is a registered handler. Cancel is idempotent.
type Subscription interface {
	ID() string
	Topic() string
	EventType() string
	IsActive() bool
	Cancel() error
}

// Observer is told about each delivery. Observers must return quickly.
type Observer interface {
	OnDelivered(topic, eventType string, handlers int, err error, took time.Duration)
}

// Metrics are cumulative delivery counters.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	Unhandled         uint64
	SubscribersActive uint64
}
