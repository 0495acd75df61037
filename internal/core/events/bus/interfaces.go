package bus

import "time"

// EventBus is a synchronous, in-process pub/sub bus.
//
// Handlers subscribe by Event.Type() and are invoked in the publisher's
// goroutine in subscription order. Handler errors are joined and returned
// from Publish. All methods are safe for concurrent use.
type EventBus interface {
	Publish(event Event) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	Unsubscribe(Subscription) error
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type EventHandler func(Event) error

type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
