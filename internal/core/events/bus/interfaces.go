package bus

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/broadphase/internal/core/models"
)

// EventBus is a synchronous, in-process pub/sub bus owned by one world.
//
// Key characteristics:
// - Type-based fan-out: handlers subscribe by Event.Type() string.
// - Synchronous delivery: Publish calls handlers in the caller goroutine, in
//   subscription order, before returning.
// - Error aggregation: handler errors are joined and returned from Publish.
//
// Handlers run inside the world step; they must not mutate the world's tree.
type EventBus interface {
	// Publish delivers the event to every active subscriber of event.Type().
	Publish(event Event) error
	// PublishBatch publishes events in order and joins all handler errors.
	PublishBatch(events ...Event) error
	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the subscription. Nil is ignored.
	Unsubscribe(Subscription) error
	// GetMetrics returns a snapshot of delivery counters.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked per delivered event.
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

// EventBusMetrics counts deliveries since the bus was created.
type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}

// EventContact is the type of ContactEvent.
const EventContact = "contact"

// ContactEvent reports a resolved narrow-phase contact. Normal pushes A out
// of B. For contacts against an infinite surface B is zero and Surface holds
// the 1-based surface index.
type ContactEvent struct {
	A, B    models.EntityID
	Surface int
	Normal  mgl64.Vec3
	Depth   float64
	Step    uint64
	World   string
	At      time.Time
}

func (e ContactEvent) Type() string         { return EventContact }
func (e ContactEvent) Source() string       { return e.World }
func (e ContactEvent) Timestamp() time.Time { return e.At }
func (e ContactEvent) Data() any            { return e }
