package events

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the order/payment workflow
const (
	TypeOrderCreated       = "order.created"
	TypePaymentVerified    = "payment.verified"
	TypePaymentRejected    = "payment.rejected"
	TypeOrderStatusChanged = "order.status_changed"
)

// Event carries the affected entity's identifier and new state for
// external consumers (notification, cache invalidation, logging).
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	OrderID   string         `json:"order_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// New builds an event with a fresh id and timestamp
func New(eventType, orderID string, payload map[string]any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		OrderID:   orderID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Publisher delivers workflow events to interested collaborators.
// Publish is fire-and-forget from the workflow's perspective: it is called
// after the surrounding transaction commits and must not fail the request.
type Publisher interface {
	Publish(event Event)
}

// Handler consumes published events
type Handler func(event Event)

// Bus is an in-process Publisher that fans events out to subscribers.
// A broker-backed implementation can replace it behind the same interface.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for an event type
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers the event to all handlers subscribed to its type
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// NewLoggingBus returns a bus that logs every published event, which is the
// default wiring when no other consumer is registered
func NewLoggingBus() *Bus {
	bus := NewBus()
	for _, eventType := range []string{TypeOrderCreated, TypePaymentVerified, TypePaymentRejected, TypeOrderStatusChanged} {
		bus.Subscribe(eventType, func(event Event) {
			log.Printf("event %s order=%s", event.Type, event.OrderID)
		})
	}
	return bus
}
