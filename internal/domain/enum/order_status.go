package enum

import "database/sql/driver"

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusAwaitingPayment  OrderStatus = "AWAITING_PAYMENT"
	OrderStatusPreparing        OrderStatus = "PREPARING"
	OrderStatusReadyForShipping OrderStatus = "READY_FOR_SHIPPING"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
)

// orderStatusNext maps each status to the statuses reachable from it.
// Cancellation is handled separately (any non-terminal status may cancel).
var orderStatusNext = map[OrderStatus][]OrderStatus{
	OrderStatusAwaitingPayment:  {OrderStatusPreparing},
	OrderStatusPreparing:        {OrderStatusReadyForShipping},
	OrderStatusReadyForShipping: {OrderStatusShipped},
	OrderStatusShipped:          {OrderStatusDelivered},
	OrderStatusDelivered:        {},
	OrderStatusCancelled:        {},
}

// IsValid reports whether the status is a recognized value
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusNext[s]
	return ok
}

// IsTerminal reports whether the status allows no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving to target is a legal forward step
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderStatusNext[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusAwaitingPayment
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(v)
	}
	return nil
}
