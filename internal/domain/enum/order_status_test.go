package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusCanTransitionTo(t *testing.T) {
	legal := []struct {
		from, to OrderStatus
	}{
		{OrderStatusAwaitingPayment, OrderStatusPreparing},
		{OrderStatusPreparing, OrderStatusReadyForShipping},
		{OrderStatusReadyForShipping, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, tc := range legal {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	illegal := []struct {
		from, to OrderStatus
	}{
		{OrderStatusAwaitingPayment, OrderStatusShipped},
		{OrderStatusPreparing, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusPreparing},
		{OrderStatusDelivered, OrderStatusShipped},
		{OrderStatusCancelled, OrderStatusPreparing},
		{OrderStatusDelivered, OrderStatusCancelled},
	}
	for _, tc := range illegal {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusAwaitingPayment.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestOrderStatusIsValid(t *testing.T) {
	assert.True(t, OrderStatusPreparing.IsValid())
	assert.False(t, OrderStatus("UNKNOWN").IsValid())
}

func TestPaymentStatusIsFinal(t *testing.T) {
	assert.False(t, PaymentStatusPending.IsFinal())
	assert.True(t, PaymentStatusVerified.IsFinal())
	assert.True(t, PaymentStatusRejected.IsFinal())
}

func TestPaymentMethodIsValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodTransfer, PaymentMethodYape, PaymentMethodPlin, PaymentMethodCash} {
		assert.True(t, m.IsValid(), "%s", m)
	}
	assert.False(t, PaymentMethod("BITCOIN").IsValid())
}
