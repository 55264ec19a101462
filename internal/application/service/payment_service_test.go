package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	"github.com/mercadito-pe/mercadito-api/pkg/apperror"
	"github.com/mercadito-pe/mercadito-api/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentServiceFixture struct {
	svc         *PaymentService
	paymentRepo *fakePaymentRepo
	orderRepo   *fakeOrderRepo
	historyRepo *fakeHistoryRepo
	publisher   *capturePublisher
}

func newPaymentServiceFixture() *paymentServiceFixture {
	f := &paymentServiceFixture{
		paymentRepo: newFakePaymentRepo(),
		orderRepo:   newFakeOrderRepo(),
		historyRepo: &fakeHistoryRepo{},
		publisher:   &capturePublisher{},
	}
	f.svc = NewPaymentService(f.paymentRepo, f.orderRepo, f.historyRepo, fakeTxManager{}, f.publisher)
	return f
}

func (f *paymentServiceFixture) seedOrder(total string) *entity.Order {
	order := &entity.Order{
		Number:        "ORD-1",
		CustomerName:  "Maria Lopez",
		Total:         dec(total),
		Status:        enum.OrderStatusAwaitingPayment,
		PaymentStatus: enum.PaymentStatusPending,
		PaymentMethod: enum.PaymentMethodYape,
	}
	_ = f.orderRepo.Create(context.Background(), order)
	return order
}

func (f *paymentServiceFixture) seedPendingPayment(order *entity.Order) *entity.Payment {
	payment := &entity.Payment{
		Number:  "PAY-1",
		OrderID: order.ID,
		Amount:  order.Total,
		Method:  order.PaymentMethod,
		Status:  enum.PaymentStatusPending,
	}
	_ = f.paymentRepo.Create(context.Background(), payment)
	return payment
}

func TestCreatePayment_DefaultsAmountToOrderTotal(t *testing.T) {
	f := newPaymentServiceFixture()
	f.seedOrder("10.38")

	payment, err := f.svc.CreatePayment(context.Background(), &CreatePaymentInput{OrderNumber: "ORD-1"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(payment.Number, "PAY-"))
	assert.True(t, payment.Amount.Equal(dec("10.38")))
	assert.Equal(t, enum.PaymentStatusPending, payment.Status)
	assert.Equal(t, enum.PaymentMethodYape, payment.Method)
}

func TestCreatePayment_AmountWithinTolerance(t *testing.T) {
	f := newPaymentServiceFixture()
	f.seedOrder("10.38")

	amount := dec("10.37")
	payment, err := f.svc.CreatePayment(context.Background(), &CreatePaymentInput{
		OrderNumber: "ORD-1",
		Amount:      &amount,
	})

	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(dec("10.37")))
}

func TestCreatePayment_AmountMismatch(t *testing.T) {
	f := newPaymentServiceFixture()
	f.seedOrder("10.38")

	amount := dec("10.30")
	_, err := f.svc.CreatePayment(context.Background(), &CreatePaymentInput{
		OrderNumber: "ORD-1",
		Amount:      &amount,
	})

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestCreatePayment_OrderNotFound(t *testing.T) {
	f := newPaymentServiceFixture()

	_, err := f.svc.CreatePayment(context.Background(), &CreatePaymentInput{OrderNumber: "ORD-missing"})

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestCreatePayment_AlreadyExists(t *testing.T) {
	f := newPaymentServiceFixture()
	order := f.seedOrder("10.38")
	f.seedPendingPayment(order)

	_, err := f.svc.CreatePayment(context.Background(), &CreatePaymentInput{OrderNumber: "ORD-1"})

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestCreatePayment_CancelledOrder(t *testing.T) {
	f := newPaymentServiceFixture()
	order := f.seedOrder("10.38")
	_ = f.orderRepo.UpdateStatus(context.Background(), order.ID, enum.OrderStatusCancelled)

	_, err := f.svc.CreatePayment(context.Background(), &CreatePaymentInput{OrderNumber: "ORD-1"})

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestVerifyPayment_Approve(t *testing.T) {
	f := newPaymentServiceFixture()
	order := f.seedOrder("10.38")
	f.seedPendingPayment(order)

	payment, err := f.svc.VerifyPayment(context.Background(), &VerifyPaymentInput{
		PaymentNumber: "PAY-1",
		Approve:       true,
		VerifiedBy:    "admin@mercadito.pe",
	})

	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusVerified, payment.Status)
	require.NotNil(t, payment.VerifiedBy)
	assert.Equal(t, "admin@mercadito.pe", *payment.VerifiedBy)
	assert.NotNil(t, payment.VerifiedAt)

	// Order payment status follows; fulfillment status does not move yet
	stored, _ := f.orderRepo.GetByNumber(context.Background(), "ORD-1")
	assert.Equal(t, enum.PaymentStatusVerified, stored.PaymentStatus)
	assert.Equal(t, enum.OrderStatusAwaitingPayment, stored.Status)

	rows, _ := f.historyRepo.ListByOrderID(context.Background(), order.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, enum.OrderStatusAwaitingPayment, rows[0].Status)

	assert.Len(t, f.publisher.byType(events.TypePaymentVerified), 1)
}

func TestVerifyPayment_Reject(t *testing.T) {
	f := newPaymentServiceFixture()
	order := f.seedOrder("10.38")
	f.seedPendingPayment(order)

	reason := "Reference number does not match any transfer"
	payment, err := f.svc.VerifyPayment(context.Background(), &VerifyPaymentInput{
		PaymentNumber:   "PAY-1",
		Approve:         false,
		VerifiedBy:      "admin@mercadito.pe",
		RejectionReason: &reason,
	})

	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusRejected, payment.Status)
	require.NotNil(t, payment.RejectionReason)
	assert.Equal(t, reason, *payment.RejectionReason)

	stored, _ := f.orderRepo.GetByNumber(context.Background(), "ORD-1")
	assert.Equal(t, enum.PaymentStatusRejected, stored.PaymentStatus)

	// No history row on rejection
	rows, _ := f.historyRepo.ListByOrderID(context.Background(), order.ID)
	assert.Empty(t, rows)

	assert.Len(t, f.publisher.byType(events.TypePaymentRejected), 1)
}

func TestVerifyPayment_RejectRequiresReason(t *testing.T) {
	f := newPaymentServiceFixture()
	order := f.seedOrder("10.38")
	f.seedPendingPayment(order)

	_, err := f.svc.VerifyPayment(context.Background(), &VerifyPaymentInput{
		PaymentNumber: "PAY-1",
		Approve:       false,
		VerifiedBy:    "admin@mercadito.pe",
	})

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}

func TestVerifyPayment_SecondDecisionConflicts(t *testing.T) {
	f := newPaymentServiceFixture()
	order := f.seedOrder("10.38")
	f.seedPendingPayment(order)

	_, err := f.svc.VerifyPayment(context.Background(), &VerifyPaymentInput{
		PaymentNumber: "PAY-1", Approve: true, VerifiedBy: "admin@mercadito.pe",
	})
	require.NoError(t, err)

	reason := "duplicate"
	_, err = f.svc.VerifyPayment(context.Background(), &VerifyPaymentInput{
		PaymentNumber: "PAY-1", Approve: false, VerifiedBy: "other@mercadito.pe", RejectionReason: &reason,
	})

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// First decision stands
	payment, _ := f.paymentRepo.GetByNumber(context.Background(), "PAY-1")
	assert.Equal(t, enum.PaymentStatusVerified, payment.Status)
}

func TestVerifyPayment_ConcurrentDecisionsOnlyOneWins(t *testing.T) {
	f := newPaymentServiceFixture()
	order := f.seedOrder("10.38")
	f.seedPendingPayment(order)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.VerifyPayment(context.Background(), &VerifyPaymentInput{
				PaymentNumber: "PAY-1", Approve: true, VerifiedBy: "admin@mercadito.pe",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperror.IsKind(err, apperror.KindConflict))
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestVerifyPayment_NotFound(t *testing.T) {
	f := newPaymentServiceFixture()

	_, err := f.svc.VerifyPayment(context.Background(), &VerifyPaymentInput{
		PaymentNumber: "PAY-missing", Approve: true, VerifiedBy: "admin@mercadito.pe",
	})

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestConfirmPayment_StartsFulfillment(t *testing.T) {
	f := newPaymentServiceFixture()
	order := f.seedOrder("10.38")
	_ = f.orderRepo.UpdatePaymentStatus(context.Background(), order.ID, enum.PaymentStatusVerified)

	confirmed, err := f.svc.ConfirmPayment(context.Background(), "ORD-1", "admin@mercadito.pe")

	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPreparing, confirmed.Status)

	rows, _ := f.historyRepo.ListByOrderID(context.Background(), order.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, enum.OrderStatusPreparing, rows[0].Status)

	assert.Len(t, f.publisher.byType(events.TypeOrderStatusChanged), 1)
}

func TestConfirmPayment_RequiresVerifiedPayment(t *testing.T) {
	f := newPaymentServiceFixture()
	f.seedOrder("10.38")

	_, err := f.svc.ConfirmPayment(context.Background(), "ORD-1", "admin@mercadito.pe")

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestConfirmPayment_OrderAlreadyInFulfillment(t *testing.T) {
	f := newPaymentServiceFixture()
	order := f.seedOrder("10.38")
	_ = f.orderRepo.UpdatePaymentStatus(context.Background(), order.ID, enum.PaymentStatusVerified)
	_ = f.orderRepo.UpdateStatus(context.Background(), order.ID, enum.OrderStatusPreparing)

	_, err := f.svc.ConfirmPayment(context.Background(), "ORD-1", "admin@mercadito.pe")

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestAmountTolerance(t *testing.T) {
	total := dec("100.00")
	within := dec("99.99")
	outside := dec("99.98")

	assert.False(t, within.Sub(total).Abs().GreaterThan(AmountTolerance))
	assert.True(t, outside.Sub(total).Abs().GreaterThan(AmountTolerance))
}
