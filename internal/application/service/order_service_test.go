package service

import (
	"context"
	"strings"
	"testing"

	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	"github.com/mercadito-pe/mercadito-api/pkg/apperror"
	"github.com/mercadito-pe/mercadito-api/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderServiceFixture struct {
	svc         *OrderService
	orderRepo   *fakeOrderRepo
	itemRepo    *fakeOrderItemRepo
	historyRepo *fakeHistoryRepo
	productRepo *fakeProductRepo
	publisher   *capturePublisher
}

func newOrderServiceFixture(products ...*entity.Product) *orderServiceFixture {
	f := &orderServiceFixture{
		orderRepo:   newFakeOrderRepo(),
		itemRepo:    &fakeOrderItemRepo{},
		historyRepo: &fakeHistoryRepo{},
		productRepo: newFakeProductRepo(products...),
		publisher:   &capturePublisher{},
	}
	pricing := NewPricingService(f.productRepo)
	f.svc = NewOrderService(f.orderRepo, f.itemRepo, f.historyRepo, pricing, fakeTxManager{}, f.publisher)
	return f
}

func validOrderInput(products ...*entity.Product) *CreateOrderInput {
	items := make([]PriceItemInput, len(products))
	for i, p := range products {
		items[i] = PriceItemInput{ProductID: p.ID, Quantity: dec("1")}
	}
	return &CreateOrderInput{
		CustomerName:    "Maria Lopez",
		CustomerPhone:   "+51 987 654 321",
		CustomerAddress: "Av. Arequipa 1234, Lima",
		PaymentMethod:   enum.PaymentMethodYape,
		Items:           items,
		Actor:           "customer",
	}
}

func TestCreateOrder_HappyPath(t *testing.T) {
	apple := newTestProduct("Apple", "2.50")
	milk := newTestProduct("Milk", "3.80")
	f := newOrderServiceFixture(apple, milk)

	input := validOrderInput(apple)
	input.Items = []PriceItemInput{
		{ProductID: apple.ID, Quantity: dec("2")},
		{ProductID: milk.ID, Quantity: dec("1")},
	}

	order, err := f.svc.CreateOrder(context.Background(), input)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.Number, "ORD-"))
	assert.Equal(t, enum.OrderStatusAwaitingPayment, order.Status)
	assert.Equal(t, enum.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.Subtotal.Equal(dec("8.80")))
	assert.True(t, order.Tax.Equal(dec("1.58")))
	assert.True(t, order.Total.Equal(dec("10.38")))

	// Line items and an initial history row are written with the order
	items, _ := f.itemRepo.GetByOrderID(context.Background(), order.ID)
	assert.Len(t, items, 2)
	rows, _ := f.historyRepo.ListByOrderID(context.Background(), order.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, enum.OrderStatusAwaitingPayment, rows[0].Status)

	assert.Len(t, f.publisher.byType(events.TypeOrderCreated), 1)
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	apple := newTestProduct("Apple", "2.50")
	f := newOrderServiceFixture(apple)

	input := validOrderInput(apple)
	input.CustomerName = "  "
	input.PaymentMethod = "BITCOIN"

	_, err := f.svc.CreateOrder(context.Background(), input)

	require.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
	appErr := apperror.GetAppError(err)
	fields := make([]string, len(appErr.Errors))
	for i, fe := range appErr.Errors {
		fields[i] = fe.Field
	}
	assert.Contains(t, fields, "customer_name")
	assert.Contains(t, fields, "payment_method")
}

func TestCreateOrder_RetriesOnNumberCollision(t *testing.T) {
	apple := newTestProduct("Apple", "2.50")
	f := newOrderServiceFixture(apple)
	f.orderRepo.createErr = apperror.NewConflictError("Order number already exists")

	order, err := f.svc.CreateOrder(context.Background(), validOrderInput(apple))

	require.NoError(t, err)
	assert.NotEmpty(t, order.Number)
}

func TestSetStatus_AdvancesFulfillment(t *testing.T) {
	f := newOrderServiceFixture()
	existing := &entity.Order{Number: "ORD-1", Status: enum.OrderStatusPreparing, CustomerName: "Maria"}
	require.NoError(t, f.orderRepo.Create(context.Background(), existing))

	order, err := f.svc.SetStatus(context.Background(), "ORD-1", enum.OrderStatusReadyForShipping, nil, "admin")

	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusReadyForShipping, order.Status)

	stored, _ := f.orderRepo.GetByNumber(context.Background(), "ORD-1")
	assert.Equal(t, enum.OrderStatusReadyForShipping, stored.Status)

	rows, _ := f.historyRepo.ListByOrderID(context.Background(), order.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, "admin", rows[0].Actor)

	assert.Len(t, f.publisher.byType(events.TypeOrderStatusChanged), 1)
}

func TestSetStatus_RejectsSkippingSteps(t *testing.T) {
	f := newOrderServiceFixture()
	existing := &entity.Order{Number: "ORD-1", Status: enum.OrderStatusPreparing}
	require.NoError(t, f.orderRepo.Create(context.Background(), existing))

	_, err := f.svc.SetStatus(context.Background(), "ORD-1", enum.OrderStatusDelivered, nil, "admin")

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestSetStatus_CannotLeaveAwaitingPayment(t *testing.T) {
	f := newOrderServiceFixture()
	existing := &entity.Order{Number: "ORD-1", Status: enum.OrderStatusAwaitingPayment}
	require.NoError(t, f.orderRepo.Create(context.Background(), existing))

	_, err := f.svc.SetStatus(context.Background(), "ORD-1", enum.OrderStatusPreparing, nil, "admin")

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestSetStatus_RejectsCancelledTarget(t *testing.T) {
	f := newOrderServiceFixture()
	existing := &entity.Order{Number: "ORD-1", Status: enum.OrderStatusPreparing}
	require.NoError(t, f.orderRepo.Create(context.Background(), existing))

	_, err := f.svc.SetStatus(context.Background(), "ORD-1", enum.OrderStatusCancelled, nil, "admin")

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}

func TestSetStatus_OrderNotFound(t *testing.T) {
	f := newOrderServiceFixture()

	_, err := f.svc.SetStatus(context.Background(), "ORD-missing", enum.OrderStatusShipped, nil, "admin")

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestCancel_FromAwaitingPayment(t *testing.T) {
	f := newOrderServiceFixture()
	existing := &entity.Order{Number: "ORD-1", Status: enum.OrderStatusAwaitingPayment}
	require.NoError(t, f.orderRepo.Create(context.Background(), existing))

	reason := "Customer changed their mind"
	order, err := f.svc.Cancel(context.Background(), "ORD-1", &reason, "admin")

	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, order.Status)

	rows, _ := f.historyRepo.ListByOrderID(context.Background(), order.ID)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Notes)
	assert.Equal(t, reason, *rows[0].Notes)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newOrderServiceFixture()
	existing := &entity.Order{Number: "ORD-1", Status: enum.OrderStatusCancelled}
	require.NoError(t, f.orderRepo.Create(context.Background(), existing))

	_, err := f.svc.Cancel(context.Background(), "ORD-1", nil, "admin")

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestCancel_DeliveredOrder(t *testing.T) {
	f := newOrderServiceFixture()
	existing := &entity.Order{Number: "ORD-1", Status: enum.OrderStatusDelivered}
	require.NoError(t, f.orderRepo.Create(context.Background(), existing))

	_, err := f.svc.Cancel(context.Background(), "ORD-1", nil, "admin")

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}
