package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	"github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/pkg/apperror"
	"github.com/mercadito-pe/mercadito-api/pkg/events"
	"github.com/mercadito-pe/mercadito-api/pkg/pagination"
	"github.com/mercadito-pe/mercadito-api/pkg/utils"
)

// OrderService owns order creation and the order status state machine
type OrderService struct {
	orderRepo   repository.OrderRepository
	itemRepo    repository.OrderItemRepository
	historyRepo repository.OrderStatusHistoryRepository
	pricing     *PricingService
	tx          repository.TxManager
	publisher   events.Publisher
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	historyRepo repository.OrderStatusHistoryRepository,
	pricing *PricingService,
	tx repository.TxManager,
	publisher events.Publisher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		pricing:     pricing,
		tx:          tx,
		publisher:   publisher,
	}
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	UserID            *uuid.UUID
	CustomerName      string
	CustomerPhone     string
	CustomerAddress   string
	CustomerEmail     *string
	CustomerReference *string
	PaymentMethod     enum.PaymentMethod
	Items             []PriceItemInput
	Actor             string
}

func (in *CreateOrderInput) validate() error {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(in.CustomerName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_name", Message: "Customer name is required"})
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_phone", Message: "Customer phone is required"})
	}
	if strings.TrimSpace(in.CustomerAddress) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_address", Message: "Customer address is required"})
	}
	if !in.PaymentMethod.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_method", Message: "Payment method must be one of TRANSFER, YAPE, PLIN, CASH"})
	}
	if len(in.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "items", Message: "At least one item is required"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CreateOrder prices the requested items and persists the order, its line
// items and the initial status history row in one transaction. A failure at
// any point leaves no rows behind.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	priced, err := s.pricing.PriceItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	var order *entity.Order

	// The generated number is unique only best-effort; the database index is
	// authoritative, so retry once with a fresh number on collision.
	for attempt := 0; attempt < 2; attempt++ {
		order = &entity.Order{
			Number:            utils.GenerateOrderNumber(),
			UserID:            input.UserID,
			CustomerName:      strings.TrimSpace(input.CustomerName),
			CustomerPhone:     strings.TrimSpace(input.CustomerPhone),
			CustomerAddress:   strings.TrimSpace(input.CustomerAddress),
			CustomerEmail:     input.CustomerEmail,
			CustomerReference: input.CustomerReference,
			Subtotal:          priced.Subtotal,
			Tax:               priced.Tax,
			Total:             priced.Total,
			Status:            enum.OrderStatusAwaitingPayment,
			PaymentStatus:     enum.PaymentStatusPending,
			PaymentMethod:     input.PaymentMethod,
		}

		err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.orderRepo.Create(txCtx, order); err != nil {
				return err
			}

			items := make([]entity.OrderItem, len(priced.Items))
			copy(items, priced.Items)
			for i := range items {
				items[i].OrderID = order.ID
			}
			if err := s.itemRepo.CreateBatch(txCtx, items); err != nil {
				return err
			}

			notes := "Order created"
			return s.historyRepo.Create(txCtx, &entity.OrderStatusHistory{
				OrderID: order.ID,
				Status:  enum.OrderStatusAwaitingPayment,
				Notes:   &notes,
				Actor:   input.Actor,
			})
		})
		if !apperror.IsKind(err, apperror.KindConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.New(events.TypeOrderCreated, order.Number, map[string]any{
		"total":  order.Total.String(),
		"status": order.Status.String(),
	}))

	return s.orderRepo.GetWithDetails(ctx, order.Number)
}

// GetOrder retrieves an order with items, payment and status history
func (s *OrderService) GetOrder(ctx context.Context, number string) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, number)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// ListOrdersWithCursor lists orders with cursor-based pagination
func (s *OrderService) ListOrdersWithCursor(ctx context.Context, params *repository.OrderCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Order], error) {
	orders, err := s.orderRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(orders, params.Cursor.Limit,
		func(o entity.Order) string { return o.ID.String() },
		func(o entity.Order) time.Time { return o.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// SetStatus moves an order one step forward along
// PREPARING -> READY_FOR_SHIPPING -> SHIPPED -> DELIVERED. Leaving
// AWAITING_PAYMENT is only possible through payment confirmation, and
// cancellation goes through Cancel.
func (s *OrderService) SetStatus(ctx context.Context, number string, newStatus enum.OrderStatus, notes *string, actor string) (*entity.Order, error) {
	if !newStatus.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid order status: " + string(newStatus))
	}
	if newStatus == enum.OrderStatusCancelled {
		return nil, apperror.NewBadRequestError("Use the cancel operation to cancel an order")
	}

	order, err := s.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	if order.Status == enum.OrderStatusAwaitingPayment {
		return nil, apperror.NewInvalidStateError("Order is awaiting payment; confirm its payment to start fulfillment")
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return nil, apperror.NewInvalidStateError(
			"Cannot transition order from " + string(order.Status) + " to " + string(newStatus))
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.UpdateStatus(txCtx, order.ID, newStatus); err != nil {
			return err
		}
		return s.historyRepo.Create(txCtx, &entity.OrderStatusHistory{
			OrderID: order.ID,
			Status:  newStatus,
			Notes:   notes,
			Actor:   actor,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.New(events.TypeOrderStatusChanged, order.Number, map[string]any{
		"from": order.Status.String(),
		"to":   newStatus.String(),
	}))

	order.Status = newStatus
	return order, nil
}

// Cancel moves an order to CANCELLED from any non-terminal status
func (s *OrderService) Cancel(ctx context.Context, number string, reason *string, actor string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewConflictError("Order is already cancelled")
	}
	if order.Status == enum.OrderStatusDelivered {
		return nil, apperror.NewConflictError("Order has been delivered and can no longer be cancelled")
	}

	notes := "Order cancelled"
	if reason != nil && strings.TrimSpace(*reason) != "" {
		notes = *reason
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.UpdateStatus(txCtx, order.ID, enum.OrderStatusCancelled); err != nil {
			return err
		}
		return s.historyRepo.Create(txCtx, &entity.OrderStatusHistory{
			OrderID: order.ID,
			Status:  enum.OrderStatusCancelled,
			Notes:   &notes,
			Actor:   actor,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.New(events.TypeOrderStatusChanged, order.Number, map[string]any{
		"from": order.Status.String(),
		"to":   enum.OrderStatusCancelled.String(),
	}))

	order.Status = enum.OrderStatusCancelled
	return order, nil
}
