package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	"github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/pkg/apperror"
	"github.com/mercadito-pe/mercadito-api/pkg/events"
	"github.com/mercadito-pe/mercadito-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// AmountTolerance absorbs rounding drift between a claimed payment amount
// and the order total. Anything beyond one cent is a mismatch.
var AmountTolerance = decimal.RequireFromString("0.01")

// PaymentService owns payment registration, verification and confirmation
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	historyRepo repository.OrderStatusHistoryRepository
	tx          repository.TxManager
	publisher   events.Publisher
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	historyRepo repository.OrderStatusHistoryRepository,
	tx repository.TxManager,
	publisher events.Publisher,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		tx:          tx,
		publisher:   publisher,
	}
}

// CreatePaymentInput represents the register payment input
type CreatePaymentInput struct {
	OrderNumber     string
	Amount          *decimal.Decimal
	Method          *enum.PaymentMethod
	ReferenceNumber *string
}

// CreatePayment registers a claimed payment against an order. The amount
// defaults to the order total when omitted and must match it within the
// tolerance when provided. Each order accepts exactly one payment.
func (s *PaymentService) CreatePayment(ctx context.Context, input *CreatePaymentInput) (*entity.Payment, error) {
	order, err := s.orderRepo.GetByNumber(ctx, input.OrderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewInvalidStateError("Cannot register a payment for a cancelled order")
	}

	existing, err := s.paymentRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A payment already exists for this order")
	}

	amount := order.Total
	if input.Amount != nil {
		amount = *input.Amount
		if amount.Sub(order.Total).Abs().GreaterThan(AmountTolerance) {
			return nil, apperror.NewConflictError(fmt.Sprintf(
				"Payment amount %s does not match order total %s", amount.StringFixed(2), order.Total.StringFixed(2)))
		}
	}

	method := order.PaymentMethod
	if input.Method != nil {
		if !input.Method.IsValid() {
			return nil, apperror.NewBadRequestError("Payment method must be one of TRANSFER, YAPE, PLIN, CASH")
		}
		method = *input.Method
	}

	payment := &entity.Payment{
		Number:          utils.GeneratePaymentNumber(),
		OrderID:         order.ID,
		Amount:          amount,
		Method:          method,
		Status:          enum.PaymentStatusPending,
		ReferenceNumber: input.ReferenceNumber,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// GetPayment retrieves a payment by number
func (s *PaymentService) GetPayment(ctx context.Context, number string) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// GetPaymentForOrder retrieves the payment registered against an order
func (s *PaymentService) GetPaymentForOrder(ctx context.Context, orderNumber string) (*entity.Payment, error) {
	order, err := s.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	payment, err := s.paymentRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// VerifyPaymentInput represents the verification decision input
type VerifyPaymentInput struct {
	PaymentNumber   string
	Approve         bool
	VerifiedBy      string
	Notes           *string
	RejectionReason *string
}

// VerifyPayment applies a terminal decision to a pending payment. The write
// is conditioned on the payment still being PENDING, so the first decision
// wins and every later attempt gets a conflict.
func (s *PaymentService) VerifyPayment(ctx context.Context, input *VerifyPaymentInput) (*entity.Payment, error) {
	if !input.Approve && (input.RejectionReason == nil || strings.TrimSpace(*input.RejectionReason) == "") {
		return nil, apperror.NewBadRequestError("Rejection reason is required when rejecting a payment")
	}

	payment, err := s.paymentRepo.GetByNumber(ctx, input.PaymentNumber)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	if payment.Status.IsFinal() {
		return nil, apperror.NewConflictError("Payment has already been processed")
	}

	decision := repository.PaymentDecision{
		Status:     enum.PaymentStatusVerified,
		VerifiedBy: input.VerifiedBy,
		VerifiedAt: time.Now().UTC(),
		Notes:      input.Notes,
	}
	if !input.Approve {
		decision.Status = enum.PaymentStatusRejected
		decision.RejectionReason = input.RejectionReason
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		updated, err := s.paymentRepo.FinalizeFromPending(txCtx, payment.ID, decision)
		if err != nil {
			return err
		}
		if !updated {
			return apperror.NewConflictError("Payment has already been processed")
		}

		if err := s.orderRepo.UpdatePaymentStatus(txCtx, payment.OrderID, decision.Status); err != nil {
			return err
		}

		if decision.Status == enum.PaymentStatusVerified {
			notes := "Payment verified, awaiting confirmation"
			return s.historyRepo.Create(txCtx, &entity.OrderStatusHistory{
				OrderID: payment.OrderID,
				Status:  enum.OrderStatusAwaitingPayment,
				Notes:   &notes,
				Actor:   input.VerifiedBy,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	eventType := events.TypePaymentVerified
	if decision.Status == enum.PaymentStatusRejected {
		eventType = events.TypePaymentRejected
	}
	orderNumber := ""
	if order != nil {
		orderNumber = order.Number
	}
	s.publisher.Publish(events.New(eventType, orderNumber, map[string]any{
		"payment": payment.Number,
		"amount":  payment.Amount.String(),
	}))

	payment.Status = decision.Status
	payment.VerifiedBy = &decision.VerifiedBy
	payment.VerifiedAt = &decision.VerifiedAt
	payment.Notes = decision.Notes
	payment.RejectionReason = decision.RejectionReason
	return payment, nil
}

// ConfirmPayment moves an order with a verified payment out of
// AWAITING_PAYMENT into PREPARING. This is the only entry point into the
// fulfillment pipeline.
func (s *PaymentService) ConfirmPayment(ctx context.Context, orderNumber string, actor string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	if order.PaymentStatus != enum.PaymentStatusVerified {
		return nil, apperror.NewInvalidStateError("Order payment has not been verified")
	}
	if order.Status != enum.OrderStatusAwaitingPayment {
		return nil, apperror.NewInvalidStateError(
			"Order is not awaiting payment (current status: " + string(order.Status) + ")")
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.UpdateStatus(txCtx, order.ID, enum.OrderStatusPreparing); err != nil {
			return err
		}
		notes := "Payment confirmed, order moved to preparation"
		return s.historyRepo.Create(txCtx, &entity.OrderStatusHistory{
			OrderID: order.ID,
			Status:  enum.OrderStatusPreparing,
			Notes:   &notes,
			Actor:   actor,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(events.New(events.TypeOrderStatusChanged, order.Number, map[string]any{
		"from": enum.OrderStatusAwaitingPayment.String(),
		"to":   enum.OrderStatusPreparing.String(),
	}))

	order.Status = enum.OrderStatusPreparing
	return order, nil
}
