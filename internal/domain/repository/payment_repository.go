package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
)

// PaymentDecision carries the verification outcome written onto a payment
type PaymentDecision struct {
	Status          enum.PaymentStatus
	VerifiedBy      string
	VerifiedAt      time.Time
	Notes           *string
	RejectionReason *string
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByNumber(ctx context.Context, number string) (*entity.Payment, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error)

	// FinalizeFromPending applies the decision with a compare-and-swap on
	// status = PENDING and reports whether a row was actually updated. A
	// false return means the payment was already processed by a concurrent
	// call, regardless of isolation level.
	FinalizeFromPending(ctx context.Context, id uuid.UUID, decision PaymentDecision) (bool, error)
}
