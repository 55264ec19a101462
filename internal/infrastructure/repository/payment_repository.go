package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	domainRepo "github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/pkg/apperror"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	err := dbFrom(ctx, r.db).Create(payment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// order_id carries a unique index: one payment per order, even
		// when two create calls race past the existence check
		return apperror.NewConflictError("A payment already exists for this order")
	}
	return err
}

func (r *paymentRepository) GetByNumber(ctx context.Context, number string) (*entity.Payment, error) {
	var payment entity.Payment
	err := dbFrom(ctx, r.db).First(&payment, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := dbFrom(ctx, r.db).First(&payment, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

// FinalizeFromPending writes the decision with `WHERE status = 'PENDING'`
// so a concurrent second verification updates zero rows instead of
// overwriting the first decision.
func (r *paymentRepository) FinalizeFromPending(ctx context.Context, id uuid.UUID, decision domainRepo.PaymentDecision) (bool, error) {
	updates := map[string]interface{}{
		"status":           decision.Status,
		"verified_by":      decision.VerifiedBy,
		"verified_at":      decision.VerifiedAt,
		"notes":            decision.Notes,
		"rejection_reason": decision.RejectionReason,
	}

	result := dbFrom(ctx, r.db).Model(&entity.Payment{}).
		Where("id = ? AND status = ?", id, enum.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
