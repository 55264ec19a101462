package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is a claimed payment attempt against exactly one order.
// It is created once (PENDING) and transitions to VERIFIED or REJECTED
// exactly once; terminal states do not revert.
type Payment struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Number  string    `gorm:"size:30;uniqueIndex;not null" json:"number"` // PAY-<digits>
	OrderID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`

	Amount          decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method          enum.PaymentMethod `gorm:"size:20;not null" json:"method"`
	Status          enum.PaymentStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	ReferenceNumber *string            `gorm:"size:100" json:"reference_number,omitempty"`

	// Verification metadata, set exactly once
	VerifiedBy      *string    `gorm:"size:255" json:"verified_by,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	Notes           *string    `gorm:"type:text" json:"notes,omitempty"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
