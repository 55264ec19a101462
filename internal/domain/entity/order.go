package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents one customer purchase.
//
// Customer fields are snapshotted at creation time on purpose: the order must
// stay stable even if the linked account later changes its name or phone.
type Order struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Number string    `gorm:"size:30;uniqueIndex;not null" json:"number"` // ORD-<digits>
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`  // nullable, guest orders allowed

	CustomerName      string  `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone     string  `gorm:"size:50;not null" json:"customer_phone"`
	CustomerAddress   string  `gorm:"type:text;not null" json:"customer_address"`
	CustomerEmail     *string `gorm:"size:255" json:"customer_email,omitempty"`
	CustomerReference *string `gorm:"size:255" json:"customer_reference,omitempty"`

	Subtotal decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	Status        enum.OrderStatus   `gorm:"size:30;not null;default:'AWAITING_PAYMENT';index" json:"status"`
	PaymentStatus enum.PaymentStatus `gorm:"size:20;not null;default:'PENDING';index" json:"payment_status"`
	PaymentMethod enum.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User          *User                `gorm:"foreignKey:UserID" json:"-"`
	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history,omitempty"`
	Payment       *Payment             `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one priced line within an order. Immutable once created.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	PresentationID *uuid.UUID `gorm:"type:uuid;index" json:"presentation_id,omitempty"`

	// Snapshots taken at pricing time so the line survives catalog edits
	ProductName      string  `gorm:"size:255;not null" json:"product_name"`
	PresentationName *string `gorm:"size:255" json:"presentation_name,omitempty"`
	PresentationUnit *string `gorm:"size:50" json:"presentation_unit,omitempty"`

	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity  decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Order        Order         `gorm:"foreignKey:OrderID" json:"-"`
	Product      Product       `gorm:"foreignKey:ProductID" json:"-"`
	Presentation *Presentation `gorm:"foreignKey:PresentationID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusHistory is the append-only audit trail of an order's status
// changes. Rows are never updated or deleted.
type OrderStatusHistory struct {
	ID      uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrderID uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	Status  enum.OrderStatus `gorm:"size:30;not null" json:"status"`
	Notes   *string          `gorm:"type:text" json:"notes,omitempty"`
	Actor   string           `gorm:"size:255;not null" json:"actor"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new history row
func (h *OrderStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderStatusHistory model
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
