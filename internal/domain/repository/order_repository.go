package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	"github.com/mercadito-pe/mercadito-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByNumber(ctx context.Context, number string) (*entity.Order, error)
	GetWithDetails(ctx context.Context, number string) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	ListWithCursor(ctx context.Context, params *OrderCursorFilterParams) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enum.PaymentStatus) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	Status        *enum.OrderStatus
	PaymentStatus *enum.PaymentStatus
	UserID        *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
}

// OrderCursorFilterParams contains cursor-based filtering for order queries
type OrderCursorFilterParams struct {
	Cursor        *pagination.CursorParams
	Search        string
	Status        *enum.OrderStatus
	PaymentStatus *enum.PaymentStatus
	UserID        *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}

// OrderItemRepository defines the interface for order line item operations
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error)
}

// OrderStatusHistoryRepository defines the interface for the append-only
// status audit trail. There are deliberately no update or delete operations.
type OrderStatusHistoryRepository interface {
	Create(ctx context.Context, row *entity.OrderStatusHistory) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderStatusHistory, error)
}
