package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	domainRepo "github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/pkg/apperror"
	"github.com/mercadito-pe/mercadito-api/pkg/pagination"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	err := dbFrom(ctx, r.db).Create(order).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewConflictError("Order number already exists")
	}
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := dbFrom(ctx, r.db).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	var order entity.Order
	err := dbFrom(ctx, r.db).First(&order, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetWithDetails(ctx context.Context, number string) (*entity.Order, error) {
	var order entity.Order
	err := dbFrom(ctx, r.db).
		Preload("Items").
		Preload("Payment").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&order, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := applyOrderFilters(dbFrom(ctx, r.db).Model(&entity.Order{}), params.Search,
		params.Status, params.PaymentStatus, params.UserID, params.StartDate, params.EndDate)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Payment").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

// ListWithCursor returns orders using cursor-based pagination
func (r *orderRepository) ListWithCursor(ctx context.Context, params *domainRepo.OrderCursorFilterParams) ([]entity.Order, error) {
	var orders []entity.Order

	params.Cursor.Validate()
	query := applyOrderFilters(dbFrom(ctx, r.db).Model(&entity.Order{}), params.Search,
		params.Status, params.PaymentStatus, params.UserID, params.StartDate, params.EndDate)

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Payment").
		Order("created_at ASC, id ASC").
		Find(&orders).Error

	return orders, err
}

func applyOrderFilters(query *gorm.DB, search string, status *enum.OrderStatus,
	paymentStatus *enum.PaymentStatus, userID *uuid.UUID, startDate, endDate *time.Time) *gorm.DB {
	if search != "" {
		query = query.Where("number ILIKE ? OR customer_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if paymentStatus != nil {
		query = query.Where("payment_status = ?", *paymentStatus)
	}
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}
	return query
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return dbFrom(ctx, r.db).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enum.PaymentStatus) error {
	return dbFrom(ctx, r.db).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository creates a new order item repository
func NewOrderItemRepository(db *gorm.DB) domainRepo.OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	return dbFrom(ctx, r.db).Create(&items).Error
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := dbFrom(ctx, r.db).Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

type orderStatusHistoryRepository struct {
	db *gorm.DB
}

// NewOrderStatusHistoryRepository creates a new status history repository
func NewOrderStatusHistoryRepository(db *gorm.DB) domainRepo.OrderStatusHistoryRepository {
	return &orderStatusHistoryRepository{db: db}
}

func (r *orderStatusHistoryRepository) Create(ctx context.Context, row *entity.OrderStatusHistory) error {
	return dbFrom(ctx, r.db).Create(row).Error
}

func (r *orderStatusHistoryRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderStatusHistory, error) {
	var rows []entity.OrderStatusHistory
	err := dbFrom(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
