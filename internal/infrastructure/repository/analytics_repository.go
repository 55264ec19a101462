package repository

import (
	"context"
	"time"

	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	domainRepo "github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.Order{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) OrderStatusBreakdown(ctx context.Context) ([]domainRepo.StatusCountResult, error) {
	var results []domainRepo.StatusCountResult
	err := dbFrom(ctx, r.db).Model(&entity.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error
	return results, err
}

func (r *analyticsRepository) VerifiedRevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var revenue decimal.NullDecimal
	err := dbFrom(ctx, r.db).Model(&entity.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("payment_status = ? AND created_at >= ?", enum.PaymentStatusVerified, since).
		Scan(&revenue).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !revenue.Valid {
		return decimal.Zero, nil
	}
	return revenue.Decimal, nil
}

func (r *analyticsRepository) CountPendingPayments(ctx context.Context) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.Payment{}).
		Where("status = ?", enum.PaymentStatusPending).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) DailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	var results []domainRepo.DailySalesResult
	since := time.Now().AddDate(0, 0, -days)
	err := dbFrom(ctx, r.db).Model(&entity.Order{}).
		Select("DATE(created_at) as date, COALESCE(SUM(total), 0) as revenue, COUNT(*) as orders").
		Where("payment_status = ? AND created_at >= ?", enum.PaymentStatusVerified, since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&results).Error
	return results, err
}

func (r *analyticsRepository) TopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult
	err := dbFrom(ctx, r.db).Model(&entity.OrderItem{}).
		Select("order_items.product_name, SUM(order_items.quantity) as quantity_sold, SUM(order_items.total) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ?", enum.PaymentStatusVerified).
		Group("order_items.product_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}
