package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCountResult represents the number of orders in one status
type StatusCountResult struct {
	Status string
	Count  int64
}

// DailySalesResult represents verified revenue for a single day
type DailySalesResult struct {
	Date    time.Time
	Revenue decimal.Decimal
	Orders  int64
}

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductName  string
	QuantitySold decimal.Decimal
	Revenue      decimal.Decimal
}

// AnalyticsRepository defines the interface for dashboard aggregation queries
type AnalyticsRepository interface {
	// CountOrdersSince returns the number of orders created at or after the cutoff
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)

	// OrderStatusBreakdown returns order counts grouped by status
	OrderStatusBreakdown(ctx context.Context) ([]StatusCountResult, error)

	// VerifiedRevenueSince sums totals of orders with a verified payment
	VerifiedRevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)

	// CountPendingPayments returns the number of payments awaiting verification
	CountPendingPayments(ctx context.Context) (int64, error)

	// DailySales returns verified revenue per day for the last N days
	DailySales(ctx context.Context, days int) ([]DailySalesResult, error)

	// TopProducts returns the best selling products by revenue
	TopProducts(ctx context.Context, limit int) ([]TopProductResult, error)
}
