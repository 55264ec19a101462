package service

import (
	"context"
	"time"

	"github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DashboardService aggregates order and payment metrics for the admin panel
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analyticsRepo: analyticsRepo}
}

// DashboardStats represents the dashboard overview
type DashboardStats struct {
	OrdersToday     int64                         `json:"orders_today"`
	OrdersThisWeek  int64                         `json:"orders_this_week"`
	RevenueToday    decimal.Decimal               `json:"revenue_today"`
	RevenueThisWeek decimal.Decimal               `json:"revenue_this_week"`
	PendingPayments int64                         `json:"pending_payments"`
	StatusBreakdown map[string]int64              `json:"status_breakdown"`
	DailySales      []repository.DailySalesResult `json:"daily_sales"`
	TopProducts     []repository.TopProductResult `json:"top_products"`
}

// GetStats builds the dashboard overview. Revenue only counts orders whose
// payment has been verified.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))

	ordersToday, err := s.analyticsRepo.CountOrdersSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	ordersThisWeek, err := s.analyticsRepo.CountOrdersSince(ctx, startOfWeek)
	if err != nil {
		return nil, err
	}

	revenueToday, err := s.analyticsRepo.VerifiedRevenueSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	revenueThisWeek, err := s.analyticsRepo.VerifiedRevenueSince(ctx, startOfWeek)
	if err != nil {
		return nil, err
	}

	pendingPayments, err := s.analyticsRepo.CountPendingPayments(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.analyticsRepo.OrderStatusBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	statusBreakdown := make(map[string]int64, len(breakdown))
	for _, row := range breakdown {
		statusBreakdown[row.Status] = row.Count
	}

	dailySales, err := s.analyticsRepo.DailySales(ctx, 7)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.analyticsRepo.TopProducts(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		OrdersToday:     ordersToday,
		OrdersThisWeek:  ordersThisWeek,
		RevenueToday:    revenueToday,
		RevenueThisWeek: revenueThisWeek,
		PendingPayments: pendingPayments,
		StatusBreakdown: statusBreakdown,
		DailySales:      dailySales,
		TopProducts:     topProducts,
	}, nil
}
