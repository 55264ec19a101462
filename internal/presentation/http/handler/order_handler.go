package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/application/service"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	"github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/internal/presentation/http/dto/request"
	"github.com/mercadito-pe/mercadito-api/internal/presentation/http/dto/response"
	"github.com/mercadito-pe/mercadito-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles creating an order. Works for both authenticated customers
// and guests; authenticated orders are linked to the user.
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.PriceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product ID: "+item.ProductID)
			return
		}

		quantity, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			response.BadRequest(c, "Invalid quantity: "+item.Quantity)
			return
		}

		input := service.PriceItemInput{ProductID: productID, Quantity: quantity}
		if item.PresentationID != nil {
			presentationID, err := uuid.Parse(*item.PresentationID)
			if err != nil {
				response.BadRequest(c, "Invalid presentation ID: "+*item.PresentationID)
				return
			}
			input.PresentationID = &presentationID
		}
		items = append(items, input)
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		UserID:            GetUserID(c),
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		CustomerAddress:   req.CustomerAddress,
		CustomerEmail:     req.CustomerEmail,
		CustomerReference: req.CustomerReference,
		PaymentMethod:     enum.PaymentMethod(req.PaymentMethod),
		Items:             items,
		Actor:             Actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles retrieving an order with items, payment and status history
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// Customers only see their own orders; order numbers are not guessable
	// enough to act as authorization on linked accounts
	if !IsAdmin(c) && order.UserID != nil {
		userID := GetUserID(c)
		if userID == nil || *userID != *order.UserID {
			response.Forbidden(c, "Access denied")
			return
		}
	}

	response.OK(c, "Order retrieved successfully", order)
}

// List handles listing orders (supports both page-based and cursor-based pagination)
func (h *OrderHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *userID)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	h.applyCommonFilters(c, *userID, &params.Status, &params.PaymentStatus, &params.UserID, &params.StartDate, &params.EndDate)

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

func (h *OrderHandler) listWithCursor(c *gin.Context, userID uuid.UUID) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))

	params := &repository.OrderCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		},
		Search: c.Query("search"),
	}
	h.applyCommonFilters(c, userID, &params.Status, &params.PaymentStatus, &params.UserID, &params.StartDate, &params.EndDate)

	result, err := h.orderService.ListOrdersWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithCursorPagination(c, 200, "Orders retrieved successfully", result)
}

// applyCommonFilters parses the shared list query parameters. Non-admin
// callers are always scoped to their own orders.
func (h *OrderHandler) applyCommonFilters(c *gin.Context, userID uuid.UUID,
	status **enum.OrderStatus, paymentStatus **enum.PaymentStatus,
	userFilter **uuid.UUID, startDate, endDate **time.Time) {

	if statusStr := c.Query("status"); statusStr != "" {
		s := enum.OrderStatus(statusStr)
		if s.IsValid() {
			*status = &s
		}
	}

	if paymentStatusStr := c.Query("payment_status"); paymentStatusStr != "" {
		s := enum.PaymentStatus(paymentStatusStr)
		if s.IsValid() {
			*paymentStatus = &s
		}
	}

	if IsAdmin(c) {
		if userIDStr := c.Query("user_id"); userIDStr != "" {
			if filtered, err := uuid.Parse(userIDStr); err == nil {
				*userFilter = &filtered
			}
		}
	} else {
		scoped := userID
		*userFilter = &scoped
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if parsed, err := time.Parse("2006-01-02", startDateStr); err == nil {
			*startDate = &parsed
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if parsed, err := time.Parse("2006-01-02", endDateStr); err == nil {
			*endDate = &parsed
		}
	}
}

// UpdateStatus handles moving an order along the fulfillment pipeline
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.SetStatus(c.Request.Context(), c.Param("number"),
		enum.OrderStatus(req.Status), req.Notes, Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}

// Cancel handles cancelling an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req request.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), c.Param("number"), req.Reason, Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", order)
}
