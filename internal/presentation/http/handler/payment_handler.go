package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mercadito-pe/mercadito-api/internal/application/service"
	"github.com/mercadito-pe/mercadito-api/internal/domain/enum"
	"github.com/mercadito-pe/mercadito-api/internal/presentation/http/dto/request"
	"github.com/mercadito-pe/mercadito-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create handles registering a claimed payment against an order
func (h *PaymentHandler) Create(c *gin.Context) {
	var req request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreatePaymentInput{
		OrderNumber:     req.OrderNumber,
		ReferenceNumber: req.ReferenceNumber,
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			response.BadRequest(c, "Invalid amount")
			return
		}
		input.Amount = &amount
	}

	if req.Method != nil {
		method := enum.PaymentMethod(*req.Method)
		input.Method = &method
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment registered successfully", payment)
}

// Get handles retrieving a payment by number
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// GetForOrder handles retrieving the payment registered against an order
func (h *PaymentHandler) GetForOrder(c *gin.Context) {
	payment, err := h.paymentService.GetPaymentForOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// Verify handles applying a terminal verification decision to a payment
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req request.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.VerifyPayment(c.Request.Context(), &service.VerifyPaymentInput{
		PaymentNumber:   c.Param("number"),
		Approve:         req.Approve,
		VerifiedBy:      GetUserEmail(c),
		Notes:           req.Notes,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Payment verified successfully"
	if payment.Status == enum.PaymentStatusRejected {
		message = "Payment rejected"
	}
	response.OK(c, message, payment)
}

// Confirm handles moving an order with a verified payment into preparation
func (h *PaymentHandler) Confirm(c *gin.Context) {
	order, err := h.paymentService.ConfirmPayment(c.Request.Context(), c.Param("number"), Actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment confirmed, order is now being prepared", order)
}
