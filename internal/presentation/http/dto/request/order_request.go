package request

// OrderItemRequest is one requested line in a create order request
type OrderItemRequest struct {
	ProductID      string `json:"product_id" binding:"required"`
	PresentationID *string `json:"presentation_id"`
	Quantity       string `json:"quantity" binding:"required"`
}

// CreateOrderRequest represents the create order request body
type CreateOrderRequest struct {
	CustomerName      string             `json:"customer_name" binding:"required"`
	CustomerPhone     string             `json:"customer_phone" binding:"required"`
	CustomerAddress   string             `json:"customer_address" binding:"required"`
	CustomerEmail     *string            `json:"customer_email"`
	CustomerReference *string            `json:"customer_reference"`
	PaymentMethod     string             `json:"payment_method" binding:"required"`
	Items             []OrderItemRequest `json:"items" binding:"required"`
}

// UpdateOrderStatusRequest represents the status transition request body
type UpdateOrderStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

// CancelOrderRequest represents the cancel order request body
type CancelOrderRequest struct {
	Reason *string `json:"reason"`
}
