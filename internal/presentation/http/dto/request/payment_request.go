package request

// CreatePaymentRequest represents the register payment request body
type CreatePaymentRequest struct {
	OrderNumber     string  `json:"order_number" binding:"required"`
	Amount          *string `json:"amount"`
	Method          *string `json:"method"`
	ReferenceNumber *string `json:"reference_number"`
}

// VerifyPaymentRequest represents the verification decision request body
type VerifyPaymentRequest struct {
	Approve         bool    `json:"approve"`
	Notes           *string `json:"notes"`
	RejectionReason *string `json:"rejection_reason"`
}
