package payment

import "github.com/shopspring/decimal"

// ProcessPaymentRequest is the manual charge payload.
// swagger:model ProcessPaymentRequest
type ProcessPaymentRequest struct {
	OrderID       string          `json:"orderId" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID        string          `json:"userId" binding:"required,uuid" example:"650e8400-e29b-41d4-a716-446655440000"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"number" example:"99.99"`
	Currency      string          `json:"currency" example:"USD"`
	PaymentMethod string          `json:"paymentMethod" example:"card"`
}

// RefundPaymentRequest is the refund payload. Amount defaults to the full
// payment amount when omitted.
// swagger:model RefundPaymentRequest
type RefundPaymentRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty" swaggertype:"number" example:"25.00"`
	Reason string           `json:"reason" example:"Customer request"`
}
