package order

import "github.com/shopspring/decimal"

// CreateOrderItem is one line of a create request.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductName string          `json:"productName" binding:"required" example:"Wireless Headphones"`
	ProductSKU  string          `json:"productSku" example:"WH-001"`
	Quantity    int             `json:"quantity" binding:"required,min=1" example:"2"`
	Price       decimal.Decimal `json:"price" swaggertype:"number" example:"99.99"`
}

// CreateOrderRequest is the order creation payload.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	UserID string            `json:"userId" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Items  []CreateOrderItem `json:"items" binding:"required"`
	Notes  string            `json:"notes" example:"Please deliver after 5 PM"`
}

// UpdateOrderStatusRequest is the status update payload.
// swagger:model UpdateOrderStatusRequest
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"processing"`
	Reason string `json:"reason" example:"Payment received"`
}
