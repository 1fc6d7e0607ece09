package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderCreated is published after an order and its items are committed.
type OrderCreated struct {
	OrderID     string          `json:"orderId"`
	UserID      string          `json:"userId"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	Timestamp   time.Time       `json:"timestamp"`
}

// OrderUpdated is published after a status transition. PreviousStatus is the
// status the order held before the transition was applied.
type OrderUpdated struct {
	OrderID        string    `json:"orderId"`
	UserID         string    `json:"userId"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus"`
	Reason         string    `json:"reason,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type OrderCancelled struct {
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	OrderNumber string    `json:"orderNumber"`
	Timestamp   time.Time `json:"timestamp"`
}

type PaymentProcessed struct {
	PaymentID string          `json:"paymentId"`
	OrderID   string          `json:"orderId"`
	UserID    string          `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

type PaymentFailed struct {
	PaymentID string          `json:"paymentId"`
	OrderID   string          `json:"orderId"`
	UserID    string          `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type PaymentRefunded struct {
	PaymentID string          `json:"paymentId"`
	OrderID   string          `json:"orderId"`
	UserID    string          `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

type UserRegistered struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}
