package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusProcessing        Status = "processing"
	StatusCompleted         Status = "completed"
	StatusFailed            Status = "failed"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially_refunded"
)

// Payment is one charge attempt against an order.
type Payment struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"orderId"`
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        Status          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	Transactions  []Transaction   `json:"transactions,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Transaction is the ledger entry behind a charge or refund.
type Transaction struct {
	ID            string          `json:"id"`
	PaymentID     string          `json:"paymentId"`
	TransactionID string          `json:"transactionId"`
	Type          string          `json:"type"`   // charge | refund
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"` // success | failed
	CreatedAt     time.Time       `json:"createdAt"`
}
