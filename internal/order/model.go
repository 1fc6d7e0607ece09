package order

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order mirrors the orders table. Money columns are NUMERIC(10,2) in
// Postgres; we keep them as decimals end to end to avoid float rounding.
type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Items       []Item          `json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Item is one line of an order. Items are fixed at creation; there are no
// item-level mutation paths. Subtotal is computed once at insert time, not
// re-derived on read.
type Item struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	ProductName string          `json:"productName"`
	ProductSKU  string          `json:"productSku,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber builds a human-readable identifier of the form
// ORD-<base36 millisecond timestamp>-<4 random chars>. Uniqueness is
// probabilistic; the orders table carries a UNIQUE constraint as backstop.
func GenerateOrderNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return "ORD-" + ts + "-" + string(suffix)
}
