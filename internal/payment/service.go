package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopmesh/services/internal/events"
)

var (
	ErrNotRefundable = errors.New("only completed payments can be refunded")
	ErrBadAmount     = errors.New("refund amount must be positive and not exceed the payment amount")
)

// Gateway abstracts the upstream charge processor and returns the processor's
// transaction reference. The default implementation approves everything;
// tests substitute failures.
type Gateway interface {
	Charge(ctx context.Context, p *Payment) (string, error)
}

type autoApproveGateway struct{}

func (autoApproveGateway) Charge(_ context.Context, _ *Payment) (string, error) {
	return fmt.Sprintf("txn_%d", time.Now().UnixMilli()), nil
}

func NewAutoApproveGateway() Gateway { return autoApproveGateway{} }

type ProcessRequest struct {
	OrderID       string
	UserID        string
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
}

type Service struct {
	repo    Repository
	pub     events.Publisher
	gateway Gateway
}

func NewService(repo Repository, pub events.Publisher, gateway Gateway) *Service {
	if gateway == nil {
		gateway = autoApproveGateway{}
	}
	return &Service{repo: repo, pub: pub, gateway: gateway}
}

func (s *Service) Get(ctx context.Context, id string) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Payment, int, error) {
	return s.repo.List(ctx, f)
}

// Process charges the gateway for req.Amount and records the outcome as a
// payment plus a transaction row. payment.processed or payment.failed is
// emitted after the rows are written.
func (s *Service) Process(ctx context.Context, req ProcessRequest) (*Payment, error) {
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "card"
	}

	p := &Payment{
		ID:            uuid.NewString(),
		OrderID:       req.OrderID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        StatusProcessing,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	gwTxn, chargeErr := s.gateway.Charge(ctx, p)
	if chargeErr != nil {
		if err := s.recordOutcome(ctx, p, "charge", "failed", fmt.Sprintf("txn_failed_%d", time.Now().UnixMilli()), p.Amount, StatusFailed); err != nil {
			return nil, err
		}
		if err := s.pub.Emit(ctx, events.TopicPaymentFailed, p.OrderID, events.PaymentFailed{
			PaymentID: p.ID,
			OrderID:   p.OrderID,
			UserID:    p.UserID,
			Amount:    p.Amount,
			Reason:    chargeErr.Error(),
			Timestamp: time.Now().UTC(),
		}); err != nil {
			return p, err
		}
		return p, nil
	}

	if err := s.recordOutcome(ctx, p, "charge", "success", gwTxn, p.Amount, StatusCompleted); err != nil {
		return nil, err
	}
	if err := s.pub.Emit(ctx, events.TopicPaymentProcessed, p.OrderID, events.PaymentProcessed{
		PaymentID: p.ID,
		OrderID:   p.OrderID,
		UserID:    p.UserID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    string(p.Status),
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return p, err
	}
	return p, nil
}

// Refund reverses a completed payment, fully by default or partially when
// amount is non-nil, and emits payment.refunded.
func (s *Service) Refund(ctx context.Context, id string, amount *decimal.Decimal, reason string) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusCompleted {
		return nil, ErrNotRefundable
	}

	refund := p.Amount
	if amount != nil {
		refund = *amount
	}
	if !refund.IsPositive() || refund.GreaterThan(p.Amount) {
		return nil, ErrBadAmount
	}

	next := StatusPartiallyRefunded
	if refund.Equal(p.Amount) {
		next = StatusRefunded
	}
	if err := s.recordOutcome(ctx, p, "refund", "success", fmt.Sprintf("txn_%d", time.Now().UnixMilli()), refund, next); err != nil {
		return nil, err
	}

	if err := s.pub.Emit(ctx, events.TopicPaymentRefunded, p.OrderID, events.PaymentRefunded{
		PaymentID: p.ID,
		OrderID:   p.OrderID,
		UserID:    p.UserID,
		Amount:    refund,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return p, err
	}
	return p, nil
}

// HandleOrderCreated auto-charges a freshly created order for its full total.
func (s *Service) HandleOrderCreated(ctx context.Context, evt events.OrderCreated) (*Payment, error) {
	return s.Process(ctx, ProcessRequest{
		OrderID:       evt.OrderID,
		UserID:        evt.UserID,
		Amount:        evt.TotalAmount,
		Currency:      "USD",
		PaymentMethod: "auto",
	})
}

func (s *Service) recordOutcome(ctx context.Context, p *Payment, txnType, txnStatus, gwTxn string, amount decimal.Decimal, next Status) error {
	t := &Transaction{
		ID:            uuid.NewString(),
		PaymentID:     p.ID,
		TransactionID: gwTxn,
		Type:          txnType,
		Amount:        amount,
		Currency:      p.Currency,
		Status:        txnStatus,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.AddTransaction(ctx, t); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, p.ID, next); err != nil {
		return err
	}
	p.Status = next
	p.Transactions = append(p.Transactions, *t)
	return nil
}
