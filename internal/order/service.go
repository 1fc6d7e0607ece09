package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopmesh/services/internal/events"
)

var (
	ErrNoItems          = errors.New("order must have at least one item")
	ErrInvalidItem      = errors.New("item quantity must be at least 1 and price must not be negative")
	ErrAlreadyCompleted = errors.New("cannot cancel a completed order")
	ErrAlreadyCancelled = errors.New("order is already cancelled")
)

// CreateItem is one requested order line. Price is the unit price; the
// subtotal and order total are derived here, once, at creation time.
type CreateItem struct {
	ProductName string
	ProductSKU  string
	Quantity    int
	Price       decimal.Decimal
}

// Service is the only component that mutates order status. It enforces the
// transition table and emits an event after every state-changing operation.
// Event emission is fire-and-forget: a failed emit after a committed write
// surfaces as a PublishError while the write stands.
type Service struct {
	repo Repository
	pub  events.Publisher
}

func NewService(repo Repository, pub events.Publisher) *Service {
	return &Service{repo: repo, pub: pub}
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Order, int, error) {
	return s.repo.List(ctx, f)
}

// Create persists the order and all items atomically, then emits
// order.created. On a publish failure the created order is returned together
// with the error: the write is committed and downstream consumers simply
// never hear about it.
func (s *Service) Create(ctx context.Context, userID string, items []CreateItem, notes string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	o := &Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		OrderNumber: GenerateOrderNumber(),
		Status:      StatusPending,
		Notes:       notes,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	total := decimal.Zero
	for _, in := range items {
		if in.Quantity < 1 || in.Price.IsNegative() {
			return nil, ErrInvalidItem
		}
		subtotal := in.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
		total = total.Add(subtotal)
		o.Items = append(o.Items, Item{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ProductName: in.ProductName,
			ProductSKU:  in.ProductSKU,
			Quantity:    in.Quantity,
			Price:       in.Price,
			Subtotal:    subtotal,
		})
	}
	o.TotalAmount = total

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	if err := s.pub.Emit(ctx, events.TopicOrderCreated, o.ID, events.OrderCreated{
		OrderID:     o.ID,
		UserID:      o.UserID,
		OrderNumber: o.OrderNumber,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		return o, err
	}
	return o, nil
}

// UpdateStatus moves an order along a legal edge of the transition table and
// emits order.updated. The previous status in the event payload is captured
// before the mutation is applied.
func (s *Service) UpdateStatus(ctx context.Context, id string, next Status, reason string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := o.Status
	if !TransitionAllowed(prev, next) {
		return nil, &TransitionError{From: prev, To: next}
	}

	var completedAt *time.Time
	if next == StatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, id, prev, next, completedAt); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			// Lost a concurrent race; report against the status that won.
			cur, gerr := s.repo.GetByID(ctx, id)
			if gerr != nil {
				return nil, gerr
			}
			return nil, &TransitionError{From: cur.Status, To: next}
		}
		return nil, err
	}

	o.Status = next
	if completedAt != nil {
		o.CompletedAt = completedAt
	}

	if err := s.pub.Emit(ctx, events.TopicOrderUpdated, o.ID, events.OrderUpdated{
		OrderID:        o.ID,
		UserID:         o.UserID,
		Status:         string(next),
		PreviousStatus: string(prev),
		Reason:         reason,
		Timestamp:      time.Now().UTC(),
	}); err != nil {
		return o, err
	}
	return o, nil
}

// Cancel forces a non-terminal order to cancelled and emits order.cancelled.
// Cancellation is legal from any non-terminal state, so a lost race against
// pending->processing is retried rather than rejected.
func (s *Service) Cancel(ctx context.Context, id string) (*Order, error) {
	for attempt := 0; attempt < 3; attempt++ {
		o, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		switch o.Status {
		case StatusCompleted:
			return nil, ErrAlreadyCompleted
		case StatusCancelled:
			return nil, ErrAlreadyCancelled
		}

		err = s.repo.UpdateStatus(ctx, id, o.Status, StatusCancelled, nil)
		if errors.Is(err, ErrStatusChanged) {
			continue
		}
		if err != nil {
			return nil, err
		}

		o.Status = StatusCancelled
		if err := s.pub.Emit(ctx, events.TopicOrderCancelled, o.ID, events.OrderCancelled{
			OrderID:     o.ID,
			UserID:      o.UserID,
			OrderNumber: o.OrderNumber,
			Timestamp:   time.Now().UTC(),
		}); err != nil {
			return o, err
		}
		return o, nil
	}
	return nil, ErrStatusChanged
}
