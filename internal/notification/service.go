package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopmesh/services/internal/events"
)

// Service records in-app notifications driven by HTTP requests and by the
// platform's Kafka events. Email delivery and template rendering are handled
// elsewhere and are not part of this service.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Notification, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) MarkAsRead(ctx context.Context, id string) (*Notification, error) {
	return s.repo.MarkRead(ctx, id, time.Now().UTC())
}

func (s *Service) Create(ctx context.Context, userID string, typ Type, title, message string, data map[string]any) (*Notification, error) {
	n := &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) HandleUserRegistered(ctx context.Context, evt events.UserRegistered) error {
	_, err := s.Create(ctx, evt.UserID, TypePush,
		"Welcome!",
		fmt.Sprintf("Welcome to our platform, %s!", evt.Username),
		nil)
	return err
}

func (s *Service) HandleOrderCreated(ctx context.Context, evt events.OrderCreated) error {
	_, err := s.Create(ctx, evt.UserID, TypePush,
		"Order Confirmed",
		fmt.Sprintf("Your order %s has been confirmed. Total: $%s", evt.OrderNumber, evt.TotalAmount.StringFixed(2)),
		map[string]any{"orderId": evt.OrderID})
	return err
}

func (s *Service) HandlePaymentProcessed(ctx context.Context, evt events.PaymentProcessed) error {
	_, err := s.Create(ctx, evt.UserID, TypePush,
		"Payment Successful",
		fmt.Sprintf("Payment of %s %s was successful.", evt.Currency, evt.Amount.StringFixed(2)),
		map[string]any{"paymentId": evt.PaymentID, "orderId": evt.OrderID})
	return err
}
