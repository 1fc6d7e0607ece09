package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/services/internal/events"
)

type memRepo struct {
	notifications map[string]*Notification
}

func newMemRepo() *memRepo {
	return &memRepo{notifications: make(map[string]*Notification)}
}

func (m *memRepo) Create(_ context.Context, n *Notification) error {
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *memRepo) List(_ context.Context, f Filter) ([]Notification, int, error) {
	var out []Notification
	for _, n := range m.notifications {
		if n.UserID != f.UserID {
			continue
		}
		if f.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, len(out), nil
}

func (m *memRepo) MarkRead(_ context.Context, id string, at time.Time) (*Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	n.IsRead = true
	n.ReadAt = &at
	cp := *n
	return &cp, nil
}

func TestHandleUserRegistered(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	userID := uuid.NewString()
	err := svc.HandleUserRegistered(context.Background(), events.UserRegistered{
		UserID:   userID,
		Username: "jdoe",
		Email:    "jdoe@example.com",
	})
	require.NoError(t, err)

	got, total, err := svc.List(context.Background(), Filter{UserID: userID})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "Welcome!", got[0].Title)
	assert.Equal(t, "Welcome to our platform, jdoe!", got[0].Message)
	assert.False(t, got[0].IsRead)
}

func TestHandleOrderCreated(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	userID := uuid.NewString()
	orderID := uuid.NewString()
	err := svc.HandleOrderCreated(context.Background(), events.OrderCreated{
		OrderID:     orderID,
		UserID:      userID,
		OrderNumber: "ORD-TEST-0001",
		TotalAmount: decimal.RequireFromString("35.5"),
	})
	require.NoError(t, err)

	got, _, err := svc.List(context.Background(), Filter{UserID: userID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Order Confirmed", got[0].Title)
	assert.Equal(t, "Your order ORD-TEST-0001 has been confirmed. Total: $35.50", got[0].Message)
	assert.Equal(t, orderID, got[0].Data["orderId"])
}

func TestHandlePaymentProcessed(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	userID := uuid.NewString()
	err := svc.HandlePaymentProcessed(context.Background(), events.PaymentProcessed{
		PaymentID: uuid.NewString(),
		OrderID:   uuid.NewString(),
		UserID:    userID,
		Amount:    decimal.RequireFromString("49.99"),
		Currency:  "USD",
	})
	require.NoError(t, err)

	got, _, err := svc.List(context.Background(), Filter{UserID: userID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Payment Successful", got[0].Title)
	assert.Equal(t, "Payment of USD 49.99 was successful.", got[0].Message)
}

func TestMarkAsRead(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	n, err := svc.Create(context.Background(), uuid.NewString(), TypePush, "Hi", "hello", nil)
	require.NoError(t, err)

	got, err := svc.MarkAsRead(context.Background(), n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	require.NotNil(t, got.ReadAt)

	_, err = svc.MarkAsRead(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList_UnreadOnly(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	userID := uuid.NewString()
	n1, err := svc.Create(context.Background(), userID, TypePush, "A", "a", nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), userID, TypePush, "B", "b", nil)
	require.NoError(t, err)

	_, err = svc.MarkAsRead(context.Background(), n1.ID)
	require.NoError(t, err)

	got, total, err := svc.List(context.Background(), Filter{UserID: userID, UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Title)
}
