package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/services/internal/events"
)

// memRepo is an in-memory Repository with the same compare-and-swap contract
// as the Postgres implementation.
type memRepo struct {
	orders map[string]*Order
}

func newMemRepo() *memRepo {
	return &memRepo{orders: make(map[string]*Order)}
}

func (m *memRepo) Create(_ context.Context, o *Order) error {
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, f Filter) ([]Order, int, error) {
	var out []Order
	for _, o := range m.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, from, to Status, completedAt *time.Time) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	if o.Status != from {
		return ErrStatusChanged
	}
	o.Status = to
	if completedAt != nil {
		o.CompletedAt = completedAt
	}
	return nil
}

func newTestService() (*Service, *memRepo, *events.Recorder) {
	repo := newMemRepo()
	rec := events.NewRecorder()
	return NewService(repo, rec), repo, rec
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreate_ComputesTotals(t *testing.T) {
	svc, _, rec := newTestService()

	o, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 3, Price: dec("10.00")},
		{ProductName: "Gadget", Quantity: 1, Price: dec("5.00")},
	}, "leave at door")
	require.NoError(t, err)

	assert.True(t, o.TotalAmount.Equal(dec("35.00")), "total = %s", o.TotalAmount)
	assert.Equal(t, StatusPending, o.Status)
	assert.Len(t, o.Items, 2)
	assert.True(t, o.Items[0].Subtotal.Equal(dec("30.00")))
	assert.True(t, o.Items[1].Subtotal.Equal(dec("5.00")))
	assert.Equal(t, "leave at door", o.Notes)

	evts := rec.ByTopic(events.TopicOrderCreated)
	require.Len(t, evts, 1)
	payload := evts[0].Payload.(events.OrderCreated)
	assert.Equal(t, o.ID, payload.OrderID)
	assert.True(t, payload.TotalAmount.Equal(dec("35.00")))
	assert.Equal(t, "pending", payload.Status)
}

func TestCreate_RejectsEmptyItems(t *testing.T) {
	svc, repo, rec := newTestService()

	_, err := svc.Create(context.Background(), uuid.NewString(), nil, "")
	require.ErrorIs(t, err, ErrNoItems)
	assert.Empty(t, repo.orders, "nothing should be persisted")
	assert.Empty(t, rec.Events(), "nothing should be emitted")
}

func TestCreate_RejectsInvalidItems(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 0, Price: dec("10.00")},
	}, "")
	require.ErrorIs(t, err, ErrInvalidItem)

	_, err = svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 1, Price: dec("-1.00")},
	}, "")
	require.ErrorIs(t, err, ErrInvalidItem)
	assert.Empty(t, repo.orders)
}

func TestCreate_PublishFailureReturnsOrderAndError(t *testing.T) {
	svc, repo, rec := newTestService()
	rec.FailWith(errors.New("broker down"))

	o, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 1, Price: dec("10.00")},
	}, "")

	var pubErr *events.PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, events.TopicOrderCreated, pubErr.Topic)
	require.NotNil(t, o, "the committed order must be returned alongside the error")
	assert.Contains(t, repo.orders, o.ID, "the write must stand")
}

func TestUpdateStatus_LegalEdge(t *testing.T) {
	svc, _, rec := newTestService()
	o, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 1, Price: dec("10.00")},
	}, "")
	require.NoError(t, err)

	got, err := svc.UpdateStatus(context.Background(), o.ID, StatusProcessing, "payment received")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.Nil(t, got.CompletedAt)

	evts := rec.ByTopic(events.TopicOrderUpdated)
	require.Len(t, evts, 1)
	payload := evts[0].Payload.(events.OrderUpdated)
	assert.Equal(t, "pending", payload.PreviousStatus)
	assert.Equal(t, "processing", payload.Status)
	assert.Equal(t, "payment received", payload.Reason)
}

func TestUpdateStatus_IllegalEdge(t *testing.T) {
	svc, _, rec := newTestService()
	o, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 1, Price: dec("10.00")},
	}, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID, StatusCompleted, "")
	var trErr *TransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, StatusPending, trErr.From)
	assert.Equal(t, StatusCompleted, trErr.To)
	assert.Empty(t, rec.ByTopic(events.TopicOrderUpdated))
}

func TestUpdateStatus_CompletedSetsTimestampAndIsTerminal(t *testing.T) {
	svc, _, _ := newTestService()
	o, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 1, Price: dec("10.00")},
	}, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID, StatusProcessing, "")
	require.NoError(t, err)
	got, err := svc.UpdateStatus(context.Background(), o.ID, StatusCompleted, "")
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)

	_, err = svc.UpdateStatus(context.Background(), o.ID, StatusProcessing, "")
	var trErr *TransitionError
	require.ErrorAs(t, err, &trErr, "completed is terminal")
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdateStatus(context.Background(), uuid.NewString(), StatusProcessing, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_LostRaceReportsWinner(t *testing.T) {
	svc, repo, _ := newTestService()
	o, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 1, Price: dec("10.00")},
	}, "")
	require.NoError(t, err)

	// Another writer cancels between our read and our conditional update.
	raceRepo := &racingRepo{memRepo: repo, moveTo: StatusCancelled}
	racedSvc := NewService(raceRepo, events.NewRecorder())

	_, err = racedSvc.UpdateStatus(context.Background(), o.ID, StatusProcessing, "")
	var trErr *TransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, StatusCancelled, trErr.From, "the error names the status that won the race")
}

// racingRepo flips the order's status right before the first conditional
// update, simulating a concurrent writer.
type racingRepo struct {
	*memRepo
	moveTo Status
	raced  bool
}

func (r *racingRepo) UpdateStatus(ctx context.Context, id string, from, to Status, completedAt *time.Time) error {
	if !r.raced {
		r.raced = true
		r.memRepo.orders[id].Status = r.moveTo
	}
	return r.memRepo.UpdateStatus(ctx, id, from, to, completedAt)
}

func TestCancel_FromPending(t *testing.T) {
	svc, _, rec := newTestService()
	o, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 1, Price: dec("10.00")},
	}, "")
	require.NoError(t, err)

	got, err := svc.Cancel(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	evts := rec.ByTopic(events.TopicOrderCancelled)
	require.Len(t, evts, 1)
	payload := evts[0].Payload.(events.OrderCancelled)
	assert.Equal(t, o.ID, payload.OrderID)
	assert.Equal(t, o.OrderNumber, payload.OrderNumber)
}

func TestCancel_CompletedAndCancelledAreDistinctErrors(t *testing.T) {
	svc, _, _ := newTestService()
	o, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 1, Price: dec("10.00")},
	}, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID, StatusProcessing, "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), o.ID, StatusCompleted, "")
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), o.ID)
	require.ErrorIs(t, err, ErrAlreadyCompleted)

	o2, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 1, Price: dec("10.00")},
	}, "")
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), o2.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), o2.ID)
	require.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_RetriesLostRace(t *testing.T) {
	svc, repo, _ := newTestService()
	o, err := svc.Create(context.Background(), uuid.NewString(), []CreateItem{
		{ProductName: "Widget", Quantity: 1, Price: dec("10.00")},
	}, "")
	require.NoError(t, err)

	// pending moves to processing under our feet; cancel must still succeed.
	raceRepo := &racingRepo{memRepo: repo, moveTo: StatusProcessing}
	racedSvc := NewService(raceRepo, events.NewRecorder())

	got, err := racedSvc.Cancel(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
}
