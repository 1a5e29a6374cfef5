package order

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delicia/internal/domain"
)

type stubAPI struct {
	created   *domain.Order
	headerErr error
	linesErr  error

	gotUserID  string
	gotTotal   int64
	gotCreated time.Time
	gotOrderID string
	gotLines   []domain.OrderLine
}

func (s *stubAPI) CreateOrder(ctx context.Context, userID string, totalCents int64, createdAt time.Time) (*domain.Order, error) {
	s.gotUserID = userID
	s.gotTotal = totalCents
	s.gotCreated = createdAt
	if s.headerErr != nil {
		return nil, s.headerErr
	}
	return s.created, nil
}

func (s *stubAPI) CreateOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error {
	s.gotOrderID = orderID
	s.gotLines = lines
	return s.linesErr
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleSnapshot() domain.CartSnapshot {
	return domain.CartSnapshot{
		Lines: []domain.CartLine{
			{ProductID: "p-1", Name: "Pie de Limon", UnitPriceCents: 450, Quantity: 2},
			{ProductID: "p-2", Name: "Torta", UnitPriceCents: 300, Quantity: 1},
		},
		ItemCount:  3,
		TotalCents: 1200,
	}
}

func TestSubmitSuccess(t *testing.T) {
	api := &stubAPI{created: &domain.Order{ID: "ord-1", UserID: "user-1", TotalCents: 1200, Status: domain.OrderStatusPending}}
	svc := New(api, testLogger())
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.FixedZone("X", 3600))
	svc.now = func() time.Time { return fixed }

	created, err := svc.Submit(context.Background(), "user-1", sampleSnapshot())
	require.NoError(t, err)

	assert.Equal(t, "ord-1", created.ID)
	assert.Equal(t, "user-1", api.gotUserID)
	assert.Equal(t, int64(1200), api.gotTotal)
	assert.Equal(t, time.UTC, api.gotCreated.Location())

	require.Len(t, api.gotLines, 2)
	assert.Equal(t, "ord-1", api.gotOrderID)
	for _, line := range api.gotLines {
		assert.Equal(t, "ord-1", line.OrderID)
	}
	assert.Equal(t, api.gotLines, created.Lines)
}

func TestSubmitRecomputesTotalFromLines(t *testing.T) {
	api := &stubAPI{created: &domain.Order{ID: "ord-1"}}
	svc := New(api, testLogger())

	snap := sampleSnapshot()
	snap.TotalCents = 999999 // stale caller-side total is ignored

	_, err := svc.Submit(context.Background(), "user-1", snap)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), api.gotTotal)
}

func TestSubmitHeaderFailure(t *testing.T) {
	boom := errors.New("503")
	api := &stubAPI{headerErr: boom}
	svc := New(api, testLogger())

	_, err := svc.Submit(context.Background(), "user-1", sampleSnapshot())

	var headerErr *HeaderError
	require.ErrorAs(t, err, &headerErr)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, api.gotOrderID, "lines must not be written after a header failure")
}

func TestSubmitEmptyResult(t *testing.T) {
	svc := New(&stubAPI{created: nil}, testLogger())
	_, err := svc.Submit(context.Background(), "user-1", sampleSnapshot())
	require.ErrorIs(t, err, ErrEmptyResult)

	svc = New(&stubAPI{created: &domain.Order{}}, testLogger())
	_, err = svc.Submit(context.Background(), "user-1", sampleSnapshot())
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestSubmitLinesFailureReportsOrphanedHeader(t *testing.T) {
	boom := errors.New("500")
	api := &stubAPI{created: &domain.Order{ID: "ord-7"}, linesErr: boom}
	svc := New(api, testLogger())

	_, err := svc.Submit(context.Background(), "user-1", sampleSnapshot())

	var orphaned *OrphanedHeaderError
	require.ErrorAs(t, err, &orphaned)
	assert.Equal(t, "ord-7", orphaned.OrderID)
	require.ErrorIs(t, err, boom)
}
