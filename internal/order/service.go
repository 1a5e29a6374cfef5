// Package order implements the two-phase order submission: the backend
// models the order header and its lines as separate resources, written
// sequentially.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"delicia/internal/domain"
)

// ErrEmptyResult reports a header write that succeeded at the HTTP level but
// returned no created record. Terminal for the attempt; no retry.
var ErrEmptyResult = errors.New("order header write returned no record")

// HeaderError reports a failed header write (step 1). Nothing was created
// remotely.
type HeaderError struct {
	Err error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("order header write failed: %v", e.Err)
}

func (e *HeaderError) Unwrap() error { return e.Err }

// OrphanedHeaderError reports a failed line-batch write (step 2) after the
// header was created: the header now exists remotely in pending status with
// no lines. No compensating deletion is attempted; OrderID is carried so
// support tooling can reconcile. The cart is untouched, so the user can
// retry.
type OrphanedHeaderError struct {
	OrderID string
	Err     error
}

func (e *OrphanedHeaderError) Error() string {
	return fmt.Sprintf("order lines write failed, header %s left pending without lines: %v", e.OrderID, e.Err)
}

func (e *OrphanedHeaderError) Unwrap() error { return e.Err }

type apiClient interface {
	CreateOrder(ctx context.Context, userID string, totalCents int64, createdAt time.Time) (*domain.Order, error)
	CreateOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error
}

type Service struct {
	client apiClient
	log    logrus.FieldLogger
	now    func() time.Time
}

func New(client apiClient, logger logrus.FieldLogger) *Service {
	return &Service{client: client, log: logger, now: time.Now}
}

// Submit converts a cart snapshot into a persisted order. The snapshot is
// captured by the caller before the first write and is the only source for
// both phases: the live cart is never re-read mid-protocol, so concurrent
// edits during the network round-trip cannot skew the order. Step 2 starts
// only after step 1's success is observed.
func (s *Service) Submit(ctx context.Context, userID string, snap domain.CartSnapshot) (*domain.Order, error) {
	var total int64
	for _, line := range snap.Lines {
		total += line.UnitPriceCents * int64(line.Quantity)
	}

	created, err := s.client.CreateOrder(ctx, userID, total, s.now().UTC())
	if err != nil {
		return nil, &HeaderError{Err: err}
	}
	if created == nil || created.ID == "" {
		return nil, ErrEmptyResult
	}

	lines := make([]domain.OrderLine, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		lines = append(lines, domain.OrderLine{
			OrderID:        created.ID,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}
	if err := s.client.CreateOrderLines(ctx, created.ID, lines); err != nil {
		s.log.Warnf("order: header %s created but lines failed: %v", created.ID, err)
		return nil, &OrphanedHeaderError{OrderID: created.ID, Err: err}
	}

	created.Lines = lines
	s.log.Infof("order: submitted %s with %d lines, total %d cents", created.ID, len(lines), total)
	return created, nil
}
