package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delicia/internal/domain"
)

type stubLister struct {
	products []domain.Product
	err      error
}

func (s *stubLister) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var fixtures = []domain.Product{
	{ID: "p-1", Name: "Croissant de Mantequilla", Description: "Hojaldre horneado", PriceCents: 250},
	{ID: "p-2", Name: "Torta de Chocolate", Description: "Con ganache", PriceCents: 1800},
	{ID: "p-3", Name: "Pie de Limon", Description: "Crema de limon y merengue", PriceCents: 450},
}

func TestListPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := New(&stubLister{err: boom}, testLogger())

	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestListCancellationYieldsEmpty(t *testing.T) {
	svc := New(&stubLister{err: context.Canceled}, testLogger())

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	svc = New(&stubLister{err: context.DeadlineExceeded}, testLogger())
	products, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGet(t *testing.T) {
	svc := New(&stubLister{products: fixtures}, testLogger())

	p, err := svc.Get(context.Background(), "p-2")
	require.NoError(t, err)
	assert.Equal(t, "Torta de Chocolate", p.Name)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch(t *testing.T) {
	svc := New(&stubLister{products: fixtures}, testLogger())

	t.Run("blank query returns all", func(t *testing.T) {
		got, err := svc.Search(context.Background(), "   ")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("case-insensitive name match", func(t *testing.T) {
		got, err := svc.Search(context.Background(), "TORTA")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "p-2", got[0].ID)
	})

	t.Run("description match", func(t *testing.T) {
		got, err := svc.Search(context.Background(), "merengue")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "p-3", got[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := svc.Search(context.Background(), "empanada")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
