// Package catalog serves product listings and the client-side search the UI
// filter box uses.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"delicia/internal/domain"
)

type lister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type Service struct {
	client lister
	log    logrus.FieldLogger
}

func New(client lister, logger logrus.FieldLogger) *Service {
	return &Service{client: client, log: logger}
}

// List fetches the catalog. A cancelled ctx yields an empty result set
// cleanly; no partial state is retained.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.log.Debugf("catalog: list cancelled: %v", err)
			return []domain.Product{}, nil
		}
		return nil, err
	}
	return products, nil
}

// Get returns a single product by id, or domain.ErrNotFound. The backend
// exposes only the list endpoint, so the lookup scans a fresh listing.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Search lists the catalog and filters by a case-insensitive substring match
// on name or description. A blank query returns the full list.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return products, nil
	}

	needle := strings.ToLower(query)
	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}
