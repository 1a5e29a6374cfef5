package order

import (
	"context"
	"time"

	"delicia/internal/domain"
)

type CreateHeaderInput struct {
	UserID     string
	TotalCents int64
	Status     string
	CreatedAt  time.Time
}

type Repository interface {
	CreateHeader(ctx context.Context, in CreateHeaderInput) (*domain.Order, error)
	CreateLines(ctx context.Context, lines []domain.OrderLine) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
