package profile

import (
	"context"
	"time"
)

// Record is a stored account: the profile row doubles as the credential
// store for the development backend.
type Record struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*Record, error)
	GetByEmail(ctx context.Context, email string) (*Record, error)
	Create(ctx context.Context, rec Record) (*Record, error)
}
