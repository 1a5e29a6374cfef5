package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"delicia/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

const selectColumns = `id::text, full_name, COALESCE(email, ''), password_hash, created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Record, error) {
	const q = `SELECT ` + selectColumns + ` FROM profiles WHERE id = $1`
	return r.get(ctx, q, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*Record, error) {
	const q = `SELECT ` + selectColumns + ` FROM profiles WHERE lower(email) = lower($1)`
	return r.get(ctx, q, email)
}

func (r *postgresRepo) get(ctx context.Context, query, arg string) (*Record, error) {
	var rec Record
	err := r.pool.QueryRow(ctx, query, arg).Scan(&rec.ID, &rec.FullName, &rec.Email, &rec.PasswordHash, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Errorf("profile repo: get %s: %v", arg, err)
		return nil, err
	}
	return &rec, nil
}

func (r *postgresRepo) Create(ctx context.Context, rec Record) (*Record, error) {
	const q = `
INSERT INTO profiles (id, full_name, email, password_hash)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET
    full_name = EXCLUDED.full_name,
    password_hash = EXCLUDED.password_hash
RETURNING id::text, created_at
`
	res := rec
	err := r.pool.QueryRow(ctx, q, rec.ID, rec.FullName, rec.Email, rec.PasswordHash).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Errorf("profile repo: create %s: %v", rec.Email, err)
		return nil, err
	}
	return &res, nil
}
