package order

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"delicia/internal/domain"
	"delicia/internal/money"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

func NewPostgres(pool *pgxpool.Pool, logger logrus.FieldLogger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) CreateHeader(ctx context.Context, in CreateHeaderInput) (*domain.Order, error) {
	const q = `
INSERT INTO pedidos (userid, total, status, created_at)
VALUES ($1, $2::numeric, $3, $4)
RETURNING idpedido::text, userid::text, total::text, status, created_at
`
	var o domain.Order
	var total string
	err := r.pool.QueryRow(ctx, q,
		in.UserID,
		money.FormatCents(in.TotalCents),
		in.Status,
		in.CreatedAt,
	).Scan(&o.ID, &o.UserID, &total, &o.Status, &o.CreatedAt)
	if err != nil {
		r.logger.Errorf("order repo: create header user=%s: %v", in.UserID, err)
		return nil, err
	}
	cents, err := money.ParseDecimal(total)
	if err != nil {
		return nil, err
	}
	o.TotalCents = cents
	r.logger.Debugf("order repo: created header %s total=%s", o.ID, total)
	return &o, nil
}

// CreateLines inserts the batch atomically: either every line lands or none
// does. A pedido left without lines therefore only happens when the client
// never sent the batch.
func (r *postgresRepo) CreateLines(ctx context.Context, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	const q = `
INSERT INTO pedido_items (pedido_id, producto_id, cantidad, precio)
VALUES ($1, $2, $3, $4::numeric)
`
	for _, line := range lines {
		batch.Queue(q, line.OrderID, line.ProductID, line.Quantity, money.FormatCents(line.UnitPriceCents))
	}
	results := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := results.Exec(); err != nil {
			results.Close()
			r.logger.Errorf("order repo: insert lines for %s: %v", lines[0].OrderID, err)
			return err
		}
	}
	if err := results.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT idpedido::text, userid::text, total::text, status, created_at
FROM pedidos
WHERE userid = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Errorf("order repo: list user=%s: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		var total string
		if err := rows.Scan(&o.ID, &o.UserID, &total, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		cents, err := money.ParseDecimal(total)
		if err != nil {
			return nil, err
		}
		o.TotalCents = cents
		result = append(result, o)
	}
	return result, rows.Err()
}
