package product

import (
	"context"
	"errors"

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT idproducto::text, nombreproducto, COALESCE(descripcion, ''), COALESCE(categoria, ''), COALESCE(imagen_url, ''), precio::text
FROM productos
ORDER BY nombreproducto
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Errorf("product repo: list: %v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Errorf("product repo: list rows: %v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT idproducto::text, nombreproducto, COALESCE(descripcion, ''), COALESCE(categoria, ''), COALESCE(imagen_url, ''), precio::text
FROM productos
WHERE idproducto = $1
`
	row := r.pool.QueryRow(ctx, q, id)
	p, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Errorf("product repo: get id=%s: %v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO productos (idproducto, nombreproducto, descripcion, categoria, imagen_url, precio)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6::numeric)
ON CONFLICT (nombreproducto) DO UPDATE SET
    descripcion = EXCLUDED.descripcion,
    categoria = EXCLUDED.categoria,
    imagen_url = EXCLUDED.imagen_url,
    precio = EXCLUDED.precio
RETURNING idproducto::text
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.ID,
		product.Name,
		product.Description,
		product.Category,
		product.ImageURL,
		money.FormatCents(product.PriceCents),
	).Scan(&res.ID)
	if err != nil {
		r.logger.Errorf("product repo: upsert %q: %v", product.Name, err)
		return nil, err
	}
	r.logger.Debugf("product repo: upserted %q id=%s", res.Name, res.ID)
	return &res, nil
}

func scanProduct(scan func(dest ...any) error) (domain.Product, error) {
	var p domain.Product
	var price string
	if err := scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.ImageURL, &price); err != nil {
		return domain.Product{}, err
	}
	cents, err := money.ParseDecimal(price)
	if err != nil {
		return domain.Product{}, err
	}
	p.PriceCents = cents
	return p, nil
}
