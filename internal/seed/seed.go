package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name        string
	Description string
	Category    string
	ImageURL    string
	Price       string
}

// DemoEmail and DemoPassword are the credentials of the seeded account.
const (
	DemoEmail    = "demo@delicia.local"
	DemoPassword = "demo1234"
)

// Apply inserts demo data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureDemoUser(ctx, pool); err != nil {
		return fmt.Errorf("ensure demo user: %w", err)
	}

	products := []productSeed{
		{
			Name:        "Croissant de Mantequilla",
			Description: "Hojaldre de mantequilla horneado cada mañana",
			Category:    "panaderia",
			Price:       "2.50",
		},
		{
			Name:        "Torta de Chocolate",
			Description: "Bizcocho de cacao con cobertura de ganache",
			Category:    "tortas",
			Price:       "18.00",
		},
		{
			Name:        "Alfajor de Maicena",
			Description: "Relleno de dulce de leche y coco rallado",
			Category:    "dulces",
			Price:       "1.75",
		},
		{
			Name:        "Pie de Limon",
			Description: "Base de galleta con crema de limon y merengue",
			Category:    "tortas",
			Price:       "4.50",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func ensureDemoUser(ctx context.Context, pool *pgxpool.Pool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO profiles (full_name, email, password_hash)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
`
	_, err = pool.Exec(ctx, q, "Cliente Demo", DemoEmail, string(hash))
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO productos (nombreproducto, descripcion, categoria, imagen_url, precio)
VALUES ($1, $2, $3, $4, $5::numeric)
ON CONFLICT (nombreproducto) DO UPDATE
SET descripcion = EXCLUDED.descripcion,
    categoria = EXCLUDED.categoria,
    imagen_url = EXCLUDED.imagen_url,
    precio = EXCLUDED.precio
`
	_, err := pool.Exec(ctx, q, p.Name, p.Description, p.Category, p.ImageURL, p.Price)
	return err
}
