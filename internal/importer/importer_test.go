package importer

import (
	"context"
	"strings"
	"testing"

	"delicia/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,nombre,descripcion,categoria,precio,imagen_url
00000000-0000-0000-0000-000000000001,Croissant de Mantequilla,Hojaldre horneado,panaderia,2.50,croissant.jpg
,Torta de Chocolate,Con ganache,tortas,18,
,Alfajor de Maicena,Dulce de leche,dulces,1.75,alfajor.jpg`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products imported, got %d", count)
	}

	if repo.items[0].Name != "Croissant de Mantequilla" || repo.items[0].PriceCents != 250 {
		t.Fatalf("unexpected product data: %+v", repo.items[0])
	}
	if repo.items[0].ID != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("expected id to be preserved, got %s", repo.items[0].ID)
	}
	if repo.items[1].ID != "" || repo.items[1].PriceCents != 1800 {
		t.Fatalf("unexpected second product: %+v", repo.items[1])
	}
	if repo.items[2].ImageURL != "alfajor.jpg" {
		t.Fatalf("expected image to be kept, got %q", repo.items[2].ImageURL)
	}
}

func TestCSVImporter_RunInvalidPrice(t *testing.T) {
	csvData := `id,nombre,descripcion,categoria,precio,imagen_url
,Croissant,Hojaldre,panaderia,no-es-numero,`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected an error for an unparseable price")
	}
}

func TestCSVImporter_RunRowWithoutName(t *testing.T) {
	csvData := `id,nombre,descripcion,categoria,precio,imagen_url
,,Hojaldre,panaderia,2.50,`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected an error for a row without nombre")
	}
}

func TestCSVImporter_RunInvalidID(t *testing.T) {
	csvData := `id,nombre,descripcion,categoria,precio,imagen_url
not-a-uuid,Croissant,Hojaldre,panaderia,2.50,`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected an error for a malformed id")
	}
}
