package export

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/parquet-go/parquet-go"
)

func sampleCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Products: []models.ProductRecord{
			{
				ID: "robes-femme-001", NameFR: "Robe lin", Price: 89, OldPrice: models.Some[int64](120),
				Category: models.WomensClothing, Subcategory: models.Some("robes-femme"),
				Images: []string{"robe_lin", "robe_lin_2"},
				Sizes:  models.Some([]string{"S", "M"}),
				Colors: models.Some([]models.Color{{NameFR: "Rouge"}}),
			},
			{ID: "accessoires-001", NameFR: "Foulard", Category: models.Accessories, Images: []string{"foulard"}},
		},
		Images: []models.ImageRecord{
			{ID: "robe_lin", ImageURL: "/images/products/robe_lin.jpg"},
			{ID: "foulard", ImageURL: "/images/products/foulard.jpg"},
		},
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleCatalog())
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	dress := rows[0]
	if dress.OldPrice == nil || *dress.OldPrice != 120 {
		t.Errorf("Expected old price 120, got %v", dress.OldPrice)
	}
	if len(dress.ImageURLs) != 1 {
		t.Errorf("Expected only registered images to resolve, got %v", dress.ImageURLs)
	}
	if len(dress.Colors) != 1 || dress.Colors[0] != "Rouge" {
		t.Errorf("Expected French color names, got %v", dress.Colors)
	}
	if rows[1].Subcategory != nil || rows[1].OldPrice != nil {
		t.Errorf("Expected unset optionals to stay nil")
	}
}

func TestWriteParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "catalog.parquet")
	n, err := WriteParquet(path, sampleCatalog())
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 rows written, got %d", n)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open export: %v", err)
	}
	defer file.Close()

	reader := parquet.NewGenericReader[ProductRow](file)
	defer reader.Close()
	rows := make([]ProductRow, 4)
	got, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if got != 2 || rows[0].ID != "robes-femme-001" || rows[1].Category != "accessories" {
		t.Errorf("Unexpected rows read back: %d %+v", got, rows[:got])
	}
}
