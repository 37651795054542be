package pgsync

import (
	"context"
	"database/sql"
	"testing"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/boutique-lumiere/curator/internal/models"
)

func TestProductArgs(t *testing.T) {
	full := models.ProductRecord{
		ID:          "robes-femme-001",
		Price:       89,
		OldPrice:    models.Some[int64](120),
		Category:    models.WomensClothing,
		Subcategory: models.Some("robes-femme"),
		Images:      []string{"robe"},
		Sizes:       models.Some([]string{"S", "M"}),
		Colors:      models.Some([]models.Color{{NameDE: "Rot", NameFR: "Rouge", NameEN: "Red"}}),
	}
	args, err := productArgs(full, 3)
	if err != nil {
		t.Fatalf("Failed to build args: %v", err)
	}
	if len(args) != 16 {
		t.Fatalf("Expected 16 parameters, got %d", len(args))
	}
	if old := args[6].(sql.NullInt64); !old.Valid || old.Int64 != 120 {
		t.Errorf("Expected old price 120, got %+v", old)
	}
	if sub := args[11].(sql.NullString); !sub.Valid || sub.String != "robes-femme" {
		t.Errorf("Expected subcategory, got %+v", sub)
	}
	if args[13] == nil {
		t.Errorf("Expected sizes array")
	}
	if colors, ok := args[14].(string); !ok || colors != `[{"name_de":"Rot","name_fr":"Rouge","name_en":"Red"}]` {
		t.Errorf("Unexpected colors JSON: %v", args[14])
	}
	if args[15] != 3 {
		t.Errorf("Expected position 3, got %v", args[15])
	}

	bare, err := productArgs(models.ProductRecord{ID: "accessoires-001", Category: models.Accessories}, 0)
	if err != nil {
		t.Fatalf("Failed to build args: %v", err)
	}
	if bare[6].(sql.NullInt64).Valid || bare[11].(sql.NullString).Valid {
		t.Errorf("Expected NULL old price and subcategory")
	}
	if bare[13] != nil || bare[14] != nil {
		t.Errorf("Expected NULL sizes and colors, got %v and %v", bare[13], bare[14])
	}
}

func TestIDs(t *testing.T) {
	c := &catalog.Catalog{
		Products: []models.ProductRecord{{ID: "a-001"}, {ID: "b-001"}},
		Images:   []models.ImageRecord{{ID: "a"}},
	}
	products, images := ids(c)
	if len(products) != 2 || products[1] != "b-001" || len(images) != 1 {
		t.Errorf("Unexpected ids: %v %v", products, images)
	}
}

func TestOpenRequiresURL(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Errorf("Expected error for empty database URL")
	}
}
