package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boutique-lumiere/curator/internal/taxonomy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curator.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CURATOR_MAX_PRODUCTS", "")
	t.Setenv("CURATOR_PRODUCTS_FILE", "")
	t.Setenv("CURATOR_ID_SEQUENCE", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	if cfg.ProductsFile != "new_products.json" {
		t.Errorf("Expected default products file, got %s", cfg.ProductsFile)
	}
	if cfg.MaxProducts != 1100 {
		t.Errorf("Expected cap 1100, got %d", cfg.MaxProducts)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("Expected 30s fetch timeout, got %s", cfg.FetchTimeout)
	}
	if len(cfg.Sources) != 3 {
		t.Errorf("Expected 3 default sources, got %d", len(cfg.Sources))
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
products_file: data/products.json
max_products: 50
fetch_timeout: 10s
id_sequence: catalog
sources:
  - name: demo
    base_url: https://demo.example
    mode: replace
    subcategory: vestes-homme
    templates:
      fr: "Une veste %s"
`)
	t.Setenv("CURATOR_MAX_PRODUCTS", "75")
	t.Setenv("CURATOR_PRODUCTS_FILE", "")
	t.Setenv("CURATOR_ID_SEQUENCE", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if cfg.ProductsFile != "data/products.json" {
		t.Errorf("Expected products file from YAML, got %s", cfg.ProductsFile)
	}
	if cfg.MaxProducts != 75 {
		t.Errorf("Expected env to override cap, got %d", cfg.MaxProducts)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %s", cfg.FetchTimeout)
	}
	if cfg.IDSequence != taxonomy.SequenceCatalog {
		t.Errorf("Expected catalog sequencing, got %s", cfg.IDSequence)
	}
	if cfg.ImagesFile != "src/lib/placeholder-images.json" {
		t.Errorf("Expected unset keys to keep defaults, got %s", cfg.ImagesFile)
	}

	src, err := cfg.Source("demo")
	if err != nil {
		t.Fatalf("Failed to find source: %v", err)
	}
	if src.Subcategory != "vestes-homme" || src.Templates.FR != "Une veste %s" {
		t.Errorf("Unexpected source: %+v", src)
	}
	if _, err := cfg.Source("24s"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Expected sources list to be replaced, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "prodcuts_file: x.json\n"},
		{"bad cap", "max_products: 0\n"},
		{"bad sequence", "id_sequence: random\n"},
		{"replace without subcategory", "sources:\n  - name: a\n    base_url: https://a\n    mode: replace\n"},
		{"template without verb", "sources:\n  - name: a\n    base_url: https://a\n    templates:\n      de: \"Ein Produkt\"\n"},
		{"duplicate source", "sources:\n  - name: a\n    base_url: https://a\n  - name: a\n    base_url: https://b\n"},
		{"unknown kind", "sources:\n  - name: a\n    base_url: https://a\n    kind: ftp\n"},
	}

	t.Setenv("CURATOR_MAX_PRODUCTS", "")
	t.Setenv("CURATOR_ID_SEQUENCE", "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Expected error for explicit missing config")
	}
}

func TestTaxonomyFor(t *testing.T) {
	cfg := Default()
	watches, err := cfg.Source("temps-et-merveilles")
	if err != nil {
		t.Fatalf("Failed to find source: %v", err)
	}

	tax := cfg.TaxonomyFor(watches)
	c := taxonomy.New(tax)
	if g := c.Gender("Montre Diver automatique"); g != taxonomy.Homme {
		t.Errorf("Expected source keyword to vote homme, got %s", g)
	}

	plain := taxonomy.New(cfg.TaxonomyFor(Source{}))
	if g := plain.Gender("Montre Diver automatique"); g != taxonomy.Unisex {
		t.Errorf("Expected base taxonomy to stay unisex, got %s", g)
	}
}

func TestReplaceSource(t *testing.T) {
	cfg := Default()

	src, ok := cfg.ReplaceSource("accessoires-homme")
	if !ok || src.Name != "faguo" {
		t.Fatalf("Expected faguo to own accessoires-homme, got %q (ok=%v)", src.Name, ok)
	}
	if src.ImageHint != "accessoire homme" || src.Templates.EN != "An elegant men's accessory %s" {
		t.Errorf("Unexpected replace source: %+v", src)
	}
	if _, ok := cfg.ReplaceSource("robes-femme"); ok {
		t.Errorf("Expected no source for robes-femme")
	}
}
