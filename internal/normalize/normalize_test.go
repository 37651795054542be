package normalize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/boutique-lumiere/curator/internal/taxonomy"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"german umlauts", "Échärpe Büro", "echaerpe-buero"},
		{"eszett", "Große Tasche", "grosse-tasche"},
		{"punctuation dropped", "Chemise (Oxford) - Bleu!", "chemise-oxford-bleu"},
		{"repeated hyphens", "T-shirt  --  col V", "t-shirt-col-v"},
		{"leading and trailing", "  -Montre-  ", "montre"},
		{"other accents folded", "À la carte", "a-la-carte"},
		{"digits kept", "Sac 24h", "sac-24h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slug(tt.input)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
			if again := Slug(tt.input); again != got {
				t.Errorf("Expected stable slug, got %q then %q", got, again)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int64
		ok       bool
	}{
		{"float truncates", 129.99, 129, true},
		{"int passes", 80, 80, true},
		{"decimal comma", "59,90", 59, true},
		{"currency sign", "1299 €", 1299, true},
		{"garbage", "sur demande", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("Expected (%d, %v), got (%d, %v)", tt.expected, tt.ok, got, ok)
			}
		})
	}
}

func TestPrices(t *testing.T) {
	tests := []struct {
		name   string
		record models.SourceRecord
		price  int64
		old    int64
		hasOld bool
	}{
		{"old price priority", models.SourceRecord{"price": 50.0, "oldPrice": 90.0, "old_price": 80.0, "compare_at_price": 70.0}, 50, 90, true},
		{"compare at price", models.SourceRecord{"price": "50,00", "compare_at_price": "75,50"}, 50, 75, true},
		{"no old price", models.SourceRecord{"price": 50.0}, 50, 0, false},
		{"old price not above price", models.SourceRecord{"price": 50.0, "old_price": 50.0}, 50, 0, false},
		{"fallback price field", models.SourceRecord{"price_fr": "19"}, 19, 0, false},
		{"negative clamps", models.SourceRecord{"price": -5.0}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, old := Prices(tt.record)
			if price != tt.price {
				t.Errorf("Expected price %d, got %d", tt.price, price)
			}
			got, ok := old.Get()
			if ok != tt.hasOld || got != tt.old {
				t.Errorf("Expected old price (%d, %v), got (%d, %v)", tt.old, tt.hasOld, got, ok)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<p>Coton <b>bio</b></p><p>Fabriqué en France</p>", "Coton bio Fabriqué en France"},
		{"Line one<br>Line two", "Line one Line two"},
		{"  plain   text ", "plain text"},
		{"<style>p{}</style><div>Laine</div>", "Laine"},
	}

	for _, tt := range tests {
		if got := PlainText(tt.input); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestImageURLs(t *testing.T) {
	tests := []struct {
		name     string
		record   models.SourceRecord
		expected []string
	}{
		{
			name: "objects and strings capped at three",
			record: models.SourceRecord{"images": []any{
				map[string]any{"src": "//cdn.example.com/a.jpg"},
				"https://cdn.example.com/b.jpg",
				map[string]any{"alt": "no url"},
				map[string]any{"url": "https://cdn.example.com/c.jpg"},
				"https://cdn.example.com/d.jpg",
			}},
			expected: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg", "https://cdn.example.com/c.jpg"},
		},
		{
			name:     "image_urls fallback",
			record:   models.SourceRecord{"images": []any{}, "image_urls": []any{"https://x/1.jpg"}},
			expected: []string{"https://x/1.jpg"},
		},
		{
			name:     "single image",
			record:   models.SourceRecord{"image": "https://x/only.jpg"},
			expected: []string{"https://x/only.jpg"},
		},
		{
			name:     "none",
			record:   models.SourceRecord{},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImageURLs(tt.record)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected %s at %d, got %s", tt.expected[i], i, got[i])
				}
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	n := New(Options{})
	record := models.SourceRecord{
		"name":        "Chemise Oxford",
		"name_en":     "Oxford Shirt",
		"category":    "Chemises homme",
		"description": "<p>Coton</p>",
		"price":       "89,00",
		"old_price":   120.0,
		"images":      []any{"https://x/1.jpg", "https://x/2.jpg"},
		"sizes":       []any{"S", "M"},
	}
	class := taxonomy.Result{
		Category:    models.MensClothing,
		Subcategory: models.Some("chemises-homme"),
		IDPrefix:    "chemises-homme",
	}

	out := n.Normalize(context.Background(), record, class, "chemises-homme-001")
	p := out.Product

	if p.Slug != "chemise-oxford" {
		t.Errorf("Expected slug chemise-oxford, got %s", p.Slug)
	}
	if p.Name != "Chemise Oxford" || p.NameFR != "Chemise Oxford" || p.NameEN != "Oxford Shirt" {
		t.Errorf("Unexpected names: %q %q %q", p.Name, p.NameFR, p.NameEN)
	}
	if p.Description != "Coton" || p.DescriptionEN != "Coton" {
		t.Errorf("Expected generic description fallback, got %q / %q", p.Description, p.DescriptionEN)
	}
	if p.Price != 89 || p.OldPrice.OrElse(0) != 120 {
		t.Errorf("Expected 89/120, got %d/%v", p.Price, p.OldPrice)
	}
	if len(p.Images) != 2 || p.Images[0] != "chemise_oxford" || p.Images[1] != "chemise_oxford_2" {
		t.Errorf("Unexpected image ids: %v", p.Images)
	}
	if len(out.Pending) != 2 || out.Pending[1].URL != "https://x/2.jpg" {
		t.Fatalf("Unexpected pending downloads: %v", out.Pending)
	}
	rec := out.Pending[0].Record
	if rec.ImageURL != "/images/products/chemise_oxford.jpg" || rec.ImageHint != "Chemises homme" || rec.Description != "Chemise Oxford" {
		t.Errorf("Unexpected image record: %+v", rec)
	}
	if sizes, ok := p.Sizes.Get(); !ok || len(sizes) != 2 {
		t.Errorf("Expected two sizes, got %v", p.Sizes)
	}
	if p.Colors.Set {
		t.Errorf("Expected colors to be absent")
	}
}

func TestNormalizeWithoutImagesOrDescription(t *testing.T) {
	n := New(Options{ImageHint: "watch"})
	out := n.Normalize(context.Background(), models.SourceRecord{"title": "Montre Pilote"}, taxonomy.Result{Category: models.Accessories}, "accessoires-001")

	if len(out.Pending) != 0 {
		t.Errorf("Expected no downloads, got %v", out.Pending)
	}
	if len(out.Product.Images) != 1 || out.Product.Images[0] != "montre_pilote" {
		t.Errorf("Expected synthesized image id, got %v", out.Product.Images)
	}
	if out.Product.DescriptionFR != "Un produit élégant Montre Pilote" {
		t.Errorf("Expected french template, got %q", out.Product.DescriptionFR)
	}
	if out.Product.Description != "Ein elegantes Produkt Montre Pilote" {
		t.Errorf("Expected german template, got %q", out.Product.Description)
	}
}

type fakeTranslator struct {
	err error
}

func (f fakeTranslator) Translate(_ context.Context, text, locale string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "[" + locale + "] " + text, nil
}

func TestNormalizeTranslation(t *testing.T) {
	record := models.SourceRecord{"name": "Chemise Oxford", "name_fr": "Chemise Oxford"}

	n := New(Options{Translator: fakeTranslator{}})
	p := n.Normalize(context.Background(), record, taxonomy.Result{}, "x-001").Product
	if p.NameEN != "[en] Chemise Oxford" {
		t.Errorf("Expected translated english name, got %q", p.NameEN)
	}
	if p.NameFR != "Chemise Oxford" {
		t.Errorf("Expected explicit french name to win, got %q", p.NameFR)
	}

	failing := New(Options{Translator: fakeTranslator{err: errors.New("quota")}})
	p = failing.Normalize(context.Background(), record, taxonomy.Result{}, "x-001").Product
	if p.NameEN != "Chemise Oxford" {
		t.Errorf("Expected generic fallback on translator error, got %q", p.NameEN)
	}
}

func TestNormalizeNumericSizesAndColors(t *testing.T) {
	n := New(Options{})
	tests := []struct {
		name   string
		sizes  any
		colors any
		want   []string
		set    bool
	}{
		{"shoe sizes", []any{38.0, 39.0, 40.5}, nil, []string{"38", "39", "40.5"}, true},
		{"mixed", []any{"S", 2.0}, nil, []string{"S", "2"}, true},
		{"nothing usable", []any{false, nil}, nil, nil, false},
		{"empty list kept", []any{}, nil, []string{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := models.SourceRecord{"name": "Bottines cuir", "sizes": tt.sizes, "colors": []any{"Noir", 3.0}}
			p := n.Normalize(context.Background(), record, taxonomy.Result{Category: models.Shoes, IDPrefix: "chaussures"}, "chaussures-001").Product

			sizes, ok := p.Sizes.Get()
			if ok != tt.set || strings.Join(sizes, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected sizes %v (set=%v), got %v (set=%v)", tt.want, tt.set, sizes, ok)
			}
			colors, ok := p.Colors.Get()
			if !ok || len(colors) != 1 || colors[0].NameFR != "Noir" {
				t.Errorf("Expected one color Noir, got %v", colors)
			}
		})
	}
}
