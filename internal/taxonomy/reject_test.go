package taxonomy

import (
	"testing"

	"github.com/boutique-lumiere/curator/internal/models"
)

func TestReject(t *testing.T) {
	c := New(Default())

	tests := []struct {
		name     string
		product  string
		slug     string
		expected string
	}{
		{"noise symbol", "%", "", ReasonNameTooShort},
		{"promo percent", "-20% sur tout", "20-sur-tout", ReasonNoiseKeyword},
		{"too short", "AB", "ab", ReasonNameTooShort},
		{"navigation label", "Contactez-nous", "contactez-nous", ReasonNoiseKeyword},
		{"phone number", "Tel: 06 29", "tel-06-29", ReasonNoiseKeyword},
		{"no word", "12 34 56", "12-34-56", ReasonNoWord},
		{"accented word only", "Été", "ete", ReasonNoWord},
		{"short slug", "Chemise", "ch", ReasonSlugTooShort},
		{"accepted", "Chemise Oxford", "chemise-oxford", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Reject(tt.product, tt.slug); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBelongsTo(t *testing.T) {
	c := New(Default())

	tests := []struct {
		name     string
		record   models.SourceRecord
		expected bool
	}{
		{
			name:     "mens belt",
			record:   models.SourceRecord{"name": "Ceinture cuir homme", "category": "Maroquinerie"},
			expected: true,
		},
		{
			name:     "womens bag",
			record:   models.SourceRecord{"name": "Sac à main femme", "category": "Accessoires"},
			expected: false,
		},
		{
			name:     "accessory category without gender",
			record:   models.SourceRecord{"name": "Portefeuille", "category": "Accessoires"},
			expected: true,
		},
		{
			name:     "gender only in tags",
			record:   models.SourceRecord{"name": "Ceinture cuir tressé", "product_type": "Ceintures", "tags": []any{"homme", "cuir"}},
			expected: true,
		},
		{
			name:     "womens tag on a belt",
			record:   models.SourceRecord{"name": "Ceinture tressée", "product_type": "Ceintures", "tags": "femme, cuir"},
			expected: false,
		},
		{
			name:     "mens shirt is not an accessory",
			record:   models.SourceRecord{"name": "Chemise homme", "category": "Chemises"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.BelongsTo(tt.record, "accessoires-homme"); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSequencers(t *testing.T) {
	existing := []models.ProductRecord{
		{ID: "chemises-homme-004"},
		{ID: "chemises-homme-012"},
		{ID: "accessoires-002"},
		{ID: "bogus"},
	}

	batch := BatchSequencer{}
	if got := batch.ID("chemises-homme", 3); got != "chemises-homme-003" {
		t.Errorf("Expected chemises-homme-003, got %s", got)
	}

	catalog := NewCatalogSequencer(existing)
	if got := catalog.ID("chemises-homme", 1); got != "chemises-homme-013" {
		t.Errorf("Expected chemises-homme-013, got %s", got)
	}
	if got := catalog.ID("chemises-homme", 2); got != "chemises-homme-014" {
		t.Errorf("Expected chemises-homme-014, got %s", got)
	}
	if got := catalog.ID("robes-femme", 3); got != "robes-femme-001" {
		t.Errorf("Expected robes-femme-001, got %s", got)
	}

	if _, err := NewSequencer("random", nil); err == nil {
		t.Errorf("Expected error for unknown mode")
	}
}
