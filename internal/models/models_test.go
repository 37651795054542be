package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProductRecordNullFields(t *testing.T) {
	p := ProductRecord{
		ID:       "montres-001",
		Name:     "Uhr",
		Slug:     "uhr",
		Category: Accessories,
		Images:   []string{"uhr"},
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Failed to marshal product: %v", err)
	}

	for _, key := range []string{`"oldPrice":null`, `"subcategory":null`, `"sizes":null`, `"colors":null`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected %s in %s", key, data)
		}
	}
}

func TestOptionalDistinguishesEmptyFromAbsent(t *testing.T) {
	var withEmpty, withNull ProductRecord
	if err := json.Unmarshal([]byte(`{"sizes":[]}`), &withEmpty); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"sizes":null}`), &withNull); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if sizes, ok := withEmpty.Sizes.Get(); !ok || len(sizes) != 0 {
		t.Errorf("Expected present empty sizes, got %v (set=%v)", sizes, ok)
	}
	if withNull.Sizes.Set {
		t.Errorf("Expected absent sizes, got %v", withNull.Sizes.Value)
	}
	if got := withNull.OldPrice.OrElse(-1); got != -1 {
		t.Errorf("Expected default -1, got %d", got)
	}
}

func TestSourceRecordString(t *testing.T) {
	tests := []struct {
		name     string
		record   SourceRecord
		keys     []string
		expected string
	}{
		{
			name:     "first key wins",
			record:   SourceRecord{"name": "Chemise", "title": "Shirt"},
			keys:     []string{"name", "title"},
			expected: "Chemise",
		},
		{
			name:     "skips blank values",
			record:   SourceRecord{"name": "  ", "title": "Shirt"},
			keys:     []string{"name", "title"},
			expected: "Shirt",
		},
		{
			name:     "formats numbers",
			record:   SourceRecord{"price": 129.5},
			keys:     []string{"price"},
			expected: "129.5",
		},
		{
			name:     "missing keys",
			record:   SourceRecord{},
			keys:     []string{"name"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.String(tt.keys...); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSourceRecordStrings(t *testing.T) {
	r := SourceRecord{
		"tags":  "homme, chemise ,,lin",
		"sizes": []any{"S", "M", 3.0, ""},
	}

	tags := r.Strings("tags")
	if len(tags) != 3 || tags[1] != "chemise" {
		t.Errorf("Expected [homme chemise lin], got %v", tags)
	}

	sizes := r.Strings("sizes")
	if len(sizes) != 3 || sizes[2] != "3" {
		t.Errorf("Expected [S M 3], got %v", sizes)
	}
}

func TestProductRecordLenientDecode(t *testing.T) {
	data := `{"id":"chemises-homme-001","name":"Chemise","price":49.9,"oldPrice":"79,90",` +
		`"sizes":[38,39.5,"40"],"colors":["Bleu",{"name_fr":"Rouge","name_en":"Red","name_de":"Rot"}]}`

	var p ProductRecord
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if p.ID != "chemises-homme-001" || p.Name != "Chemise" {
		t.Errorf("Expected plain fields to decode, got %+v", p)
	}
	if p.Price != 49 {
		t.Errorf("Expected price 49, got %d", p.Price)
	}
	if old, ok := p.OldPrice.Get(); !ok || old != 79 {
		t.Errorf("Expected oldPrice 79, got %v", p.OldPrice)
	}
	sizes, _ := p.Sizes.Get()
	if len(sizes) != 3 || sizes[0] != "38" || sizes[1] != "39.5" || sizes[2] != "40" {
		t.Errorf("Expected [38 39.5 40], got %v", sizes)
	}
	colors, _ := p.Colors.Get()
	if len(colors) != 2 || colors[0].NameDE != "Bleu" || colors[1].NameEN != "Red" {
		t.Errorf("Unexpected colors: %+v", colors)
	}

	if err := json.Unmarshal([]byte(`{"id":"x","price":"sur demande"}`), &p); err == nil {
		t.Errorf("Expected error for a non-numeric price")
	}
}

func TestSizesAndColors(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		set      bool
		expected int
	}{
		{"absent", nil, false, 0},
		{"empty list", []any{}, true, 0},
		{"numbers", []any{38.0, 39.0, 40.0}, true, 3},
		{"nothing usable", []any{true, ""}, false, 0},
		{"comma string", "S, M", true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sizes, ok := Sizes(tt.value).Get()
			if ok != tt.set || len(sizes) != tt.expected {
				t.Errorf("Expected set=%v with %d sizes, got set=%v %v", tt.set, tt.expected, ok, sizes)
			}
		})
	}

	if Colors([]any{42.0, map[string]any{}}).Set {
		t.Errorf("Expected colors with nothing usable to be absent")
	}
}

func TestCategoryValid(t *testing.T) {
	if !Shoes.Valid() {
		t.Errorf("Expected shoes to be valid")
	}
	if Category("hats").Valid() {
		t.Errorf("Expected hats to be invalid")
	}
}
