package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the top-level storefront taxonomy node
type Category string

const (
	MensClothing   Category = "mens-clothing"
	WomensClothing Category = "womens-clothing"
	Accessories    Category = "accessories"
	Shoes          Category = "shoes"
	Sport          Category = "sport"
	WinterClothing Category = "winter-clothing"
)

// Categories lists every valid category in display order
var Categories = []Category{MensClothing, WomensClothing, Accessories, Shoes, Sport, WinterClothing}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Color is a color descriptor with one name per storefront locale
type Color struct {
	NameDE string `json:"name_de"`
	NameFR string `json:"name_fr"`
	NameEN string `json:"name_en"`
}

// ProductRecord is one entry of the persisted product list.
// Name and Description hold the German (default locale) text.
type ProductRecord struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	NameFR        string             `json:"name_fr"`
	NameEN        string             `json:"name_en"`
	Slug          string             `json:"slug"`
	Price         int64              `json:"price"`
	OldPrice      Optional[int64]    `json:"oldPrice"`
	Description   string             `json:"description"`
	DescriptionFR string             `json:"description_fr"`
	DescriptionEN string             `json:"description_en"`
	Category      Category           `json:"category"`
	Subcategory   Optional[string]   `json:"subcategory"`
	Images        []string           `json:"images"`
	Sizes         Optional[[]string] `json:"sizes"`
	Colors        Optional[[]Color]  `json:"colors"`
}

// ImageRecord is one entry of the placeholder image registry
type ImageRecord struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	ImageHint   string `json:"imageHint"`
}

// ImageRegistry is the on-disk shape of the image registry file
type ImageRegistry struct {
	PlaceholderImages []ImageRecord `json:"placeholderImages"`
}

// PendingImage is an image identifier that still needs its asset downloaded.
// Record is what enters the registry once the download succeeds.
type PendingImage struct {
	ID     string
	URL    string
	Record ImageRecord
}

// SourceRecord is a loosely structured product as found in a feed file or a scrape
type SourceRecord map[string]any

// String returns the first non-empty string value among keys.
// Numbers are formatted so that a numeric "name" still reads as text.
func (r SourceRecord) String(keys ...string) string {
	for _, key := range keys {
		if s, ok := scalarString(r[key]); ok {
			return s
		}
	}
	return ""
}

// Value returns the first present, non-null value among keys
func (r SourceRecord) Value(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok && v != nil && !isBlank(v) {
			return v, true
		}
	}
	return nil, false
}

// Strings returns a string list stored under key. A comma separated string
// is split, which is how Shopify exposes tags.
func (r SourceRecord) Strings(key string) []string {
	switch val := r[key].(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := scalarString(item); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return nil
}

// scalarString formats a non-blank string or a number. Shoe sizes and
// some names arrive as JSON numbers.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return s, true
		}
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	}
	return "", false
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	}
	return false
}

// DisplayName is the label used for progress output
func (r SourceRecord) DisplayName() string {
	name := r.String("name", "title", "name_fr")
	if name == "" {
		return "Produit"
	}
	if len([]rune(name)) > 60 {
		return string([]rune(name)[:60])
	}
	return name
}

func (p ProductRecord) String() string {
	return fmt.Sprintf("%s (%s)", p.ID, p.Slug)
}
