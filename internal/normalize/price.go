package normalize

import (
	"strings"

	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/shopspring/decimal"
)

var currencyCleaner = strings.NewReplacer("€", "", "$", "", "EUR", "", " ", "", "\u00a0", "")

// ParsePrice reads a whole-unit price. Numbers are truncated; strings accept
// a decimal comma. ok is false when the value is not a price.
func ParsePrice(v any) (price int64, ok bool) {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val).IntPart(), true
	case int:
		return int64(val), true
	case int64:
		return val, true
	case string:
		s := currencyCleaner.Replace(strings.TrimSpace(val))
		s = strings.ReplaceAll(s, ",", ".")
		d, err := decimal.NewFromString(s)
		if err != nil {
			return 0, false
		}
		return d.IntPart(), true
	}
	return 0, false
}

// Prices extracts the current and pre-discount prices of a source record.
// A pre-discount price that is not above the current price is dropped.
func Prices(r models.SourceRecord) (int64, models.Optional[int64]) {
	var price int64
	if v, ok := r.Value("price", "price_fr"); ok {
		if p, ok := ParsePrice(v); ok && p > 0 {
			price = p
		}
	}

	old := models.None[int64]()
	if v, ok := r.Value("oldPrice", "old_price", "compare_at_price"); ok {
		if p, ok := ParsePrice(v); ok && p > price {
			old = models.Some(p)
		}
	}
	return price, old
}
