package taxonomy

import (
	"strings"

	"github.com/boutique-lumiere/curator/internal/models"
)

// BelongsTo decides whether a source record is a candidate for a
// gendered subcategory such as accessoires-homme. It is used to filter a
// feed before a subcategory is replaced wholesale.
func (c *Classifier) BelongsTo(r models.SourceRecord, subcategory string) bool {
	rawCategory := strings.ToLower(r.String("category", "product_type", "type"))
	text := strings.ToLower(strings.Join([]string{
		r.String("name", "title", "name_fr"),
		rawCategory,
		r.String("description", "body_html"),
		strings.Join(r.Strings("tags"), " "),
	}, " "))
	tokens := tokenize(text)

	own, opposite := c.taxonomy.HommeKeywords, c.taxonomy.FemmeKeywords
	if subcategoryCategory(subcategory) == models.WomensClothing {
		own, opposite = opposite, own
	}
	hasOwn := countTokens(tokens, own) > 0
	hasOpposite := countTokens(tokens, opposite) > 0

	if hasOpposite && !hasOwn {
		return false
	}
	if hasOwn && containsAny(text, c.productTypeKeywords(subcategory)) {
		return true
	}
	if base := c.baseKeyword(subcategory); base != "" && strings.Contains(rawCategory, base) && !hasOpposite {
		return true
	}
	return false
}

func (c *Classifier) productTypeKeywords(subcategory string) []string {
	if strings.HasPrefix(subcategory, "accessoires") {
		return c.taxonomy.AccessoryKeywords
	}
	var out []string
	for _, rule := range c.taxonomy.SubcategoryRules {
		if rule.Subcategory == subcategory {
			out = append(out, rule.Keyword)
		}
	}
	return out
}

func (c *Classifier) baseKeyword(subcategory string) string {
	for _, rule := range c.taxonomy.SubcategoryRules {
		if rule.Subcategory == subcategory {
			return rule.Keyword
		}
	}
	return ""
}
