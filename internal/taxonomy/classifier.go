package taxonomy

import (
	"strings"
	"unicode"

	"github.com/boutique-lumiere/curator/internal/models"
)

// Result is the taxonomy placement of one source record
type Result struct {
	Gender      Gender
	Category    models.Category
	Subcategory models.Optional[string]
	// IDPrefix is the leading part of the product id, before the sequence number
	IDPrefix string
}

// Classifier assigns source records to the storefront taxonomy
type Classifier struct {
	taxonomy Taxonomy
}

// New creates a classifier over the given keyword data
func New(t Taxonomy) *Classifier {
	return &Classifier{taxonomy: t}
}

// Taxonomy returns the keyword data the classifier was built with
func (c *Classifier) Taxonomy() Taxonomy {
	return c.taxonomy
}

// Classify places a source record in the taxonomy
func (c *Classifier) Classify(r models.SourceRecord) Result {
	rawCategory := r.String("category", "product_type", "type")
	rawSubcategory := r.String("subcategory", "collection")

	gender := c.Gender(
		r.String("name", "title", "name_fr"),
		rawCategory,
		rawSubcategory,
		r.String("description", "body_html"),
		strings.Join(r.Strings("tags"), " "),
	)

	category, matched := c.MapCategory(rawCategory)
	category = reconcile(gender, category)

	subcategory := models.None[string]()
	if matched {
		if sub, ok := c.MapSubcategory(rawSubcategory, category); ok {
			subcategory = models.Some(sub)
		}
	}

	return c.finish(gender, category, subcategory)
}

// ClassifyInto pins a record to the given subcategory. Gender is still
// computed so it can be reported, but it does not move the record.
func (c *Classifier) ClassifyInto(r models.SourceRecord, subcategory string) Result {
	gender := c.Gender(
		r.String("name", "title", "name_fr"),
		r.String("category", "product_type", "type"),
		r.String("description", "body_html"),
	)
	category := subcategoryCategory(subcategory)
	if category == "" {
		category = models.Accessories
	}
	return Result{
		Gender:      gender,
		Category:    category,
		Subcategory: models.Some(subcategory),
		IDPrefix:    subcategory,
	}
}

func (c *Classifier) finish(gender Gender, category models.Category, subcategory models.Optional[string]) Result {
	if category == models.Accessories {
		switch gender {
		case Femme:
			category, subcategory = models.WomensClothing, models.Some("accessoires-femme")
		case Homme:
			category, subcategory = models.MensClothing, models.Some("accessoires-homme")
		default:
			return Result{Gender: gender, Category: models.Accessories, Subcategory: models.None[string](), IDPrefix: "accessoires"}
		}
	}

	prefix := strings.ReplaceAll(string(category), "-", "_")
	if sub, ok := subcategory.Get(); ok {
		prefix = sub
	}
	return Result{Gender: gender, Category: category, Subcategory: subcategory, IDPrefix: prefix}
}

func reconcile(gender Gender, category models.Category) models.Category {
	switch {
	case gender == Femme && category == models.MensClothing:
		return models.WomensClothing
	case gender == Homme && category == models.WomensClothing:
		return models.MensClothing
	}
	return category
}

// Gender is a majority vote over gender keyword occurrences across texts.
// A tie, including no keyword at all, is unisex.
func (c *Classifier) Gender(texts ...string) Gender {
	tokens := tokenize(strings.Join(texts, " "))
	femme := countTokens(tokens, c.taxonomy.FemmeKeywords)
	homme := countTokens(tokens, c.taxonomy.HommeKeywords)

	switch {
	case femme > homme:
		return Femme
	case homme > femme:
		return Homme
	}
	return Unisex
}

// MapCategory finds the first category rule whose keyword occurs in raw.
// With no match the category is accessories and matched is false.
func (c *Classifier) MapCategory(raw string) (category models.Category, matched bool) {
	lower := strings.ToLower(raw)
	if lower == "" {
		return models.Accessories, false
	}
	for _, rule := range c.taxonomy.CategoryRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Category, true
		}
	}
	return models.Accessories, false
}

// MapSubcategory finds the first subcategory rule that matches raw and
// belongs under category
func (c *Classifier) MapSubcategory(raw string, category models.Category) (string, bool) {
	lower := strings.ToLower(raw)
	if lower == "" {
		return "", false
	}
	for _, rule := range c.taxonomy.SubcategoryRules {
		if !strings.Contains(lower, rule.Keyword) {
			continue
		}
		if consistent(rule.Subcategory, category) {
			return rule.Subcategory, true
		}
	}
	return "", false
}

func consistent(subcategory string, category models.Category) bool {
	if category == models.Accessories {
		return strings.HasPrefix(subcategory, "accessoires")
	}
	return subcategoryCategory(subcategory) == category
}

// CategoryFor returns the category a subcategory belongs to
func CategoryFor(subcategory string) models.Category {
	return subcategoryCategory(subcategory)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func countTokens(tokens, keywords []string) int {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[strings.ToLower(kw)] = struct{}{}
	}
	count := 0
	for _, tok := range tokens {
		if _, ok := set[tok]; ok {
			count++
		}
	}
	return count
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
