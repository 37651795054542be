package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/boutique-lumiere/curator/internal/taxonomy"
)

const maxImages = 3

// Locales the storefront publishes, keyed by the suffix used in source fields
const (
	LocaleDE = "de"
	LocaleFR = "fr"
	LocaleEN = "en"
)

// Templates are the per-locale placeholder descriptions. Each embeds the
// product name through a single %s verb.
type Templates struct {
	DE string `yaml:"de"`
	FR string `yaml:"fr"`
	EN string `yaml:"en"`
}

// DefaultTemplates describe a generic product
var DefaultTemplates = Templates{
	DE: "Ein elegantes Produkt %s",
	FR: "Un produit élégant %s",
	EN: "An elegant product %s",
}

// Translator fills a locale that the source record does not provide
type Translator interface {
	Translate(ctx context.Context, text, locale string) (string, error)
}

// Options configure a Normalizer
type Options struct {
	Templates Templates
	// ImagePath is the public URL directory of downloaded assets
	ImagePath string
	// ImageHint overrides the registry hint, otherwise the raw category is used
	ImageHint  string
	Translator Translator
}

// Normalizer builds canonical product records
type Normalizer struct {
	opts Options
}

// Output is one canonical product plus the images it still needs
type Output struct {
	Product models.ProductRecord
	Pending []models.PendingImage
}

// New creates a normalizer. Empty templates fall back to DefaultTemplates.
func New(opts Options) *Normalizer {
	if opts.Templates.DE == "" {
		opts.Templates.DE = DefaultTemplates.DE
	}
	if opts.Templates.FR == "" {
		opts.Templates.FR = DefaultTemplates.FR
	}
	if opts.Templates.EN == "" {
		opts.Templates.EN = DefaultTemplates.EN
	}
	if opts.ImagePath == "" {
		opts.ImagePath = "/images/products"
	}
	return &Normalizer{opts: opts}
}

// Name returns the generic display name of a source record
func Name(r models.SourceRecord) string {
	return strings.TrimSpace(r.String("name", "title", "name_fr"))
}

// Normalize builds the product for r, placed by class and identified by id
func (n *Normalizer) Normalize(ctx context.Context, r models.SourceRecord, class taxonomy.Result, id string) Output {
	name := Name(r)
	slug := Slug(name)
	description := PlainText(r.String("description", "body_html"))

	price, oldPrice := Prices(r)

	product := models.ProductRecord{
		ID:            id,
		Name:          n.localized(ctx, r, "name", LocaleDE, name, ""),
		NameFR:        n.localized(ctx, r, "name", LocaleFR, name, ""),
		NameEN:        n.localized(ctx, r, "name", LocaleEN, name, ""),
		Slug:          slug,
		Price:         price,
		OldPrice:      oldPrice,
		Description:   n.localized(ctx, r, "description", LocaleDE, description, fmt.Sprintf(n.opts.Templates.DE, name)),
		DescriptionFR: n.localized(ctx, r, "description", LocaleFR, description, fmt.Sprintf(n.opts.Templates.FR, name)),
		DescriptionEN: n.localized(ctx, r, "description", LocaleEN, description, fmt.Sprintf(n.opts.Templates.EN, name)),
		Category:      class.Category,
		Subcategory:   class.Subcategory,
		Sizes:         sizes(r),
		Colors:        colors(r),
	}

	hint := n.opts.ImageHint
	if hint == "" {
		hint = r.String("category", "product_type")
	}
	if hint == "" {
		hint = "product"
	}

	base := ImageID(slug)
	var pending []models.PendingImage
	for i, url := range ImageURLs(r) {
		imageID := base
		if i > 0 {
			imageID = fmt.Sprintf("%s_%d", base, i+1)
		}
		product.Images = append(product.Images, imageID)
		pending = append(pending, models.PendingImage{
			ID:  imageID,
			URL: url,
			Record: models.ImageRecord{
				ID:          imageID,
				Description: product.NameFR,
				ImageURL:    path.Join(n.opts.ImagePath, imageID+".jpg"),
				ImageHint:   hint,
			},
		})
	}
	if len(product.Images) == 0 {
		product.Images = []string{base}
	}

	return Output{Product: product, Pending: pending}
}

// localized resolves one locale of a field: explicit locale field, then a
// translation of the generic text, then the generic text, then the fallback
func (n *Normalizer) localized(ctx context.Context, r models.SourceRecord, field, locale, generic, fallback string) string {
	if v := strings.TrimSpace(r.String(field + "_" + locale)); v != "" {
		if field == "description" {
			return PlainText(v)
		}
		return v
	}
	if generic == "" {
		return fallback
	}
	if n.opts.Translator != nil {
		translated, err := n.opts.Translator.Translate(ctx, generic, locale)
		if err == nil && strings.TrimSpace(translated) != "" {
			return strings.TrimSpace(translated)
		}
		if err != nil {
			slog.Warn("Translation failed, keeping source text", "field", field, "locale", locale, "error", err)
		}
	}
	return generic
}

// ImageURLs returns up to three usable image URLs of a record, looking at
// images, then image_urls, then image
func ImageURLs(r models.SourceRecord) []string {
	var candidates []any
	for _, key := range []string{"images", "image_urls"} {
		if list, ok := r[key].([]any); ok && len(list) > 0 {
			candidates = list
			break
		}
		if list, ok := r[key].([]string); ok && len(list) > 0 {
			for _, s := range list {
				candidates = append(candidates, s)
			}
			break
		}
	}
	if len(candidates) == 0 {
		if single, ok := r.Value("image"); ok {
			candidates = []any{single}
		}
	}

	var urls []string
	for _, c := range candidates {
		if len(urls) == maxImages {
			break
		}
		if url := imageURL(c); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

func imageURL(v any) string {
	var url string
	switch val := v.(type) {
	case string:
		url = val
	case map[string]any:
		url = models.SourceRecord(val).String("src", "url", "image")
	}
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	return url
}

func sizes(r models.SourceRecord) models.Optional[[]string] {
	return models.Sizes(r["sizes"])
}

func colors(r models.SourceRecord) models.Optional[[]models.Color] {
	return models.Colors(r["colors"])
}
