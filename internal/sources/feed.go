package sources

import "github.com/boutique-lumiere/curator/internal/models"

// FeedRow is the column layout of a Parquet product feed. Columns mirror the
// keys of a JSON feed so both formats reach the classifier the same way.
type FeedRow struct {
	Name          string   `parquet:"name,optional"`
	Title         string   `parquet:"title,optional"`
	NameDE        string   `parquet:"name_de,optional"`
	NameFR        string   `parquet:"name_fr,optional"`
	NameEN        string   `parquet:"name_en,optional"`
	Category      string   `parquet:"category,optional"`
	ProductType   string   `parquet:"product_type,optional"`
	Subcategory   string   `parquet:"subcategory,optional"`
	Collection    string   `parquet:"collection,optional"`
	Description   string   `parquet:"description,optional"`
	DescriptionDE string   `parquet:"description_de,optional"`
	DescriptionFR string   `parquet:"description_fr,optional"`
	DescriptionEN string   `parquet:"description_en,optional"`
	Price         *float64 `parquet:"price,optional"`
	OldPrice      *float64 `parquet:"old_price,optional"`
	Images        []string `parquet:"images,list"`
	Sizes         []string `parquet:"sizes,list"`
	Tags          []string `parquet:"tags,list"`
}

// Record converts a row into the loosely keyed form used everywhere else.
// Empty columns are left out so field fallbacks behave as for JSON.
func (row FeedRow) Record() models.SourceRecord {
	r := models.SourceRecord{}
	set := func(key, value string) {
		if value != "" {
			r[key] = value
		}
	}
	set("name", row.Name)
	set("title", row.Title)
	set("name_de", row.NameDE)
	set("name_fr", row.NameFR)
	set("name_en", row.NameEN)
	set("category", row.Category)
	set("product_type", row.ProductType)
	set("subcategory", row.Subcategory)
	set("collection", row.Collection)
	set("description", row.Description)
	set("description_de", row.DescriptionDE)
	set("description_fr", row.DescriptionFR)
	set("description_en", row.DescriptionEN)

	if row.Price != nil {
		r["price"] = *row.Price
	}
	if row.OldPrice != nil {
		r["old_price"] = *row.OldPrice
	}
	if len(row.Images) > 0 {
		r["images"] = toAny(row.Images)
	}
	if row.Sizes != nil {
		r["sizes"] = toAny(row.Sizes)
	}
	if len(row.Tags) > 0 {
		r["tags"] = toAny(row.Tags)
	}
	return r
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
