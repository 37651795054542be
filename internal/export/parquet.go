// Package export writes the catalog in analytics-friendly formats.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/parquet-go/parquet-go"
)

// ProductRow is one product as a Parquet row. The image registry is
// denormalized into ImageURLs so a row is self-contained.
type ProductRow struct {
	ID            string   `parquet:"id"`
	Name          string   `parquet:"name"`
	NameFR        string   `parquet:"name_fr"`
	NameEN        string   `parquet:"name_en"`
	Slug          string   `parquet:"slug"`
	Price         int64    `parquet:"price"`
	OldPrice      *int64   `parquet:"old_price,optional"`
	Description   string   `parquet:"description"`
	DescriptionFR string   `parquet:"description_fr"`
	DescriptionEN string   `parquet:"description_en"`
	Category      string   `parquet:"category"`
	Subcategory   *string  `parquet:"subcategory,optional"`
	Images        []string `parquet:"images,list"`
	ImageURLs     []string `parquet:"image_urls,list"`
	Sizes         []string `parquet:"sizes,list"`
	Colors        []string `parquet:"colors_fr,list"`
}

// Rows flattens the catalog in product order
func Rows(c *catalog.Catalog) []ProductRow {
	urls := make(map[string]string, len(c.Images))
	for _, img := range c.Images {
		urls[img.ID] = img.ImageURL
	}

	rows := make([]ProductRow, 0, len(c.Products))
	for _, p := range c.Products {
		row := ProductRow{
			ID:            p.ID,
			Name:          p.Name,
			NameFR:        p.NameFR,
			NameEN:        p.NameEN,
			Slug:          p.Slug,
			Price:         p.Price,
			Description:   p.Description,
			DescriptionFR: p.DescriptionFR,
			DescriptionEN: p.DescriptionEN,
			Category:      string(p.Category),
			Images:        p.Images,
			Sizes:         p.Sizes.OrElse(nil),
		}
		if v, ok := p.OldPrice.Get(); ok {
			row.OldPrice = &v
		}
		if v, ok := p.Subcategory.Get(); ok {
			row.Subcategory = &v
		}
		for _, id := range p.Images {
			if url, ok := urls[id]; ok {
				row.ImageURLs = append(row.ImageURLs, url)
			}
		}
		for _, color := range p.Colors.OrElse(nil) {
			row.Colors = append(row.Colors, color.NameFR)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteParquet writes the catalog to path
func WriteParquet(path string, c *catalog.Catalog) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	rows := Rows(c)
	writer := parquet.NewGenericWriter[ProductRow](file)
	if _, err := writer.Write(rows); err != nil {
		return 0, fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return len(rows), file.Close()
}
