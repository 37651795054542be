// Package scraper pulls raw product records from partner storefronts.
package scraper

import (
	"context"
	"errors"
	"log/slog"

	"github.com/boutique-lumiere/curator/internal/models"
)

// ErrNoProducts is returned when no endpoint or page produced a product
var ErrNoProducts = errors.New("no products found")

// Scraper returns raw records from one storefront
type Scraper interface {
	Scrape(ctx context.Context) ([]models.SourceRecord, error)
}

// Chain tries each scraper in turn and keeps the first non-empty result
type Chain []Scraper

// Scrape implements Scraper
func (c Chain) Scrape(ctx context.Context) ([]models.SourceRecord, error) {
	for i, s := range c {
		records, err := s.Scrape(ctx)
		if err == nil && len(records) > 0 {
			return records, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil && !errors.Is(err, ErrNoProducts) {
			slog.Warn("Scraper failed, trying next", "step", i+1, "error", err)
		}
	}
	return nil, ErrNoProducts
}
