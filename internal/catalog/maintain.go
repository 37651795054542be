package catalog

import (
	"github.com/boutique-lumiere/curator/internal/models"
)

// CleanResult reports what Clean changed
type CleanResult struct {
	Found         bool
	Removed       []models.ProductRecord
	Remaining     int
	ImagesRemoved int
}

// Clean removes the products for which valid is false and then every image
// no remaining product references. Without a product file nothing happens.
// The registry is rewritten only if an image was removed.
func Clean(s *Store, valid func(models.ProductRecord) bool) (CleanResult, error) {
	products, found := s.LoadProducts()
	if !found {
		return CleanResult{}, nil
	}
	c := &Catalog{Products: products, Images: s.LoadImages()}

	res := CleanResult{Found: true}
	res.Removed = RemoveInvalid(c, valid)
	res.Remaining = len(c.Products)
	if err := s.SaveProducts(c.Products); err != nil {
		return res, err
	}

	res.ImagesRemoved = RemoveOrphans(c)
	if res.ImagesRemoved > 0 {
		if err := s.SaveImages(c.Images); err != nil {
			return res, err
		}
	}
	return res, nil
}

// LimitResult reports what Limit changed
type LimitResult struct {
	Found         bool
	Before        int
	After         int
	ImagesRemoved int
}

// Limit truncates the stored catalog to the cap. Nothing is written when
// the product file is missing or already within the cap.
func (m *Merger) Limit(s *Store) (LimitResult, error) {
	products, found := s.LoadProducts()
	res := LimitResult{Found: found, Before: len(products), After: len(products)}
	if !found || len(products) <= m.MaxProducts {
		return res, nil
	}

	c := &Catalog{Products: products, Images: s.LoadImages()}
	truncated, orphans := m.EnforceCap(c)
	res.After = res.Before - truncated
	res.ImagesRemoved = orphans

	if err := s.SaveProducts(c.Products); err != nil {
		return res, err
	}
	if orphans > 0 {
		if err := s.SaveImages(c.Images); err != nil {
			return res, err
		}
	}
	return res, nil
}
