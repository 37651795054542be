package catalog

import (
	"sort"

	"github.com/boutique-lumiere/curator/internal/models"
)

// DefaultMaxProducts is the storefront's catalog size cap
const DefaultMaxProducts = 1100

// Batch is a set of newly normalized products and the image records whose
// assets were fetched for them
type Batch struct {
	Products []models.ProductRecord
	Images   []models.ImageRecord
}

// Result summarizes what a merge changed
type Result struct {
	ProductsAdded   int
	ImagesAdded     int
	ImagesSkipped   int
	ProductsRemoved int
	ImagesRemoved   int
	Truncated       int
	OrphansRemoved  int
	// Dangling lists image ids referenced by products but missing from the registry
	Dangling []string
}

// Merger combines batches with the persisted catalog under a size cap
type Merger struct {
	MaxProducts int
}

// NewMerger creates a merger. A non-positive cap means DefaultMaxProducts.
func NewMerger(maxProducts int) *Merger {
	if maxProducts <= 0 {
		maxProducts = DefaultMaxProducts
	}
	return &Merger{MaxProducts: maxProducts}
}

// Remaining is how many products the catalog can still take
func (m *Merger) Remaining(c *Catalog) int {
	return m.MaxProducts - len(c.Products)
}

// Append adds the batch after the existing entries. Images whose id is
// already registered, including earlier in the same batch, are not added again.
func (m *Merger) Append(c *Catalog, b Batch) Result {
	var res Result

	c.Products = append(c.Products, b.Products...)
	res.ProductsAdded = len(b.Products)

	known := c.ImageIDs()
	for _, img := range b.Images {
		if _, ok := known[img.ID]; ok {
			res.ImagesSkipped++
			continue
		}
		known[img.ID] = struct{}{}
		c.Images = append(c.Images, img)
		res.ImagesAdded++
	}

	res.Truncated, res.OrphansRemoved = m.EnforceCap(c)
	if res.Truncated > 0 {
		res.ProductsAdded -= min(res.Truncated, res.ProductsAdded)
	}
	res.Dangling = Dangling(c)
	return res
}

// RemoveSubcategory deletes the products of a subcategory and the registry
// entries they referenced. An image still used by a remaining product stays.
// A replace run calls it before fetching the new batch's images, then Append.
func RemoveSubcategory(c *Catalog, subcategory string) (products, images int) {
	var kept []models.ProductRecord
	dropped := make(map[string]struct{})
	for _, p := range c.Products {
		if sub, ok := p.Subcategory.Get(); ok && sub == subcategory {
			for _, id := range p.Images {
				dropped[id] = struct{}{}
			}
			products++
			continue
		}
		kept = append(kept, p)
	}
	if kept == nil {
		kept = []models.ProductRecord{}
	}
	c.Products = kept

	used := c.ReferencedImages()
	var keptImages []models.ImageRecord
	for _, img := range c.Images {
		_, wasDropped := dropped[img.ID]
		_, stillUsed := used[img.ID]
		if wasDropped && !stillUsed {
			images++
			continue
		}
		keptImages = append(keptImages, img)
	}
	if keptImages == nil {
		keptImages = []models.ImageRecord{}
	}
	c.Images = keptImages
	return products, images
}

// EnforceCap truncates the product list to the cap by position and drops
// the images no surviving product references
func (m *Merger) EnforceCap(c *Catalog) (truncated, orphans int) {
	if len(c.Products) <= m.MaxProducts {
		return 0, 0
	}
	truncated = len(c.Products) - m.MaxProducts
	c.Products = c.Products[:m.MaxProducts]
	return truncated, RemoveOrphans(c)
}

// RemoveOrphans drops registry entries that no product references
func RemoveOrphans(c *Catalog) int {
	used := c.ReferencedImages()
	kept := make([]models.ImageRecord, 0, len(c.Images))
	for _, img := range c.Images {
		if _, ok := used[img.ID]; ok {
			kept = append(kept, img)
		}
	}
	removed := len(c.Images) - len(kept)
	c.Images = kept
	return removed
}

// RemoveInvalid drops products for which valid returns false and returns them
func RemoveInvalid(c *Catalog, valid func(models.ProductRecord) bool) []models.ProductRecord {
	kept := make([]models.ProductRecord, 0, len(c.Products))
	var removed []models.ProductRecord
	for _, p := range c.Products {
		if valid(p) {
			kept = append(kept, p)
			continue
		}
		removed = append(removed, p)
	}
	c.Products = kept
	return removed
}

// Dangling returns the sorted image ids referenced by products but absent
// from the registry. These need an asset supplied by hand.
func Dangling(c *Catalog) []string {
	registered := c.ImageIDs()
	var missing []string
	for id := range c.ReferencedImages() {
		if _, ok := registered[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
