package catalog

import (
	"sort"

	"github.com/boutique-lumiere/curator/internal/models"
)

// Issue is one product-level finding of Check
type Issue struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Report is the read-only consistency state of a catalog
type Report struct {
	Products          int      `json:"products"`
	Images            int      `json:"images"`
	MaxProducts       int      `json:"maxProducts"`
	DuplicateIDs      []string `json:"duplicateIds"`
	DuplicateImageIDs []string `json:"duplicateImageIds"`
	Dangling          []string `json:"dangling"`
	Orphans           []string `json:"orphans"`
	Invalid           []Issue  `json:"invalid"`
}

// OverCap is how many products exceed the cap
func (r Report) OverCap() int {
	return max(0, r.Products-r.MaxProducts)
}

// OK reports whether the catalog has no findings
func (r Report) OK() bool {
	return r.OverCap() == 0 && len(r.DuplicateIDs) == 0 && len(r.DuplicateImageIDs) == 0 &&
		len(r.Dangling) == 0 && len(r.Orphans) == 0 && len(r.Invalid) == 0
}

// Check inspects a catalog without changing it. reject returns a non-empty
// reason for a product that should not be listed.
func (m *Merger) Check(c *Catalog, reject func(models.ProductRecord) string) Report {
	r := Report{
		Products:    len(c.Products),
		Images:      len(c.Images),
		MaxProducts: m.MaxProducts,
		Dangling:    Dangling(c),
	}

	seen := make(map[string]int)
	for _, p := range c.Products {
		seen[p.ID]++
		if reason := reject(p); reason != "" {
			r.Invalid = append(r.Invalid, Issue{ID: p.ID, Reason: reason})
		} else if !p.Category.Valid() {
			r.Invalid = append(r.Invalid, Issue{ID: p.ID, Reason: "unknown category " + string(p.Category)})
		} else if old, ok := p.OldPrice.Get(); ok && old <= p.Price {
			r.Invalid = append(r.Invalid, Issue{ID: p.ID, Reason: "old price not above price"})
		}
	}
	r.DuplicateIDs = duplicates(seen)

	seenImages := make(map[string]int)
	used := c.ReferencedImages()
	for _, img := range c.Images {
		seenImages[img.ID]++
		if _, ok := used[img.ID]; !ok {
			r.Orphans = append(r.Orphans, img.ID)
		}
	}
	r.DuplicateImageIDs = duplicates(seenImages)
	return r
}

func duplicates(counts map[string]int) []string {
	var out []string
	for id, n := range counts {
		if n > 1 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
