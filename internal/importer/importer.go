// Package importer runs one import: source records in, curated catalog out.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/boutique-lumiere/curator/internal/normalize"
	"github.com/boutique-lumiere/curator/internal/taxonomy"
	"github.com/google/uuid"
)

// ErrLimitReached is returned by an append run when the catalog is already full
var ErrLimitReached = errors.New("catalog size limit reached")

// Downloader stores the asset of one image
type Downloader interface {
	Download(ctx context.Context, url, id string) (string, error)
}

// Options select how a batch enters the catalog
type Options struct {
	// Source names the feed in logs and reports
	Source string
	// Subcategory, when set, switches the run to replace mode: the
	// subcategory's products are swapped for the matching records.
	Subcategory string
	// Category is written as the raw category of every record before
	// classification (a watch feed says "montres")
	Category string
}

// Replace reports whether the options select replace mode
func (o Options) Replace() bool {
	return o.Subcategory != ""
}

// Importer wires the classifier, normalizer, downloader and merger
type Importer struct {
	Store      *catalog.Store
	Merger     *catalog.Merger
	Classifier *taxonomy.Classifier
	Normalizer *normalize.Normalizer
	Downloader Downloader
	// IDSequence is taxonomy.SequenceBatch or taxonomy.SequenceCatalog
	IDSequence string
}

// Run imports records and saves the catalog. Nothing is written when the
// context is cancelled before the merge.
func (im *Importer) Run(ctx context.Context, records []models.SourceRecord, opts Options) (*Summary, error) {
	sum := &Summary{
		RunID:     uuid.NewString(),
		Source:    opts.Source,
		Mode:      "append",
		StartedAt: time.Now(),
		Input:     len(records),
	}
	if opts.Replace() {
		sum.Mode = "replace"
		sum.Subcategory = opts.Subcategory
	}
	log := slog.With("run", sum.RunID, "source", opts.Source)

	c, err := im.Store.Open()
	if err != nil {
		return sum, err
	}
	sum.Existing = len(c.Products)

	if opts.Category != "" {
		records = withCategory(records, opts.Category)
	}

	if opts.Replace() {
		var kept []models.SourceRecord
		for _, r := range records {
			if im.Classifier.BelongsTo(r, opts.Subcategory) {
				kept = append(kept, r)
			}
		}
		sum.Filtered = len(records) - len(kept)
		records = kept
		log.Info("Filtered records for subcategory", "subcategory", opts.Subcategory, "kept", len(records), "filtered", sum.Filtered)

		sum.Merge.ProductsRemoved, sum.Merge.ImagesRemoved = catalog.RemoveSubcategory(c, opts.Subcategory)
		log.Info("Removed previous subcategory products", "products", sum.Merge.ProductsRemoved, "images", sum.Merge.ImagesRemoved)
	} else {
		room := im.Merger.Remaining(c)
		if room <= 0 {
			return sum, fmt.Errorf("%w: %d products (max %d)", ErrLimitReached, len(c.Products), im.Merger.MaxProducts)
		}
		if len(records) > room {
			sum.Trimmed = len(records) - room
			records = records[:room]
			log.Info("Trimmed batch to remaining room", "room", room, "trimmed", sum.Trimmed)
		}
	}

	seq, err := taxonomy.NewSequencer(im.IDSequence, c.Products)
	if err != nil {
		return sum, err
	}

	known := c.ImageIDs()
	var batch catalog.Batch
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("import interrupted before save: %w", err)
		}

		name := normalize.Name(r)
		if name == "" {
			sum.SkippedNoName++
			continue
		}
		log.Info("Processing product", "index", i+1, "total", len(records), "name", r.DisplayName())

		if reason := im.Classifier.Reject(name, normalize.Slug(name)); reason != "" {
			log.Info("Rejected product", "name", name, "reason", reason)
			sum.Rejected = append(sum.Rejected, Rejection{Name: name, Reason: reason})
			continue
		}

		var class taxonomy.Result
		if opts.Replace() {
			class = im.Classifier.ClassifyInto(r, opts.Subcategory)
		} else {
			class = im.Classifier.Classify(r)
		}

		out := im.Normalizer.Normalize(ctx, r, class, seq.ID(class.IDPrefix, i+1))
		for _, pending := range out.Pending {
			if _, ok := known[pending.ID]; ok {
				sum.ImagesReused++
				continue
			}
			if _, err := im.Downloader.Download(ctx, pending.URL, pending.ID); err != nil {
				log.Warn("Failed to download image", "id", pending.ID, "url", pending.URL, "error", err)
				sum.ImagesFailed++
				continue
			}
			known[pending.ID] = struct{}{}
			batch.Images = append(batch.Images, pending.Record)
			sum.ImagesDownloaded++
		}

		batch.Products = append(batch.Products, out.Product)
		sum.Products = append(sum.Products, Placement{
			ID:          out.Product.ID,
			Name:        out.Product.NameFR,
			Gender:      string(class.Gender),
			Category:    string(class.Category),
			Subcategory: class.Subcategory.OrElse(""),
			Images:      len(out.Product.Images),
		})
	}

	if err := ctx.Err(); err != nil {
		return sum, fmt.Errorf("import interrupted before save: %w", err)
	}

	removed, imagesRemoved := sum.Merge.ProductsRemoved, sum.Merge.ImagesRemoved
	sum.Merge = im.Merger.Append(c, batch)
	sum.Merge.ProductsRemoved, sum.Merge.ImagesRemoved = removed, imagesRemoved

	if err := im.Store.Save(c); err != nil {
		return sum, fmt.Errorf("failed to save catalog: %w", err)
	}
	sum.Total = len(c.Products)
	sum.TotalImages = len(c.Images)
	sum.FinishedAt = time.Now()

	for _, id := range sum.Merge.Dangling {
		log.Warn("Product references an image with no registry entry", "image", id)
	}
	log.Info("Import complete", "added", sum.Merge.ProductsAdded, "total", sum.Total)
	return sum, nil
}

func withCategory(records []models.SourceRecord, category string) []models.SourceRecord {
	out := make([]models.SourceRecord, len(records))
	for i, r := range records {
		cp := maps.Clone(r)
		if cp == nil {
			cp = models.SourceRecord{}
		}
		cp["category"] = category
		out[i] = cp
	}
	return out
}
