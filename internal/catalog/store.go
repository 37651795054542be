package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/boutique-lumiere/curator/internal/models"
)

// ErrUnreadable marks a catalog file that exists but cannot be parsed
var ErrUnreadable = errors.New("catalog file unreadable")

// Catalog is the in-memory pair of product list and image registry
type Catalog struct {
	Products []models.ProductRecord
	Images   []models.ImageRecord
}

// ImageIDs returns the set of identifiers present in the image registry
func (c *Catalog) ImageIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(c.Images))
	for _, img := range c.Images {
		ids[img.ID] = struct{}{}
	}
	return ids
}

// ReferencedImages returns the set of image identifiers used by products
func (c *Catalog) ReferencedImages() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, p := range c.Products {
		for _, id := range p.Images {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// Store reads and writes the two catalog files wholesale
type Store struct {
	ProductsPath string
	ImagesPath   string
}

// NewStore creates a store over the given file paths
func NewStore(productsPath, imagesPath string) *Store {
	return &Store{ProductsPath: productsPath, ImagesPath: imagesPath}
}

// Load reads both artifacts. A missing or unreadable file is an empty list.
func (s *Store) Load() *Catalog {
	products, _ := s.LoadProducts()
	return &Catalog{
		Products: products,
		Images:   s.LoadImages(),
	}
}

// Open reads both artifacts for a run that will write them back. A missing
// file is an empty list, but a file that exists and cannot be parsed is an
// ErrUnreadable error so the caller never overwrites it.
func (s *Store) Open() (*Catalog, error) {
	products, err := s.readProducts()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	images, err := s.readImages()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return &Catalog{Products: products, Images: images}, nil
}

// LoadProducts reads the product list. found is false when the file is
// absent or unreadable, in which case the list is empty.
func (s *Store) LoadProducts() ([]models.ProductRecord, bool) {
	products, err := s.readProducts()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Product file unreadable, starting from an empty catalog", "path", s.ProductsPath, "error", err)
		}
		return products, false
	}
	return products, true
}

// LoadImages reads the image registry
func (s *Store) LoadImages() []models.ImageRecord {
	images, err := s.readImages()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Image registry unreadable, starting from an empty registry", "path", s.ImagesPath, "error", err)
	}
	return images
}

// readProducts always returns a non-nil list, empty on error
func (s *Store) readProducts() ([]models.ProductRecord, error) {
	var products []models.ProductRecord
	if err := readJSON(s.ProductsPath, &products); err != nil {
		return []models.ProductRecord{}, err
	}
	if products == nil {
		products = []models.ProductRecord{}
	}
	return products, nil
}

func (s *Store) readImages() ([]models.ImageRecord, error) {
	var registry models.ImageRegistry
	if err := readJSON(s.ImagesPath, &registry); err != nil {
		return []models.ImageRecord{}, err
	}
	if registry.PlaceholderImages == nil {
		return []models.ImageRecord{}, nil
	}
	return registry.PlaceholderImages, nil
}

// Save writes both artifacts
func (s *Store) Save(c *Catalog) error {
	if err := s.SaveProducts(c.Products); err != nil {
		return err
	}
	return s.SaveImages(c.Images)
}

// SaveProducts replaces the product file
func (s *Store) SaveProducts(products []models.ProductRecord) error {
	if products == nil {
		products = []models.ProductRecord{}
	}
	if err := writeJSON(s.ProductsPath, products); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}

// SaveImages replaces the image registry file
func (s *Store) SaveImages(images []models.ImageRecord) error {
	if images == nil {
		images = []models.ImageRecord{}
	}
	if err := writeJSON(s.ImagesPath, models.ImageRegistry{PlaceholderImages: images}); err != nil {
		return fmt.Errorf("failed to save image registry: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v next to path and renames it into place, so readers
// never observe a half-written file
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
