package storage

import (
	"os"
	"sync"
	"time"

	"github.com/boutique-lumiere/curator/internal/catalog"
)

// CatalogCache holds the last loaded catalog and reloads it when either
// file changes on disk, so a running server follows imports.
type CatalogCache struct {
	store *catalog.Store

	mu       sync.RWMutex
	catalog  *catalog.Catalog
	products time.Time
	images   time.Time
}

func New(store *catalog.Store) *CatalogCache {
	return &CatalogCache{store: store}
}

// Get returns the current catalog. Callers must not modify it.
func (s *CatalogCache) Get() *catalog.Catalog {
	products, images := modTime(s.store.ProductsPath), modTime(s.store.ImagesPath)

	s.mu.RLock()
	c := s.catalog
	fresh := c != nil && products.Equal(s.products) && images.Equal(s.images)
	s.mu.RUnlock()
	if fresh {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog == nil || !products.Equal(s.products) || !images.Equal(s.images) {
		s.catalog = s.store.Load()
		s.products, s.images = products, images
	}
	return s.catalog
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
