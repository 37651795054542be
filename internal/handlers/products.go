package handlers

import (
	"net/http"
	"strings"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/boutique-lumiere/curator/internal/models"
)

// HandleProducts lists products, optionally filtered by category and subcategory
func (h *Handler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category := r.URL.Query().Get("category")
	subcategory := r.URL.Query().Get("subcategory")

	c := h.cache.Get()
	products := make([]models.ProductRecord, 0, len(c.Products))
	for _, p := range c.Products {
		if category != "" && string(p.Category) != category {
			continue
		}
		if subcategory != "" && p.Subcategory.OrElse("") != subcategory {
			continue
		}
		products = append(products, p)
	}
	h.writeJSON(w, products)
}

type productDetail struct {
	models.ProductRecord
	ImageRecords []models.ImageRecord `json:"imageRecords"`
}

// HandleProductDetail returns one product with its registry entries
func (h *Handler) HandleProductDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/products/")

	c := h.cache.Get()
	for _, p := range c.Products {
		if p.ID != id {
			continue
		}
		detail := productDetail{ProductRecord: p, ImageRecords: []models.ImageRecord{}}
		registry := make(map[string]models.ImageRecord, len(c.Images))
		for _, img := range c.Images {
			registry[img.ID] = img
		}
		for _, imgID := range p.Images {
			if img, ok := registry[imgID]; ok {
				detail.ImageRecords = append(detail.ImageRecords, img)
			}
		}
		h.writeJSON(w, detail)
		return
	}
	h.writeError(w, "Product not found", http.StatusNotFound)
}

type checkResponse struct {
	catalog.Report
	OverCap int  `json:"overCap"`
	OK      bool `json:"ok"`
}

// HandleCheck returns the consistency report of the current catalog
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	report := h.merger.Check(h.cache.Get(), h.reject)
	h.writeJSON(w, checkResponse{Report: report, OverCap: report.OverCap(), OK: report.OK()})
}
