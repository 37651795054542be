package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/boutique-lumiere/curator/internal/storage"
	"github.com/boutique-lumiere/curator/internal/taxonomy"
)

type Handler struct {
	cache      *storage.CatalogCache
	merger     *catalog.Merger
	classifier *taxonomy.Classifier
}

func New(cache *storage.CatalogCache, merger *catalog.Merger, classifier *taxonomy.Classifier) *Handler {
	return &Handler{
		cache:      cache,
		merger:     merger,
		classifier: classifier,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) reject(p models.ProductRecord) string {
	name := p.Name
	if name == "" {
		name = p.NameFR
	}
	return h.classifier.Reject(name, p.Slug)
}
