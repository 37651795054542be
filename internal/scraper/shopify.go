package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/boutique-lumiere/curator/internal/models"
	"golang.org/x/time/rate"
)

// DefaultEndpoints are the public Shopify catalog endpoints tried in order
var DefaultEndpoints = []string{"/products.json", "/collections/all/products.json"}

const pageSize = 250

// Shopify reads a storefront through its public products.json endpoint
type Shopify struct {
	BaseURL    string
	Endpoints  []string
	MaxPages   int
	Limit      int
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	UserAgent  string
}

type shopifyResponse struct {
	Products []shopifyProduct `json:"products"`
}

type shopifyProduct struct {
	Title       string          `json:"title"`
	Handle      string          `json:"handle"`
	BodyHTML    string          `json:"body_html"`
	ProductType string          `json:"product_type"`
	Vendor      string          `json:"vendor"`
	Tags        json.RawMessage `json:"tags"`
	Variants    []struct {
		Price          any `json:"price"`
		CompareAtPrice any `json:"compare_at_price"`
	} `json:"variants"`
	Images []struct {
		Src string `json:"src"`
	} `json:"images"`
	Options []struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"options"`
}

var sizeOptionNames = map[string]bool{"size": true, "taille": true, "größe": true, "grösse": true, "groesse": true}

// Scrape returns the products of the first endpoint that yields any
func (s *Shopify) Scrape(ctx context.Context) ([]models.SourceRecord, error) {
	endpoints := s.Endpoints
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints
	}

	for _, endpoint := range endpoints {
		records, err := s.fetchAll(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("Shopify endpoint failed", "url", s.BaseURL+endpoint, "error", err)
			continue
		}
		if len(records) > 0 {
			slog.Info("Products found via API", "url", s.BaseURL+endpoint, "count", len(records))
			return records, nil
		}
	}
	return nil, ErrNoProducts
}

func (s *Shopify) fetchAll(ctx context.Context, endpoint string) ([]models.SourceRecord, error) {
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	var records []models.SourceRecord
	for page := 1; page <= maxPages; page++ {
		products, err := s.fetchPage(ctx, endpoint, page)
		if err != nil {
			if len(records) > 0 {
				slog.Warn("Stopping pagination after error", "page", page, "error", err)
				break
			}
			return nil, err
		}
		if len(products) == 0 {
			break
		}
		for _, p := range products {
			if rec, ok := p.record(); ok {
				records = append(records, rec)
			}
		}
		if s.Limit > 0 && len(records) >= s.Limit {
			return records[:s.Limit], nil
		}
	}
	return records, nil
}

func (s *Shopify) fetchPage(ctx context.Context, endpoint string, page int) ([]shopifyProduct, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	url := fmt.Sprintf("%s%s?limit=%d&page=%d", strings.TrimRight(s.BaseURL, "/"), endpoint, pageSize, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	var body shopifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return body.Products, nil
}

// record maps a Shopify product onto the feed keys the classifier reads
func (p shopifyProduct) record() (models.SourceRecord, bool) {
	name := strings.TrimSpace(p.Title)
	if name == "" {
		return nil, false
	}

	tags := p.tags()
	category := p.ProductType
	if category == "" {
		category = strings.Join(tags, " ")
	}

	r := models.SourceRecord{
		"name":         name,
		"body_html":    p.BodyHTML,
		"category":     category,
		"product_type": p.ProductType,
		"handle":       p.Handle,
		"vendor":       p.Vendor,
	}
	if len(tags) > 0 {
		r["tags"] = toAny(tags)
	}
	if len(p.Variants) > 0 {
		r["price"] = p.Variants[0].Price
		if p.Variants[0].CompareAtPrice != nil {
			r["compare_at_price"] = p.Variants[0].CompareAtPrice
		}
	}

	var images []any
	for _, img := range p.Images {
		src := strings.TrimSpace(img.Src)
		if src == "" {
			continue
		}
		if !strings.HasPrefix(src, "http") {
			src = "https:" + src
		}
		images = append(images, src)
	}
	if len(images) > 0 {
		r["images"] = images
	}

	for _, opt := range p.Options {
		if sizeOptionNames[strings.ToLower(opt.Name)] {
			r["sizes"] = toAny(opt.Values)
			break
		}
	}
	return r, true
}

// tags accepts both the array form and the comma separated string form
func (p shopifyProduct) tags() []string {
	if len(p.Tags) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(p.Tags, &list); err == nil {
		return list
	}
	var joined string
	if err := json.Unmarshal(p.Tags, &joined); err == nil {
		return models.SourceRecord{"tags": joined}.Strings("tags")
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
