package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/gocolly/colly/v2"
)

// DefaultStartPaths are the listing pages crawled when the API is closed
var DefaultStartPaths = []string{"/collections/all", "/products", "/"}

var priceNumber = regexp.MustCompile(`\d+[.,]?\d*`)

// Crawler collects products by following product links from listing pages
type Crawler struct {
	BaseURL    string
	StartPaths []string
	Limit      int
	Delay      time.Duration
	Timeout    time.Duration
	UserAgent  string
}

// Scrape crawls the first start path that yields products
func (c *Crawler) Scrape(ctx context.Context) ([]models.SourceRecord, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	starts := c.StartPaths
	if len(starts) == 0 {
		starts = DefaultStartPaths
	}

	for _, start := range starts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		startURL := base.ResolveReference(&url.URL{Path: start}).String()
		records, err := c.crawl(ctx, base, startURL)
		if err != nil {
			slog.Warn("Listing page failed", "url", startURL, "error", err)
			continue
		}
		if len(records) > 0 {
			slog.Info("Products found via HTML", "url", startURL, "count", len(records))
			return records, nil
		}
	}
	return nil, ErrNoProducts
}

func (c *Crawler) crawl(ctx context.Context, base *url.URL, startURL string) ([]models.SourceRecord, error) {
	collector := colly.NewCollector(
		colly.UserAgent(c.UserAgent),
		colly.MaxDepth(2),
	)
	if c.Timeout > 0 {
		collector.SetRequestTimeout(c.Timeout)
	}
	if err := collector.Limit(&colly.LimitRule{DomainGlob: "*", Delay: c.Delay}); err != nil {
		return nil, fmt.Errorf("failed to set crawl limit: %w", err)
	}

	var records []models.SourceRecord
	full := func() bool { return c.Limit > 0 && len(records) >= c.Limit }

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil || full() {
			r.Abort()
		}
	})

	collector.OnHTML("html", func(e *colly.HTMLElement) {
		if !isProductURL(e.Request.URL) || full() {
			return
		}
		if rec, ok := parseProductPage(e); ok {
			records = append(records, rec)
		}
	})

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		u, err := url.Parse(link)
		if err != nil || u.Host != base.Host || !isProductURL(u) {
			return
		}
		u.Fragment = ""
		_ = e.Request.Visit(u.String())
	})

	collector.OnError(func(r *colly.Response, err error) {
		slog.Warn("Failed to fetch page", "url", r.Request.URL.String(), "status", r.StatusCode, "error", err)
	})

	if err := collector.Visit(startURL); err != nil {
		return nil, err
	}
	collector.Wait()
	return records, nil
}

func isProductURL(u *url.URL) bool {
	return strings.Contains(strings.ToLower(u.Path), "/product")
}

// parseProductPage reads one product page. Selectors follow common
// storefront themes and are deliberately loose.
func parseProductPage(e *colly.HTMLElement) (models.SourceRecord, bool) {
	doc := e.DOM

	heading := doc.Find(`h1[class*="title"], h1[class*="name"], h1[class*="product"]`).First()
	if heading.Length() == 0 {
		heading = doc.Find("h1").First()
	}
	name := strings.TrimSpace(heading.Text())
	if len([]rune(name)) < 3 {
		return nil, false
	}

	r := models.SourceRecord{
		"name": name,
		"url":  e.Request.URL.String(),
	}

	priceText := strings.ReplaceAll(doc.Find(`[class*="price"]`).First().Text(), " ", "")
	if m := priceNumber.FindString(priceText); m != "" {
		r["price"] = m
	}

	var paragraphs []string
	desc := doc.Find(`[class*="description"]`).First()
	desc.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < 3
	})
	if len(paragraphs) > 0 {
		r["description"] = strings.Join(paragraphs, " ")
	} else if text := strings.TrimSpace(desc.Text()); text != "" {
		r["description"] = text
	}

	var images []any
	doc.Find(`img[class*="product"], img[class*="main"]`).Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			src, _ = img.Attr("data-src")
		}
		lower := strings.ToLower(src)
		if src == "" || strings.Contains(lower, "logo") || strings.Contains(lower, "icon") {
			return
		}
		images = append(images, e.Request.AbsoluteURL(src))
	})
	if len(images) > 0 {
		r["image_urls"] = images
	}

	if crumb := doc.Find(`[class*="breadcrumb"] a`).Last(); crumb.Length() > 0 {
		r["category"] = strings.TrimSpace(crumb.Text())
	}
	return r, true
}
