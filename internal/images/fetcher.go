package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

// DefaultUserAgent is sent with every asset request; several storefronts
// refuse the Go default
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxImageSize bounds a single download
const maxImageSize = 20 * 1024 * 1024

// Fetcher downloads product images into the public asset directory
type Fetcher struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	UserAgent  string
	Dir        string
}

// NewFetcher creates a fetcher writing into dir. timeout applies per image,
// rps bounds the request rate (0 disables the limit).
func NewFetcher(dir string, timeout time.Duration, rps float64) *Fetcher {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Limiter:   rate.NewLimiter(limit, 1),
		UserAgent: DefaultUserAgent,
		Dir:       dir,
	}
}

// Path is where the asset for an image id is stored
func (f *Fetcher) Path(id string) string {
	return filepath.Join(f.Dir, id+".jpg")
}

// Download fetches url and stores it as <id>.jpg. A failure concerns this
// image only; the caller logs it and moves on.
func (f *Fetcher) Download(ctx context.Context, url, id string) (string, error) {
	if err := f.Limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(imageData) == 0 {
		return "", fmt.Errorf("image URL returned an empty body")
	}

	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	outputPath := f.Path(id)
	if err := os.WriteFile(outputPath, imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	slog.Debug("Downloaded image", "id", id, "url", url, "bytes", len(imageData))
	return outputPath, nil
}
