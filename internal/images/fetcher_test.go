package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("User-Agent"), "Mozilla") {
			http.Error(w, "blocked", http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/ok.jpg":
			w.Write([]byte("jpegdata"))
		case "/empty.jpg":
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "public", "images", "products")
	f := NewFetcher(dir, 5*time.Second, 0)

	path, err := f.Download(context.Background(), server.URL+"/ok.jpg", "chemise_oxford")
	if err != nil {
		t.Fatalf("Failed to download: %v", err)
	}
	if path != filepath.Join(dir, "chemise_oxford.jpg") {
		t.Errorf("Expected path in image dir, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "jpegdata" {
		t.Errorf("Expected stored image data, got %q (%v)", data, err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"not found", "/missing.jpg"},
		{"empty body", "/empty.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Download(context.Background(), server.URL+tt.path, "x"); err == nil {
				t.Errorf("Expected error for %s", tt.path)
			}
		})
	}
}

func TestDownloadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(t.TempDir(), time.Second, 1)
	if _, err := f.Download(ctx, "http://127.0.0.1:1/x.jpg", "x"); err == nil {
		t.Errorf("Expected error for cancelled context")
	}
}
