package sources

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
		wantErr  bool
	}{
		{"array", `[{"name":"Chemise"},{"title":"Robe"}]`, 2, false},
		{"products key", `{"products":[{"name":"Chemise"}]}`, 1, false},
		{"object without products", `{"items":[]}`, 0, true},
		{"malformed", `[{"name":`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := NewLoader(writeFile(t, "feed.json", tt.content)).Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if len(records) != tt.expected {
				t.Errorf("Expected %d records, got %d", tt.expected, len(records))
			}
		})
	}
}

func TestLoadJSONLSkipsBadLines(t *testing.T) {
	path := writeFile(t, "feed.jsonl", "{\"name\":\"Chemise\",\"price\":49.9}\n\nnot json\n{\"name\":\"Robe\"}\n")

	records, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].String("price") != "49.9" {
		t.Errorf("Expected price 49.9, got %s", records[0].String("price"))
	}
}

func TestLoadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.parquet")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create parquet file: %v", err)
	}

	price := 89.0
	writer := parquet.NewGenericWriter[FeedRow](file)
	if _, err := writer.Write([]FeedRow{
		{Name: "Chemise Oxford", Category: "Chemises homme", Price: &price, Images: []string{"https://x/1.jpg"}},
		{Title: "Montre", Tags: []string{"homme", "acier"}},
	}); err != nil {
		t.Fatalf("Failed to write rows: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	file.Close()

	records, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].String("name") != "Chemise Oxford" || records[0]["price"] != 89.0 {
		t.Errorf("Unexpected first record: %v", records[0])
	}
	if _, ok := records[1]["name"]; ok {
		t.Errorf("Expected empty name column to be left out")
	}
	if tags := records[1].Strings("tags"); len(tags) != 2 {
		t.Errorf("Expected 2 tags, got %v", tags)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := NewLoader(writeFile(t, "feed.csv", "name\nChemise\n")).Load()
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
