package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"gopkg.in/yaml.v3"
)

// Rejection is a record refused by the name predicate
type Rejection struct {
	Name   string `yaml:"name"`
	Reason string `yaml:"reason"`
}

// Placement is where one imported product landed
type Placement struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Gender      string `yaml:"gender"`
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory,omitempty"`
	Images      int    `yaml:"images"`
}

// Summary is the outcome of one import run
type Summary struct {
	RunID       string
	Source      string
	Mode        string
	Subcategory string
	StartedAt   time.Time
	FinishedAt  time.Time

	Input         int
	Existing      int
	Trimmed       int
	Filtered      int
	SkippedNoName int
	Rejected      []Rejection

	ImagesDownloaded int
	ImagesReused     int
	ImagesFailed     int

	Merge       catalog.Result
	Total       int
	TotalImages int
	Products    []Placement
}

// Skipped counts records that did not become products
func (s *Summary) Skipped() int {
	return s.Trimmed + s.Filtered + s.SkippedNoName + len(s.Rejected)
}

// Print writes the end-of-run console summary
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "\nImport complete!\n")
	if s.Source != "" {
		fmt.Fprintf(w, "  Source: %s (%s)\n", s.Source, s.Mode)
	}
	if s.Mode == "replace" {
		fmt.Fprintf(w, "  Removed from %s: %d products, %d images\n", s.Subcategory, s.Merge.ProductsRemoved, s.Merge.ImagesRemoved)
	}
	fmt.Fprintf(w, "  Products added: %d\n", s.Merge.ProductsAdded)
	fmt.Fprintf(w, "  Skipped: %d (no name %d, rejected %d, over limit %d, not in subcategory %d)\n",
		s.Skipped(), s.SkippedNoName, len(s.Rejected), s.Trimmed, s.Filtered)
	fmt.Fprintf(w, "  Images downloaded: %d (already registered %d, failed %d)\n", s.ImagesDownloaded, s.ImagesReused, s.ImagesFailed)
	if s.Merge.Truncated > 0 {
		fmt.Fprintf(w, "  Truncated to cap: %d products, %d orphan images removed\n", s.Merge.Truncated, s.Merge.OrphansRemoved)
	}
	if n := len(s.Merge.Dangling); n > 0 {
		fmt.Fprintf(w, "  Images without registry entry: %d\n", n)
	}
	fmt.Fprintf(w, "  Total: %d products, %d images\n", s.Total, s.TotalImages)
}

type reportConfig struct {
	RunID       string `yaml:"runid"`
	Source      string `yaml:"source,omitempty"`
	Mode        string `yaml:"mode"`
	Subcategory string `yaml:"subcategory,omitempty"`
	Started     string `yaml:"started"`
	Finished    string `yaml:"finished"`
}

type reportCounts struct {
	Input            int `yaml:"input"`
	Existing         int `yaml:"existing"`
	Added            int `yaml:"added"`
	Removed          int `yaml:"removed"`
	Trimmed          int `yaml:"trimmed"`
	Filtered         int `yaml:"filtered"`
	NoName           int `yaml:"noname"`
	ImagesDownloaded int `yaml:"imagesdownloaded"`
	ImagesReused     int `yaml:"imagesreused"`
	ImagesFailed     int `yaml:"imagesfailed"`
	Truncated        int `yaml:"truncated"`
	Total            int `yaml:"total"`
	TotalImages      int `yaml:"totalimages"`
}

type report struct {
	Config   reportConfig `yaml:"config"`
	Counts   reportCounts `yaml:"counts"`
	Rejected []Rejection  `yaml:"rejected,omitempty"`
	Dangling []string     `yaml:"dangling,omitempty"`
	Products []Placement  `yaml:"products"`
}

// SaveReport writes the run as YAML into dir and returns the file path
func SaveReport(dir string, s *Summary) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := s.StartedAt.Format("2006-01-02_15-04-05")
	r := report{
		Config: reportConfig{
			RunID:       s.RunID,
			Source:      s.Source,
			Mode:        s.Mode,
			Subcategory: s.Subcategory,
			Started:     s.StartedAt.Format(time.RFC3339),
			Finished:    s.FinishedAt.Format(time.RFC3339),
		},
		Counts: reportCounts{
			Input:            s.Input,
			Existing:         s.Existing,
			Added:            s.Merge.ProductsAdded,
			Removed:          s.Merge.ProductsRemoved,
			Trimmed:          s.Trimmed,
			Filtered:         s.Filtered,
			NoName:           s.SkippedNoName,
			ImagesDownloaded: s.ImagesDownloaded,
			ImagesReused:     s.ImagesReused,
			ImagesFailed:     s.ImagesFailed,
			Truncated:        s.Merge.Truncated,
			Total:            s.Total,
			TotalImages:      s.TotalImages,
		},
		Rejected: s.Rejected,
		Dangling: s.Merge.Dangling,
		Products: s.Products,
	}

	name := s.Source
	if name == "" {
		name = "import"
	}
	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", name, timestamp))

	data, err := yaml.Marshal(&r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return filename, nil
}
