package sources

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/parquet-go/parquet-go"
)

// ErrUnsupportedFormat is returned for feed files with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported feed format")

// Loader reads a product feed file
type Loader struct {
	path string
}

// NewLoader creates a loader for the feed at path
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads every record of the feed (JSON, JSONL or Parquet)
func (l *Loader) Load() ([]models.SourceRecord, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".json":
		return l.loadJSON()
	case ".jsonl", ".ndjson":
		return l.loadJSONL()
	case ".parquet":
		return l.loadParquet()
	default:
		return nil, fmt.Errorf("%w: %s (supported: .json, .jsonl, .parquet)", ErrUnsupportedFormat, ext)
	}
}

// loadJSON accepts either an array of products or an object with a
// "products" array, which is how Shopify exports look
func (l *Loader) loadJSON() ([]models.SourceRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Products []models.SourceRecord `json:"products"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse feed file: %w", err)
		}
		if wrapped.Products == nil {
			return nil, fmt.Errorf("feed file must contain a product array or a \"products\" key")
		}
		return wrapped.Products, nil
	}

	var records []models.SourceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse feed file: %w", err)
	}
	return records, nil
}

func (l *Loader) loadJSONL() ([]models.SourceRecord, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer file.Close()

	var records []models.SourceRecord
	scanner := bufio.NewScanner(file)

	const maxCapacity = 10 * 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record models.SourceRecord
		if err := json.Unmarshal(line, &record); err != nil {
			slog.Warn("Skipping malformed feed line", "line", lineNum, "error", err)
			continue
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading feed: %w", err)
	}

	slog.Debug("Finished reading JSONL feed", "records", len(records), "lines", lineNum)
	return records, nil
}

func (l *Loader) loadParquet() ([]models.SourceRecord, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Parquet feed opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[FeedRow](pf)
	defer reader.Close()

	var records []models.SourceRecord
	rows := make([]FeedRow, 128)
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			records = append(records, row.Record())
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return records, nil
}
