package taxonomy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boutique-lumiere/curator/internal/models"
)

// Sequence modes accepted in configuration
const (
	SequenceBatch   = "batch"
	SequenceCatalog = "catalog"
)

// Sequencer produces product ids of the form <prefix>-<3 digit sequence>
type Sequencer interface {
	// ID returns the id for the record at 1-based position in the current batch
	ID(prefix string, position int) string
}

// BatchSequencer numbers records by their position in the batch. Repeated
// imports reuse the same numbers, which matches ids already in the catalog.
type BatchSequencer struct{}

func (BatchSequencer) ID(prefix string, position int) string {
	return formatID(prefix, position)
}

// CatalogSequencer continues after the highest sequence already used for a prefix
type CatalogSequencer struct {
	last map[string]int
}

// NewCatalogSequencer seeds the counters from the existing product ids
func NewCatalogSequencer(existing []models.ProductRecord) *CatalogSequencer {
	s := &CatalogSequencer{last: make(map[string]int)}
	for _, p := range existing {
		prefix, seq, ok := splitID(p.ID)
		if ok && seq > s.last[prefix] {
			s.last[prefix] = seq
		}
	}
	return s
}

func (s *CatalogSequencer) ID(prefix string, _ int) string {
	s.last[prefix]++
	return formatID(prefix, s.last[prefix])
}

// NewSequencer returns the sequencer for a configured mode
func NewSequencer(mode string, existing []models.ProductRecord) (Sequencer, error) {
	switch mode {
	case "", SequenceBatch:
		return BatchSequencer{}, nil
	case SequenceCatalog:
		return NewCatalogSequencer(existing), nil
	}
	return nil, fmt.Errorf("unknown id sequence mode %q (supported: %s, %s)", mode, SequenceBatch, SequenceCatalog)
}

func formatID(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

func splitID(id string) (string, int, bool) {
	i := strings.LastIndex(id, "-")
	if i <= 0 {
		return "", 0, false
	}
	seq, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return "", 0, false
	}
	return id[:i], seq, true
}
