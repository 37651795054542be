// Package config holds the curator's run configuration: file locations,
// the catalog cap, fetch politeness and the storefront sources.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/boutique-lumiere/curator/internal/images"
	"github.com/boutique-lumiere/curator/internal/normalize"
	"github.com/boutique-lumiere/curator/internal/taxonomy"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when --config is not given and the file exists
const DefaultFile = "curator.yaml"

// ErrUnknownSource is returned for a source name missing from the config
var ErrUnknownSource = errors.New("unknown source")

// Merge modes of a source
const (
	ModeAppend  = "append"
	ModeReplace = "replace"
)

// Source kinds
const (
	KindShopify = "shopify"
	KindHTML    = "html"
)

// Translation selects the provider used to fill missing locales.
// An empty provider disables translation.
type Translation struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// Source describes one partner storefront
type Source struct {
	Name string `yaml:"name"`
	// Kind is shopify (products.json, HTML crawl as fallback) or html (crawl only)
	Kind      string   `yaml:"kind"`
	BaseURL   string   `yaml:"base_url"`
	Endpoints []string `yaml:"endpoints"`
	HTMLPaths []string `yaml:"html_paths"`
	MaxPages  int      `yaml:"max_pages"`
	Limit     int      `yaml:"limit"`
	Mode      string   `yaml:"mode"`
	// Subcategory is the subcategory replaced in replace mode
	Subcategory string `yaml:"subcategory"`
	// Category is written as the raw category of every scraped record
	Category      string              `yaml:"category"`
	ImageHint     string              `yaml:"image_hint"`
	Templates     normalize.Templates `yaml:"templates"`
	FemmeKeywords []string            `yaml:"femme_keywords"`
	HommeKeywords []string            `yaml:"homme_keywords"`
}

// Config is the explicit configuration passed to every component
type Config struct {
	ProductsFile      string        `yaml:"products_file"`
	ImagesFile        string        `yaml:"images_file"`
	ImagesDir         string        `yaml:"images_dir"`
	ImagePath         string        `yaml:"image_path"`
	MaxProducts       int           `yaml:"max_products"`
	IDSequence        string        `yaml:"id_sequence"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	CrawlDelay        time.Duration `yaml:"crawl_delay"`
	UserAgent         string        `yaml:"user_agent"`
	DatabaseURL       string        `yaml:"database_url"`
	Translation       Translation   `yaml:"translation"`
	// Taxonomy replaces the built-in keyword data when set
	Taxonomy *taxonomy.Taxonomy `yaml:"taxonomy"`
	Sources  []Source           `yaml:"sources"`
}

// Default returns the storefront's standard layout and sources
func Default() *Config {
	return &Config{
		ProductsFile:      "new_products.json",
		ImagesFile:        "src/lib/placeholder-images.json",
		ImagesDir:         "public/images/products",
		ImagePath:         "/images/products",
		MaxProducts:       catalog.DefaultMaxProducts,
		IDSequence:        taxonomy.SequenceBatch,
		RequestsPerSecond: 4,
		FetchTimeout:      30 * time.Second,
		CrawlDelay:        500 * time.Millisecond,
		UserAgent:         images.DefaultUserAgent,
		Sources:           DefaultSources(),
	}
}

// DefaultSources are the partner storefronts the catalog is stocked from
func DefaultSources() []Source {
	return []Source{
		{
			Name:     "24s",
			Kind:     KindShopify,
			BaseURL:  "https://24s.com",
			MaxPages: 4,
			Limit:    500,
			Mode:     ModeAppend,
		},
		{
			Name:      "temps-et-merveilles",
			Kind:      KindShopify,
			BaseURL:   "https://temps-et-merveilles.fr",
			MaxPages:  2,
			Limit:     200,
			Mode:      ModeAppend,
			Category:  "montres",
			ImageHint: "watch",
			Templates: normalize.Templates{
				DE: "Eine elegante Uhr %s",
				FR: "Une montre élégante %s",
				EN: "An elegant watch %s",
			},
			FemmeKeywords: []string{"lady", "diamond", "diamants", "nacre"},
			HommeKeywords: []string{"diver", "chronograph", "chronographe", "pilot"},
		},
		{
			Name:    "faguo",
			Kind:    KindShopify,
			BaseURL: "https://www.faguo-store.com",
			Endpoints: []string{
				"/products.json",
				"/collections/all/products.json",
				"/collections/homme/products.json",
				"/collections/accessoires-homme/products.json",
				"/collections/accessoires/products.json",
			},
			HTMLPaths: []string{
				"/collections/accessoires-homme",
				"/collections/homme-accessoires",
				"/collections/homme",
			},
			MaxPages:    4,
			Limit:       200,
			Mode:        ModeReplace,
			Subcategory: "accessoires-homme",
			ImageHint:   "accessoire homme",
			Templates: normalize.Templates{
				DE: "Ein elegantes Herrenaccessoire %s",
				FR: "Un accessoire élégant pour homme %s",
				EN: "An elegant men's accessory %s",
			},
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then environment overrides. A missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case explicit || !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ProductsFile = getenv("CURATOR_PRODUCTS_FILE", c.ProductsFile)
	c.ImagesFile = getenv("CURATOR_IMAGES_FILE", c.ImagesFile)
	c.ImagesDir = getenv("CURATOR_IMAGES_DIR", c.ImagesDir)
	c.IDSequence = getenv("CURATOR_ID_SEQUENCE", c.IDSequence)
	c.DatabaseURL = getenv("DATABASE_URL", c.DatabaseURL)
	c.Translation.Provider = getenv("TRANSLATION_PROVIDER", c.Translation.Provider)
	c.Translation.Model = getenv("TRANSLATION_MODEL", c.Translation.Model)

	if v := os.Getenv("CURATOR_MAX_PRODUCTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxProducts = n
		}
	}
}

// Validate checks values that would otherwise fail deep inside a run
func (c *Config) Validate() error {
	if c.MaxProducts <= 0 {
		return fmt.Errorf("max_products must be positive, got %d", c.MaxProducts)
	}
	if c.IDSequence != taxonomy.SequenceBatch && c.IDSequence != taxonomy.SequenceCatalog {
		return fmt.Errorf("id_sequence must be %q or %q, got %q", taxonomy.SequenceBatch, taxonomy.SequenceCatalog, c.IDSequence)
	}

	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if s.Name == "" || s.BaseURL == "" {
			return fmt.Errorf("source %q needs a name and a base_url", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q is defined twice", s.Name)
		}
		seen[s.Name] = true

		switch s.Kind {
		case "", KindShopify, KindHTML:
		default:
			return fmt.Errorf("source %q: unknown kind %q", s.Name, s.Kind)
		}
		switch s.Mode {
		case "", ModeAppend:
		case ModeReplace:
			if s.Subcategory == "" {
				return fmt.Errorf("source %q: replace mode needs a subcategory", s.Name)
			}
		default:
			return fmt.Errorf("source %q: unknown mode %q", s.Name, s.Mode)
		}
		for _, tmpl := range []string{s.Templates.DE, s.Templates.FR, s.Templates.EN} {
			if tmpl != "" && strings.Count(tmpl, "%s") != 1 {
				return fmt.Errorf("source %q: template %q must contain exactly one %%s", s.Name, tmpl)
			}
		}
	}
	return nil
}

// Source returns the named source
func (c *Config) Source(name string) (Source, error) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, nil
		}
	}
	return Source{}, fmt.Errorf("%w: %s", ErrUnknownSource, name)
}

// ReplaceSource returns the first replace-mode source that owns subcategory.
// Its templates, image hint and gender keywords apply to a file import
// replacing the same subcategory.
func (c *Config) ReplaceSource(subcategory string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Mode == ModeReplace && s.Subcategory == subcategory {
			return s, true
		}
	}
	return Source{}, false
}

// SourceNames lists the configured source names in order
func (c *Config) SourceNames() []string {
	names := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		names[i] = s.Name
	}
	return names
}

// TaxonomyFor returns the keyword data for a run, extended with the
// source's own gender vocabulary
func (c *Config) TaxonomyFor(s Source) taxonomy.Taxonomy {
	t := taxonomy.Default()
	if c.Taxonomy != nil {
		t = *c.Taxonomy
	}
	if len(s.FemmeKeywords) == 0 && len(s.HommeKeywords) == 0 {
		return t
	}
	return t.WithGenderKeywords(s.FemmeKeywords, s.HommeKeywords)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
