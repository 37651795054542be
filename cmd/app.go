package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/boutique-lumiere/curator/internal/config"
	"github.com/boutique-lumiere/curator/internal/images"
	"github.com/boutique-lumiere/curator/internal/importer"
	"github.com/boutique-lumiere/curator/internal/normalize"
	"github.com/boutique-lumiere/curator/internal/scraper"
	"github.com/boutique-lumiere/curator/internal/taxonomy"
	"github.com/boutique-lumiere/curator/internal/translation"
	"golang.org/x/time/rate"
)

func (a *app) store() *catalog.Store {
	return catalog.NewStore(a.cfg.ProductsFile, a.cfg.ImagesFile)
}

func (a *app) merger() *catalog.Merger {
	return catalog.NewMerger(a.cfg.MaxProducts)
}

func (a *app) classifier(src config.Source) *taxonomy.Classifier {
	return taxonomy.New(a.cfg.TaxonomyFor(src))
}

func (a *app) limiter() *rate.Limiter {
	limit := rate.Inf
	if a.cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(a.cfg.RequestsPerSecond)
	}
	return rate.NewLimiter(limit, 1)
}

func (a *app) importer(src config.Source) (*importer.Importer, error) {
	opts := normalize.Options{
		Templates: src.Templates,
		ImagePath: a.cfg.ImagePath,
		ImageHint: src.ImageHint,
	}

	provider, err := translation.NewProvider(a.cfg.Translation.Provider)
	if err != nil {
		return nil, err
	}
	if provider != nil {
		opts.Translator = translation.NewService(provider, a.cfg.Translation.Model, a.cfg.Translation.Temperature)
	}

	fetcher := images.NewFetcher(a.cfg.ImagesDir, a.cfg.FetchTimeout, a.cfg.RequestsPerSecond)
	fetcher.UserAgent = a.cfg.UserAgent

	return &importer.Importer{
		Store:      a.store(),
		Merger:     a.merger(),
		Classifier: a.classifier(src),
		Normalizer: normalize.New(opts),
		Downloader: fetcher,
		IDSequence: a.cfg.IDSequence,
	}, nil
}

// scraperFor builds the API scraper with the HTML crawl as fallback
func (a *app) scraperFor(src config.Source) scraper.Scraper {
	crawler := &scraper.Crawler{
		BaseURL:    src.BaseURL,
		StartPaths: src.HTMLPaths,
		Limit:      src.Limit,
		Delay:      a.cfg.CrawlDelay,
		Timeout:    a.cfg.FetchTimeout,
		UserAgent:  a.cfg.UserAgent,
	}
	if src.Kind == config.KindHTML {
		return crawler
	}
	return scraper.Chain{
		&scraper.Shopify{
			BaseURL:    src.BaseURL,
			Endpoints:  src.Endpoints,
			MaxPages:   src.MaxPages,
			Limit:      src.Limit,
			HTTPClient: &http.Client{Timeout: a.cfg.FetchTimeout},
			Limiter:    a.limiter(),
			UserAgent:  a.cfg.UserAgent,
		},
		crawler,
	}
}

// finish prints the summary and, when requested, the YAML run report
func finish(sum *importer.Summary, reportDir string) error {
	sum.Print(os.Stdout)
	if reportDir == "" {
		return nil
	}
	path, err := importer.SaveReport(reportDir, sum)
	if err != nil {
		return err
	}
	fmt.Printf("\nRun report saved to: %s\n", path)
	return nil
}
