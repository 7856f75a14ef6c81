package extractor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-scraper/adapters"
	cfgpkg "catalog-scraper/internal/config"
	"catalog-scraper/internal/types"
)

// Extractor scrapes category pages one at a time, scrolling each page until
// the category cap is reached or no new content loads.
type Extractor struct {
	config   *types.Config
	logger   logrus.FieldLogger
	launcher types.BrowserLauncher
	adapter  *adapters.ListingAdapter
}

// NewExtractor creates a new extractor for the configured site
func NewExtractor(config *types.Config, launcher types.BrowserLauncher, logger logrus.FieldLogger) (*Extractor, error) {
	if err := cfgpkg.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	adapter, err := adapters.NewListingAdapter(&config.Site, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing adapter: %w", err)
	}

	return &Extractor{
		config:   config,
		logger:   logger,
		launcher: launcher,
		adapter:  adapter,
	}, nil
}

// ExtractAll scrapes every configured category in order. The first failure
// aborts the run; results gathered so far are returned with the error.
func (e *Extractor) ExtractAll(ctx context.Context) ([]types.CategoryResult, error) {
	startTime := time.Now()
	var results []types.CategoryResult

	for _, category := range e.config.Site.Categories {
		result, err := e.ScrapeCategory(ctx, category)
		if err != nil {
			return results, fmt.Errorf("failed to scrape %s: %w", category.URL, err)
		}
		results = append(results, *result)
	}

	e.logger.Infof("Scraped %d categories in %v", len(results), time.Since(startTime))
	return results, nil
}

// ScrapeCategory runs the scroll-and-extract loop for a single category
// page. The browser and page it opens are closed before it returns.
func (e *Extractor) ScrapeCategory(ctx context.Context, category types.Category) (*types.CategoryResult, error) {
	log := e.logger.WithFields(logrus.Fields{
		"category":    category.Category,
		"subCategory": category.SubCategory,
	})

	browser, err := e.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Warnf("Failed to close browser: %v", err)
		}
	}()

	page, err := browser.OpenPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warnf("Failed to close page: %v", err)
		}
	}()

	log.Infof("Navigating to %s", category.URL)
	if err := page.Navigate(ctx, category.URL); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}
	e.saveDebugHTML(ctx, page, log)

	col := adapters.NewCollection(category.ExpectedCount)
	var prevHeight int64
	scrolls := 0

	for scrolls < e.config.MaxScrolls {
		if err := page.ScrollToBottom(ctx); err != nil {
			return nil, fmt.Errorf("failed to scroll: %w", err)
		}
		scrolls++
		e.waitForSettle(ctx, page)

		height, err := page.Height(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read page height: %w", err)
		}
		html, err := page.HTML(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read page content: %w", err)
		}

		outcomes, err := e.adapter.Extract(html, category, col)
		if err != nil {
			return nil, err
		}
		log.Debugf("Scroll %d: height %d, %d candidates evaluated, %d/%d products",
			scrolls, height, len(outcomes), col.Len(), category.ExpectedCount)

		if col.Full() {
			break
		}
		if height == prevHeight {
			log.Debugf("Page height unchanged at %d, no more content", height)
			break
		}
		prevHeight = height
	}

	stats := col.Stats()
	log.WithFields(logrus.Fields{
		"products":        stats.Accepted,
		"expected":        category.ExpectedCount,
		"scrolls":         scrolls,
		"rejected":        stats.Rejected,
		"price_fallbacks": stats.PriceFallbacks,
	}).Info("Category done")
	if stats.PriceFallbacks > 0 {
		log.Warnf("%d products carry the fallback price %.0f", stats.PriceFallbacks, e.config.Site.FallbackPrice)
	}

	return &types.CategoryResult{
		Category: category,
		Products: col.Products(),
		Scrolls:  scrolls,
		Stats:    stats,
	}, nil
}

// saveDebugHTML dumps the freshly navigated page for offline selector work.
func (e *Extractor) saveDebugHTML(ctx context.Context, page types.Page, log logrus.FieldLogger) {
	if e.config.DebugHTMLPath == "" {
		return
	}

	html, err := page.HTML(ctx)
	if err == nil {
		err = os.WriteFile(e.config.DebugHTMLPath, []byte(html), 0644)
	}
	if err != nil {
		log.Warnf("Failed to write debug HTML to %s: %v", e.config.DebugHTMLPath, err)
		return
	}
	log.Debugf("Debug HTML written to %s (%d bytes)", e.config.DebugHTMLPath, len(html))
}
