package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"catalog-scraper/internal/types"
)

// ErrNoCategories is returned when the configuration lists nothing to scrape.
var ErrNoCategories = errors.New("no categories configured")

// Load returns the default configuration overlaid with the YAML file at path.
// An empty path yields the defaults.
func Load(path string) (*types.Config, error) {
	cfg := types.DefaultConfig()
	if path == "" {
		return cfg, Validate(cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the scraper cannot run with.
func Validate(cfg *types.Config) error {
	switch cfg.Driver {
	case types.DriverChromedp, types.DriverRod, types.DriverHTTP:
	default:
		return fmt.Errorf("driver: unknown driver %q", cfg.Driver)
	}

	if cfg.MaxScrolls <= 0 {
		return fmt.Errorf("max_scrolls: must be positive, got %d", cfg.MaxScrolls)
	}
	if cfg.Settle.MaxWait > 0 && cfg.Settle.PollInterval <= 0 {
		return fmt.Errorf("settle.poll_interval: must be positive when max_wait is set")
	}

	site := cfg.Site
	if site.ProductLinkMarker == "" {
		return fmt.Errorf("site.product_link_marker: must not be empty")
	}
	if site.ImageSelector == "" {
		return fmt.Errorf("site.image_selector: must not be empty")
	}
	re, err := regexp.Compile(site.PriceRegex)
	if err != nil {
		return fmt.Errorf("site.price_regex: %w", err)
	}
	if re.NumSubexp() < 1 {
		return fmt.Errorf("site.price_regex: must contain a capture group for the amount")
	}

	if len(site.Categories) == 0 {
		return ErrNoCategories
	}
	for i, c := range site.Categories {
		if c.URL == "" {
			return fmt.Errorf("site.categories[%d].url: must not be empty", i)
		}
		if c.ExpectedCount <= 0 {
			return fmt.Errorf("site.categories[%d].expected_count: must be positive, got %d", i, c.ExpectedCount)
		}
	}

	return nil
}
