package types

import (
	"context"
	"time"
)

// Product represents a single catalog entry scraped from a category page
type Product struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Farmer      string  `json:"farmer"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory"`
	Stock       string  `json:"stock"`
}

// Category describes one category page to scrape
type Category struct {
	URL           string `yaml:"url"`
	ExpectedCount int    `yaml:"expected_count"`
	Category      string `yaml:"category"`
	SubCategory   string `yaml:"sub_category"`
}

// ExtractionStats counts what happened to candidate anchors during a scrape
type ExtractionStats struct {
	Accepted       int
	Rejected       map[string]int
	PriceFallbacks int
}

// CategoryResult represents the scrape result for a single category
type CategoryResult struct {
	Category Category
	Products []Product
	Scrolls  int
	Stats    ExtractionStats
}

// Config holds the configuration for the scraper
type Config struct {
	Driver        string        `yaml:"driver"`
	Headless      bool          `yaml:"headless"`
	Stealth       bool          `yaml:"stealth"`
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxScrolls    int           `yaml:"max_scrolls"`
	Settle        SettleConfig  `yaml:"settle"`
	OutputPath    string        `yaml:"output"`
	DebugHTMLPath string        `yaml:"debug_html"`
	Site          SiteConfig    `yaml:"site"`
}

// SettleConfig controls how long the scraper waits for lazy content after a scroll
type SettleConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	StableFor    time.Duration `yaml:"stable_for"`
	MaxWait      time.Duration `yaml:"max_wait"`
}

// SiteConfig holds the site-specific extraction heuristics
type SiteConfig struct {
	Name               string     `yaml:"name"`
	ProductLinkMarker  string     `yaml:"product_link_marker"`
	ImageSelector      string     `yaml:"image_selector"`
	LazyImageAttr      string     `yaml:"lazy_image_attr"`
	PlaceholderMarkers []string   `yaml:"placeholder_markers"`
	PriceRegex         string     `yaml:"price_regex"`
	FallbackPrice      float64    `yaml:"fallback_price"`
	MinNameLength      int        `yaml:"min_name_length"`
	SkipKeywords       []string   `yaml:"skip_keywords"`
	SourceLabel        string     `yaml:"source_label"`
	StockLabel         string     `yaml:"stock_label"`
	Categories         []Category `yaml:"categories"`
}

const (
	DriverChromedp = "chromedp"
	DriverRod      = "rod"
	DriverHTTP     = "http"
)

// DefaultUserAgent is the desktop Chrome user agent sent on every request
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Driver:     DriverChromedp,
		Headless:   true,
		Timeout:    60 * time.Second,
		UserAgent:  DefaultUserAgent,
		MaxScrolls: 15,
		Settle: SettleConfig{
			PollInterval: 250 * time.Millisecond,
			StableFor:    500 * time.Millisecond,
			MaxWait:      1500 * time.Millisecond,
		},
		OutputPath:    "bighaat_products.json",
		DebugHTMLPath: "debug.html",
		Site:          BigHaatSite(),
	}
}

// BigHaatSite returns the extraction heuristics for bighaat.com collections
func BigHaatSite() SiteConfig {
	return SiteConfig{
		Name:               "bighaat.com",
		ProductLinkMarker:  "/products/",
		ImageSelector:      "img",
		LazyImageAttr:      "data-src",
		PlaceholderMarkers: []string{"data:image", "arrow", "discount"},
		PriceRegex:         `₹[\s\p{Zs}]*([0-9,]*)`,
		FallbackPrice:      500,
		MinNameLength:      5,
		SkipKeywords:       []string{"Rating"},
		SourceLabel:        "BigHaat Source",
		StockLabel:         "In Stock",
		Categories: []Category{
			{URL: "https://www.bighaat.com/collections/seeds", ExpectedCount: 25, Category: "supply", SubCategory: "Seeds"},
			{URL: "https://www.bighaat.com/collections/fertilizers", ExpectedCount: 25, Category: "supply", SubCategory: "Fertilizers"},
			{URL: "https://www.bighaat.com/collections/crop-protection", ExpectedCount: 25, Category: "supply", SubCategory: "Crop Protection"},
			{URL: "https://www.bighaat.com/collections/implements", ExpectedCount: 25, Category: "supply", SubCategory: "Farm Implements"},
		},
	}
}

// BrowserLauncher starts a browser process for one category scrape
type BrowserLauncher interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser owns a running browser process
type Browser interface {
	// OpenPage creates a page with the configured user agent
	OpenPage(ctx context.Context) (Page, error)

	// Close terminates the browser process
	Close() error
}

// Page is a single browser tab
type Page interface {
	// Navigate loads url and returns once the DOM has been parsed
	Navigate(ctx context.Context, url string) error

	ScrollToBottom(ctx context.Context) error

	// Height returns the current document.body.scrollHeight
	Height(ctx context.Context) (int64, error)

	// HTML returns the currently rendered document
	HTML(ctx context.Context) (string, error)

	Close() error
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
