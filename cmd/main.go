package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"catalog-scraper/extractor"
	"catalog-scraper/internal/config"
	"catalog-scraper/internal/types"
	"catalog-scraper/utils"
)

var (
	configPath string
	verbose    bool
	overrides  = types.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "catalog-scraper",
	Short: "Scrape product listings from category pages into a JSON catalog",
	Long: `Opens each configured category page in a headless browser, scrolls until
the category cap is reached or the page stops growing, and writes every
extracted product to a single JSON file.`,
	SilenceUsage: true,
	RunE:         runScrape,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "YAML config file (default: built-in BigHaat preset)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	local := rootCmd.Flags()
	local.StringVar(&overrides.Driver, "driver", overrides.Driver, "Page driver: chromedp, rod or http")
	local.StringVarP(&overrides.OutputPath, "output", "o", overrides.OutputPath, "Output file path")
	local.StringVar(&overrides.DebugHTMLPath, "debug-html", overrides.DebugHTMLPath, "Where to dump each category's first HTML (empty disables)")
	local.IntVar(&overrides.MaxScrolls, "max-scrolls", overrides.MaxScrolls, "Scroll iterations per category before giving up")
	local.BoolVar(&overrides.Headless, "headless", overrides.Headless, "Run the browser headless")
	local.BoolVar(&overrides.Stealth, "stealth", overrides.Stealth, "Use stealth pages (rod driver only)")
	local.DurationVar(&overrides.Timeout, "timeout", overrides.Timeout, "Page navigation timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger sets up logging
func newLogger() *logrus.Logger {
	logger := logrus.New()

	// Set timestamp format with milliseconds
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	// Set log level from LOG_LEVEL env if present
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}

// loadConfig reads the config file and applies the flags the user set
func loadConfig(cmd *cobra.Command) (*types.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Driver = overrides.Driver
	}
	if flags.Changed("output") {
		cfg.OutputPath = overrides.OutputPath
	}
	if flags.Changed("debug-html") {
		cfg.DebugHTMLPath = overrides.DebugHTMLPath
	}
	if flags.Changed("max-scrolls") {
		cfg.MaxScrolls = overrides.MaxScrolls
	}
	if flags.Changed("headless") {
		cfg.Headless = overrides.Headless
	}
	if flags.Changed("stealth") {
		cfg.Stealth = overrides.Stealth
	}
	if flags.Changed("timeout") {
		cfg.Timeout = overrides.Timeout
	}

	return cfg, config.Validate(cfg)
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig(cmd)
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	launcher, err := utils.NewLauncher(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create %s launcher: %v", cfg.Driver, err)
	}
	scraper, err := extractor.NewExtractor(cfg, launcher, logger)
	if err != nil {
		logger.Fatalf("Failed to create extractor: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()
	logger.Infof("Starting scrape of %d categories from %s using %s", len(cfg.Site.Categories), cfg.Site.Name, cfg.Driver)

	results, err := scraper.ExtractToJSON(ctx, cfg.OutputPath)
	if err != nil {
		logger.Fatalf("Scrape failed: %v", err)
	}

	total := 0
	for _, r := range results {
		total += len(r.Products)
		if len(r.Products) < r.Category.ExpectedCount {
			logger.Infof("%s: found %d of %d expected products", r.Category.SubCategory, len(r.Products), r.Category.ExpectedCount)
		}
	}
	logger.WithFields(logrus.Fields{
		"products": total,
		"output":   cfg.OutputPath,
		"elapsed":  time.Since(startTime).Round(time.Millisecond),
	}).Info("Scrape completed")

	fmt.Fprintf(cmd.OutOrStdout(), "Scraped %d products successfully.\n", total)
	return nil
}
