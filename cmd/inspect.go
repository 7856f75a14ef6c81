package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"catalog-scraper/adapters"
	"catalog-scraper/internal/types"
)

var inspectLimit int

var inspectCmd = &cobra.Command{
	Use:   "inspect <html-file>",
	Short: "Run the listing extractor over a saved HTML snapshot",
	Long: `Evaluates every candidate product link of a saved page (for example the
debug.html written during a scrape) and prints what was accepted and why
everything else was rejected. No browser is started.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 1000, "Stop after this many accepted products")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	adapter, err := adapters.NewListingAdapter(&cfg.Site, logger)
	if err != nil {
		return err
	}

	category := types.Category{ExpectedCount: inspectLimit}
	if len(cfg.Site.Categories) > 0 {
		category = cfg.Site.Categories[0]
		category.ExpectedCount = inspectLimit
	}

	col := adapters.NewCollection(inspectLimit)
	outcomes, err := adapter.Extract(string(data), category, col)
	if err != nil {
		return err
	}

	printOutcomes(cmd.OutOrStdout(), outcomes, col.Stats())
	return nil
}

func printOutcomes(w io.Writer, outcomes []adapters.Outcome, stats types.ExtractionStats) {
	fmt.Fprintf(w, "Candidate links: %d\n", len(outcomes))
	for i, o := range outcomes {
		if o.Accepted() {
			fmt.Fprintf(w, "  %d: OK       %s  name=%q price=%.0f image=%s\n", i+1, o.Href, o.Product.Name, o.Product.Price, o.Product.Image)
			continue
		}
		fmt.Fprintf(w, "  %d: REJECTED %s  reason=%s\n", i+1, o.Href, o.Reason)
	}

	fmt.Fprintf(w, "Accepted: %d (price fallbacks: %d)\n", stats.Accepted, stats.PriceFallbacks)
	reasons := make([]string, 0, len(stats.Rejected))
	for r := range stats.Rejected {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(w, "Rejected %s: %d\n", r, stats.Rejected[r])
	}
}
