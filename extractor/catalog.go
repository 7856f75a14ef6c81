package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"catalog-scraper/internal/types"
)

// ExtractToJSON scrapes all categories and saves the combined catalog
func (e *Extractor) ExtractToJSON(ctx context.Context, filename string) ([]types.CategoryResult, error) {
	results, err := e.ExtractAll(ctx)
	if err != nil {
		return results, err
	}

	if err := WriteCatalog(Products(results), filename); err != nil {
		return results, fmt.Errorf("failed to write results to file: %w", err)
	}

	e.logger.Infof("Results saved to %s", filename)
	return results, nil
}

// Products concatenates the products of all results in category order
func Products(results []types.CategoryResult) []types.Product {
	products := []types.Product{}
	for _, r := range results {
		products = append(products, r.Products...)
	}
	return products
}

// WriteCatalog writes products as a 4-space indented JSON array, replacing
// any existing file at path.
func WriteCatalog(products []types.Product, path string) error {
	if products == nil {
		products = []types.Product{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(products); err != nil {
		return fmt.Errorf("failed to marshal products to JSON: %w", err)
	}

	return writeToFile(path, buf.Bytes())
}

// writeToFile writes data to a file
func writeToFile(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0644)
}
