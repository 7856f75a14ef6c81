package extractor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-scraper/internal/types"
)

func TestWriteCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bighaat_products.json")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the new file"), 0644))
	products := []types.Product{{
		Name:        "Tomato <Hybrid> & Co Seeds",
		Price:       1250,
		Farmer:      "BigHaat Source",
		Image:       "https://cdn.example.com/t.jpg",
		Category:    "supply",
		SubCategory: "Seeds",
		Stock:       "In Stock",
	}}

	require.NoError(t, WriteCatalog(products, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[
    {
        "name": "Tomato <Hybrid> & Co Seeds",
        "price": 1250,
        "farmer": "BigHaat Source",
        "image": "https://cdn.example.com/t.jpg",
        "category": "supply",
        "subCategory": "Seeds",
        "stock": "In Stock"
    }
]
`, string(data))

	var decoded []types.Product
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, products, decoded)
}

func TestWriteCatalog_EmptyIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	require.NoError(t, WriteCatalog(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteCatalog_BadPath(t *testing.T) {
	err := WriteCatalog(nil, filepath.Join(t.TempDir(), "missing", "out.json"))

	assert.Error(t, err)
}

func TestProducts_ConcatenatesInOrder(t *testing.T) {
	results := []types.CategoryResult{
		{Products: []types.Product{{Name: "Seed One"}, {Name: "Seed Two"}}},
		{Products: nil},
		{Products: []types.Product{{Name: "Urea Bag"}}},
	}

	products := Products(results)

	require.Len(t, products, 3)
	assert.Equal(t, "Urea Bag", products[2].Name)
	assert.NotNil(t, Products(nil))
}
