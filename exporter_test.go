package jewelfeed

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedRowMap(row []string) map[string]string {
	m := make(map[string]string, len(feedColumns))
	for i, column := range feedColumns {
		m[column] = row[i]
	}
	return m
}

func TestMapToFeedRow(t *testing.T) {
	t.Run("available product with five images", func(t *testing.T) {
		product := Product{
			Sku:         "SKU-001",
			Title:       "Gold Necklace",
			Price:       "€24.99",
			StockStatus: StockAvailable,
			Description: "A fine necklace.",
			Materials:   "18k gold",
			Dimensions:  "45 cm",
			Weight:      "12 g",
			MainImage:   "https://cdn.test/1.jpg",
			OtherImages: []string{
				"https://cdn.test/2.jpg",
				"https://cdn.test/3.jpg",
				"https://cdn.test/4.jpg",
				"https://cdn.test/5.jpg",
			},
		}

		row := mapToFeedRow(product)
		require.Len(t, row, len(feedColumns))
		m := feedRowMap(row)

		assert.Equal(t, "SKU-001", m["sku"])
		assert.Equal(t, "SKU-001", m["product-id"])
		assert.Equal(t, "1", m["product-id-type"])
		assert.Equal(t, "jewelry", m["product-type"])
		assert.Equal(t, "24.99", m["item-price"])
		assert.Equal(t, "10", m["quantity"])
		assert.Equal(t, "New", m["condition-type"])
		assert.Equal(t, "Material: 18k gold", m["bullet-point1"])
		assert.Equal(t, "Dimensions: 45 cm", m["bullet-point2"])
		assert.Equal(t, "Weight: 12 g", m["bullet-point3"])
		assert.Equal(t, "https://cdn.test/1.jpg", m["main-image-url"])
		assert.Equal(t, "https://cdn.test/2.jpg", m["other-image-url1"])
		assert.Equal(t, "https://cdn.test/5.jpg", m["other-image-url4"])
		assert.Equal(t, "12", m["item-weight"])
		assert.Equal(t, "GR", m["item-weight-unit-of-measure"])
		assert.Equal(t, "18k gold", m["material-type"])
	})

	t.Run("unavailable product has zero quantity", func(t *testing.T) {
		product := Product{
			Sku:         "SKU-002",
			Title:       "Custom Pendant",
			StockStatus: StockInProduction,
		}
		m := feedRowMap(mapToFeedRow(product))
		assert.Equal(t, "0", m["quantity"])
	})

	t.Run("missing images leave trailing slots empty", func(t *testing.T) {
		product := Product{
			Sku:         "SKU-003",
			Title:       "Bare Ring",
			StockStatus: StockAvailable,
			MainImage:   "https://cdn.test/a.jpg",
			OtherImages: []string{"https://cdn.test/b.jpg"},
		}
		m := feedRowMap(mapToFeedRow(product))
		assert.Equal(t, "https://cdn.test/b.jpg", m["other-image-url1"])
		assert.Empty(t, m["other-image-url2"])
		assert.Empty(t, m["other-image-url3"])
		assert.Empty(t, m["other-image-url4"])
	})

	t.Run("dollar price stripped", func(t *testing.T) {
		m := feedRowMap(mapToFeedRow(Product{Sku: "S", Title: "T", Price: "$30.00", StockStatus: StockAvailable}))
		assert.Equal(t, "30.00", m["item-price"])
	})
}

func TestGenerateFeedsRoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	app := newTestScraper("https://supplier.test")
	app.Products = []Product{
		{Sku: "SKU-001", Title: "Gold Necklace", Price: "€24.99", StockStatus: StockAvailable},
		{Sku: "SKU-002", Title: "Silver Ring", Price: "€9.50", StockStatus: StockAvailable},
	}
	app.UnavailableProducts = []Product{
		{Sku: "SKU-003", Title: "Custom Pendant", StockStatus: StockOutOfStock},
	}

	availablePath, unavailablePath, err := app.GenerateFeeds(dataDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, InventoryFileName), availablePath)
	assert.Equal(t, filepath.Join(dataDir, OutOfStockFileName), unavailablePath)

	availableRows, err := ReadFeedRows(availablePath)
	require.NoError(t, err)
	require.Len(t, availableRows, 2)
	assert.Equal(t, "SKU-001", availableRows[0]["sku"])
	assert.Equal(t, "24.99", availableRows[0]["item-price"])

	unavailableRows, err := ReadFeedRows(unavailablePath)
	require.NoError(t, err)
	require.Len(t, unavailableRows, 1)
	assert.Equal(t, "0", unavailableRows[0]["quantity"])
}
