package jewelfeed

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newTestScraper(baseUrl string) *Scraper {
	return NewScraper(JobConfig{BaseUrl: baseUrl, MaxRetries: 3}, newTestLogger())
}

func TestClassifyStockStatus(t *testing.T) {
	tests := []struct {
		text string
		want StockStatus
	}{
		{"In Stock", StockAvailable},
		{"", StockAvailable},
		{"Out of Stock", StockOutOfStock},
		{"OUT OF STOCK", StockOutOfStock},
		{"Currently out of stock - check back soon", StockOutOfStock},
		{"In Production — ships in 6 weeks", StockInProduction},
		{"Manufacturing backlog", StockInProduction},
		{"Discontinued", StockRemoved},
		{"Removed from catalog", StockRemoved},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStockStatus(tt.text))
		})
	}
}

func TestExtractProductLinks(t *testing.T) {
	app := newTestScraper("https://supplier.test")
	doc := mustDoc(t, `
		<div class="product-item"><a class="product-link" href="/product/1">One</a></div>
		<div class="product-item"><a class="product-link" href="https://other.test/product/2">Two</a></div>
		<div class="product-item"><a class="other-link" href="/product/3">Ignored</a></div>
	`)

	links := app.ExtractProductLinks(doc)
	assert.Equal(t, []string{
		"https://supplier.test/product/1",
		"https://other.test/product/2",
	}, links)
}

func TestExtractNextPageUrl(t *testing.T) {
	app := newTestScraper("https://supplier.test")

	t.Run("relative next link resolves against base", func(t *testing.T) {
		doc := mustDoc(t, `<div class="pagination"><a class="next" href="/necklaces?page=2">Next</a></div>`)
		assert.Equal(t, "https://supplier.test/necklaces?page=2", app.ExtractNextPageUrl(doc, "https://supplier.test/necklaces"))
	})

	t.Run("no pagination element", func(t *testing.T) {
		doc := mustDoc(t, `<div class="listing"></div>`)
		assert.Empty(t, app.ExtractNextPageUrl(doc, "https://supplier.test/necklaces"))
	})

	t.Run("next pointing at current page is treated as exhausted", func(t *testing.T) {
		doc := mustDoc(t, `<div class="pagination"><a class="next" href="/necklaces">Next</a></div>`)
		assert.Empty(t, app.ExtractNextPageUrl(doc, "https://supplier.test/necklaces"))
	})
}

const productPageHTML = `
<html><body>
	<h1 class="product-title">Gold Necklace</h1>
	<span class="product-sku">SKU-001</span>
	<span class="product-price">€24.99</span>
	<span class="stock-status">In Stock</span>
	<div class="product-description">A fine necklace.</div>
	<ul class="materials-list">18k gold</ul>
	<span class="dimensions">45 cm</span>
	<span class="weight">12 g</span>
	<div class="product-gallery">
		<img src="https://cdn.test/1.jpg">
		<img data-src="https://cdn.test/2.jpg">
		<img alt="broken">
	</div>
</body></html>`

func TestExtractProduct(t *testing.T) {
	app := newTestScraper("https://supplier.test")

	t.Run("full product page", func(t *testing.T) {
		product := app.ExtractProduct(mustDoc(t, productPageHTML), "https://supplier.test/product/1")
		require.NotNil(t, product)

		assert.Equal(t, "SKU-001", product.Sku)
		assert.Equal(t, "Gold Necklace", product.Title)
		assert.Equal(t, "€24.99", product.Price)
		assert.Equal(t, StockAvailable, product.StockStatus)
		assert.Equal(t, "A fine necklace.", product.Description)
		assert.Equal(t, "18k gold", product.Materials)
		assert.Equal(t, "45 cm", product.Dimensions)
		assert.Equal(t, "12 g", product.Weight)
		assert.Equal(t, "https://cdn.test/1.jpg", product.MainImage)
		assert.Equal(t, []string{"https://cdn.test/2.jpg"}, product.OtherImages)
		assert.Equal(t, "https://supplier.test/product/1", product.Url)
		assert.False(t, product.LastUpdated.IsZero())
	})

	t.Run("missing sku fails closed", func(t *testing.T) {
		doc := mustDoc(t, `<h1 class="product-title">Gold Necklace</h1>`)
		assert.Nil(t, app.ExtractProduct(doc, "https://supplier.test/product/2"))
	})

	t.Run("missing title fails closed", func(t *testing.T) {
		doc := mustDoc(t, `<span class="product-sku">SKU-002</span>`)
		assert.Nil(t, app.ExtractProduct(doc, "https://supplier.test/product/3"))
	})

	t.Run("no stock element defaults to available", func(t *testing.T) {
		doc := mustDoc(t, `
			<h1 class="product-title">Plain Ring</h1>
			<span class="product-sku">SKU-010</span>
		`)
		product := app.ExtractProduct(doc, "https://supplier.test/product/10")
		require.NotNil(t, product)
		assert.Equal(t, StockAvailable, product.StockStatus)
		assert.Empty(t, product.MainImage)
		assert.Empty(t, product.OtherImages)
	})

	t.Run("out of stock routes unavailable", func(t *testing.T) {
		doc := mustDoc(t, `
			<h1 class="product-title">Silver Ring</h1>
			<span class="product-sku">SKU-011</span>
			<span class="stock-status">Out of Stock</span>
		`)
		product := app.ExtractProduct(doc, "https://supplier.test/product/11")
		require.NotNil(t, product)
		assert.Equal(t, StockOutOfStock, product.StockStatus)
		assert.False(t, product.StockStatus.IsAvailable())
	})
}
