package jewelfeed

import (
	"strings"
	"time"
)

// StockStatus is the availability classification of a scraped product.
type StockStatus string

const (
	StockAvailable    StockStatus = "Available"
	StockOutOfStock   StockStatus = "Out of Stock"
	StockInProduction StockStatus = "In Production"
	StockRemoved      StockStatus = "Removed"
)

// IsAvailable reports whether the product belongs in the inventory feed.
// Everything else goes to the out-of-stock feed.
func (s StockStatus) IsAvailable() bool {
	return s == StockAvailable
}

// ClassifyStockStatus maps raw stock-status text to a StockStatus by
// case-insensitive substring match. Missing or unrecognized text means
// the product is treated as available.
func ClassifyStockStatus(text string) StockStatus {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(t, "out of stock"):
		return StockOutOfStock
	case strings.Contains(t, "production"), strings.Contains(t, "manufacturing"):
		return StockInProduction
	case strings.Contains(t, "discontinued"), strings.Contains(t, "removed"):
		return StockRemoved
	default:
		return StockAvailable
	}
}

// Product is one scraped listing. Created once by the product processor
// and never mutated afterwards.
type Product struct {
	Sku         string      `json:"sku"`
	Title       string      `json:"title"`
	Price       string      `json:"price"`
	StockStatus StockStatus `json:"stock_status"`
	Description string      `json:"description"`
	Materials   string      `json:"materials"`
	Dimensions  string      `json:"dimensions"`
	Weight      string      `json:"weight"`
	MainImage   string      `json:"main_image"`
	OtherImages []string    `json:"other_images"`
	Url         string      `json:"url"`
	LastUpdated time.Time   `json:"last_updated"`
}

// Selectors holds the CSS selectors used against the supplier site.
type Selectors struct {
	ProductLinks string `json:"product_links"`
	Pagination   string `json:"pagination"`
	Title        string `json:"product_title"`
	Sku          string `json:"product_sku"`
	Price        string `json:"product_price"`
	Stock        string `json:"product_stock"`
	Description  string `json:"product_description"`
	Images       string `json:"product_images"`
	Materials    string `json:"product_materials"`
	Dimensions   string `json:"product_dimensions"`
	Weight       string `json:"product_weight"`
}

func defaultSelectors() Selectors {
	return Selectors{
		ProductLinks: ".product-item a.product-link",
		Pagination:   ".pagination a.next",
		Title:        ".product-title",
		Sku:          ".product-sku",
		Price:        ".product-price",
		Stock:        ".stock-status",
		Description:  ".product-description",
		Images:       ".product-gallery img",
		Materials:    ".materials-list",
		Dimensions:   ".dimensions",
		Weight:       ".weight",
	}
}
