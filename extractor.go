package jewelfeed

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ExtractProductLinks collects product page URLs from a category listing
// page, in document order. Relative hrefs are resolved against the base URL.
func (app *Scraper) ExtractProductLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find(app.selectors.ProductLinks).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			app.Logger.Error("Attribute not found. %v", "href")
			return
		}
		links = append(links, app.GetFullUrl(href))
	})
	return links
}

// ExtractNextPageUrl returns the URL of the next listing page, or "" when
// pagination is exhausted. A next link resolving to the current page is
// treated as exhausted to guard against cycles.
func (app *Scraper) ExtractNextPageUrl(doc *goquery.Document, currentUrl string) string {
	href, ok := doc.Find(app.selectors.Pagination).First().Attr("href")
	if !ok || href == "" {
		return ""
	}
	nextUrl := app.GetFullUrl(href)
	if nextUrl == currentUrl {
		return ""
	}
	return nextUrl
}

// ExtractProduct builds a Product from a product detail page. Title and SKU
// are required; when either is missing the extraction fails closed and nil
// is returned.
func (app *Scraper) ExtractProduct(doc *goquery.Document, sourceUrl string) *Product {
	title := strings.TrimSpace(doc.Find(app.selectors.Title).First().Text())
	sku := strings.TrimSpace(doc.Find(app.selectors.Sku).First().Text())
	if title == "" || sku == "" {
		app.Logger.Warn("Missing critical product data at %s", sourceUrl)
		return nil
	}

	stockText := strings.TrimSpace(doc.Find(app.selectors.Stock).First().Text())
	images := app.extractImages(doc)

	product := &Product{
		Sku:         sku,
		Title:       title,
		Price:       strings.TrimSpace(doc.Find(app.selectors.Price).First().Text()),
		StockStatus: ClassifyStockStatus(stockText),
		Description: strings.TrimSpace(doc.Find(app.selectors.Description).First().Text()),
		Materials:   strings.TrimSpace(doc.Find(app.selectors.Materials).First().Text()),
		Dimensions:  strings.TrimSpace(doc.Find(app.selectors.Dimensions).First().Text()),
		Weight:      strings.TrimSpace(doc.Find(app.selectors.Weight).First().Text()),
		Url:         sourceUrl,
		LastUpdated: time.Now(),
	}
	if len(images) > 0 {
		product.MainImage = images[0]
		product.OtherImages = images[1:]
	}
	return product
}

// extractImages collects gallery image URLs in document order, falling back
// from src to the lazy-load attribute data-src.
func (app *Scraper) extractImages(doc *goquery.Document) []string {
	var images []string
	doc.Find(app.selectors.Images).Each(func(i int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			src, ok = s.Attr("data-src")
		}
		if ok && src != "" {
			images = append(images, src)
		}
	})
	return images
}
