package jewelfeed

import (
	"context"
	"time"
)

// CrawlCategory walks one category's paginated listing and returns every
// product URL it finds, in discovery order. Duplicates across pages and
// categories are left in; deduplication is the caller's job. A fetch
// failure mid-pagination ends the walk with whatever was accumulated.
func (app *Scraper) CrawlCategory(ctx context.Context, categoryPath string) []string {
	fullUrl := app.GetFullUrl(categoryPath)
	app.Logger.Info("Scraping category: %s", fullUrl)

	var productLinks []string
	currentUrl := fullUrl
	pageCount := 1

	for currentUrl != "" && pageCount <= app.maxPages {
		app.Logger.Info("Scraping page %d: %s", pageCount, currentUrl)
		doc, err := app.GetPage(ctx, currentUrl)
		if err != nil {
			break
		}
		if app.PageVisited != nil {
			app.PageVisited()
		}

		links := app.ExtractProductLinks(doc)
		productLinks = append(productLinks, links...)
		app.Logger.Info("Found %d products on page %d", len(links), pageCount)

		nextUrl := app.ExtractNextPageUrl(doc, currentUrl)
		if nextUrl == "" {
			break
		}
		currentUrl = nextUrl
		pageCount++

		select {
		case <-time.After(app.paginationDelay):
		case <-ctx.Done():
			currentUrl = ""
		}
	}

	app.Logger.Info("Total products found in category: %d", len(productLinks))
	return productLinks
}
