package jewelfeed

import "context"

// ProcessProduct fetches one product page, extracts a Product and routes it
// into the Available or Unavailable collection. A fetch failure or an
// extraction miss is a skip, reported as ok=false; the job carries on.
func (app *Scraper) ProcessProduct(ctx context.Context, url string) (product *Product, ok bool) {
	doc, err := app.GetPage(ctx, url)
	if err != nil {
		return nil, false
	}

	product = app.ExtractProduct(doc, url)
	if product == nil {
		return nil, false
	}

	if product.StockStatus.IsAvailable() {
		app.Products = append(app.Products, *product)
	} else {
		app.UnavailableProducts = append(app.UnavailableProducts, *product)
	}
	return product, true
}
