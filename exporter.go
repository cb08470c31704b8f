package jewelfeed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	InventoryFileName  = "full_inventory.csv"
	OutOfStockFileName = "out_of_stock.csv"

	feedBrand       = "Your Brand"
	feedProductType = "jewelry"
	// inStockQuantity is reported for every Available product; the supplier
	// site does not expose real stock counts.
	inStockQuantity = "10"
)

// feedColumns is the fixed ordered column list of the marketplace feed.
var feedColumns = []string{
	"sku", "product-id", "product-id-type", "title", "product-type",
	"brand", "description", "bullet-point1", "bullet-point2", "bullet-point3",
	"bullet-point4", "bullet-point5", "main-image-url", "other-image-url1",
	"other-image-url2", "other-image-url3", "other-image-url4",
	"swatch-image-url", "parent-child", "parent-sku", "relationship-type",
	"variation-theme", "size", "color", "material-type", "style",
	"item-price", "quantity", "merchant-shipping-group-name",
	"max-aggregate-ship-quantity", "condition-type", "sale-price",
	"item-weight", "item-weight-unit-of-measure", "item-dimension-unit",
	"item-length", "item-width", "item-height", "fulfillment-center-id",
}

// mapToFeedRow maps one product onto the feed schema, in column order.
// Unset columns are empty strings.
func mapToFeedRow(product Product) []string {
	quantity := "0"
	if product.StockStatus.IsAvailable() {
		quantity = inStockQuantity
	}

	itemWeight := ""
	if product.Weight != "" {
		itemWeight = strings.Fields(product.Weight)[0]
	}

	fields := map[string]string{
		"sku":             product.Sku,
		"product-id":      product.Sku,
		"product-id-type": "1",
		"title":           product.Title,
		"product-type":    feedProductType,
		"brand":           feedBrand,
		"description":     product.Description,
		"bullet-point1":   fmt.Sprintf("Material: %s", product.Materials),
		"bullet-point2":   fmt.Sprintf("Dimensions: %s", product.Dimensions),
		"bullet-point3":   fmt.Sprintf("Weight: %s", product.Weight),
		"main-image-url":  product.MainImage,
		"item-price":      stripCurrency(product.Price),
		"quantity":        quantity,
		"condition-type":  "New",
		"item-weight":     itemWeight,
		"material-type":   product.Materials,
	}
	fields["item-weight-unit-of-measure"] = "GR"
	for i := 0; i < 4; i++ {
		if i < len(product.OtherImages) {
			fields[fmt.Sprintf("other-image-url%d", i+1)] = product.OtherImages[i]
		}
	}

	row := make([]string, len(feedColumns))
	for i, column := range feedColumns {
		row[i] = fields[column]
	}
	return row
}

func stripCurrency(price string) string {
	replacer := strings.NewReplacer("€", "", "$", "")
	return strings.TrimSpace(replacer.Replace(price))
}

// GenerateFeeds writes the available and unavailable product feeds to the
// data directory and returns both file paths.
func (app *Scraper) GenerateFeeds(dataDir string) (string, string, error) {
	availablePath := filepath.Join(dataDir, InventoryFileName)
	if err := writeFeedCSV(availablePath, app.Products); err != nil {
		return "", "", err
	}
	app.Logger.Info("Generated available products feed: %s", availablePath)

	unavailablePath := filepath.Join(dataDir, OutOfStockFileName)
	if err := writeFeedCSV(unavailablePath, app.UnavailableProducts); err != nil {
		return "", "", err
	}
	app.Logger.Info("Generated unavailable products feed: %s", unavailablePath)

	return availablePath, unavailablePath, nil
}

func writeFeedCSV(filename string, products []Product) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(feedColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, product := range products {
		if err := writer.Write(mapToFeedRow(product)); err != nil {
			return fmt.Errorf("failed to write record to CSV: %w", err)
		}
	}

	return writer.Error()
}

// ReadFeedRows reads a generated feed file back as column-keyed rows, for
// the product browser endpoint.
func ReadFeedRows(filename string) ([]map[string]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
