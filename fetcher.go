package jewelfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// FetchError is returned when a URL could not be fetched within the retry
// budget. Callers treat it as a soft miss, never as a job abort.
type FetchError struct {
	Url      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("unreachable after %d attempts: %s: %v", e.Attempts, e.Url, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// GetPage fetches a URL with bounded retries and parses the body into a
// goquery document. The delay between attempts is constant, not
// exponential.
func (app *Scraper) GetPage(ctx context.Context, urlString string) (*goquery.Document, error) {
	retries := app.Config.MaxRetries
	var lastErr error

	for attempt := 1; attempt <= retries; attempt++ {
		body, contentType, err := app.getResponseBody(ctx, urlString)
		if err == nil {
			// Decode the response body with the charset declared by the server.
			reader, readerErr := charset.NewReader(strings.NewReader(string(body)), contentType)
			if readerErr != nil {
				return nil, fmt.Errorf("failed to create reader with correct encoding: %w", readerErr)
			}
			return goquery.NewDocumentFromReader(reader)
		}

		lastErr = err
		app.Logger.Warn("Error fetching %s: %v. Attempt %d/%d", urlString, err, attempt, retries)
		if attempt < retries {
			select {
			case <-time.After(app.retryDelay):
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = retries
			}
		}
	}

	app.Logger.Error("Failed to fetch %s after %d attempts", urlString, retries)
	return nil, &FetchError{Url: urlString, Attempts: retries, Err: lastErr}
}

func (app *Scraper) getResponseBody(ctx context.Context, urlString string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlString, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", app.Config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "max-age=0")
	if app.BaseUrl != "" {
		req.Header.Set("Referer", app.BaseUrl)
	}

	resp, err := app.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to navigate %s: %w", urlString, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("unexpected status for %s: %s", urlString, resp.Status)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
