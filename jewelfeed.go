package jewelfeed

import (
	"net/http"
	"strings"
	"time"
)

const (
	// requestTimeout bounds a single fetch attempt.
	requestTimeout = 30 * time.Second

	// retryDelay is the constant pause between failed fetch attempts.
	retryDelay = 2 * time.Second

	// paginationDelay is the politeness pause between listing pages of one
	// category. Intentionally separate from the configured request delay.
	paginationDelay = 1 * time.Second

	// productPacingDelay is the short pause between consecutive product
	// fetches; every 10th product waits the configured request delay instead.
	productPacingDelay = 500 * time.Millisecond

	// maxCategoryPages guards pagination against a broken "next" selector
	// producing an endless chain of fresh URLs.
	maxCategoryPages = 10000
)

// Scraper crawls the supplier site for one job and accumulates classified
// products. A fresh Scraper is built for every job.
type Scraper struct {
	Config    JobConfig
	Logger    *defaultLogger
	BaseUrl   string
	selectors Selectors

	httpClient *http.Client

	// Delays are fields so tests can shrink them; production values come
	// from the package constants.
	retryDelay      time.Duration
	paginationDelay time.Duration
	maxPages        int

	Products            []Product
	UnavailableProducts []Product

	// PageVisited, when set, is invoked once per listing page fetched so the
	// job status can track pagination progress.
	PageVisited func()
}

// NewScraper builds a Scraper for the given job configuration.
func NewScraper(cfg JobConfig, logger *defaultLogger) *Scraper {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultJobConfig().MaxRetries
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultJobConfig().UserAgent
	}
	return &Scraper{
		Config:          cfg,
		Logger:          logger,
		BaseUrl:         strings.TrimSuffix(cfg.BaseUrl, "/"),
		selectors:       defaultSelectors(),
		httpClient:      &http.Client{Timeout: requestTimeout},
		retryDelay:      retryDelay,
		paginationDelay: paginationDelay,
		maxPages:        maxCategoryPages,
	}
}

// GetFullUrl resolves a relative href against the base URL. Absolute hrefs
// pass through untouched.
func (app *Scraper) GetFullUrl(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return app.BaseUrl + url
}
