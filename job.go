package jewelfeed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrJobRunning is returned by Start when a job is already in flight.
// Start requests are rejected, never queued.
var ErrJobRunning = errors.New("scraper is already running")

// JobState is the coarse state of the single job slot.
type JobState string

const (
	StateIdle    JobState = "Idle"
	StateRunning JobState = "Running"
)

// FeedState tracks the feed-generation step of the current job.
type FeedState string

const (
	FeedPending    FeedState = "Pending"
	FeedProcessing FeedState = "Processing"
	FeedCompleted  FeedState = "Completed"
	FeedFailed     FeedState = "Failed"
)

// Job outcomes recorded in history.
const (
	OutcomeCompleted = "Completed"
	OutcomeFailed    = "Failed"
)

// JobStatus describes the one currently-running (or idle) job. It is read
// and written as a whole snapshot under the tracker's mutex.
type JobStatus struct {
	State               JobState  `json:"state"`
	CurrentPhase        string    `json:"current_phase"`
	Progress            int       `json:"progress"`
	PagesCrawled        int       `json:"pages_crawled"`
	TotalPages          int       `json:"total_pages"`
	ProductsProcessed   int       `json:"products_processed"`
	TotalProducts       int       `json:"total_products"`
	AvailableProducts   int       `json:"available_products"`
	UnavailableProducts int       `json:"unavailable_products"`
	TimeElapsed         string    `json:"time_elapsed"`
	FeedStatus          FeedState `json:"feed_status"`
	StartTime           string    `json:"start_time"`
	JobID               string    `json:"job_id"`
}

// JobHistoryRecord is an append-only log entry written once per job.
type JobHistoryRecord struct {
	JobID     string `json:"job_id"`
	StartTime string `json:"start_time"`
	Duration  string `json:"duration"`
	Outcome   string `json:"status"`
	Products  string `json:"products"`
	Issues    string `json:"issues"`
	Errors    int    `json:"errors"`
	Warnings  int    `json:"warnings"`
}

// StatusTracker owns the shared job status and history. Everything goes
// through one mutex so concurrent readers always see a consistent snapshot.
type StatusTracker struct {
	mu      sync.Mutex
	status  JobStatus
	history []JobHistoryRecord
}

// NewStatusTracker creates a tracker in the Idle state.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		status: JobStatus{
			State:       StateIdle,
			TimeElapsed: "0:00:00",
			FeedStatus:  FeedPending,
		},
	}
}

// Status returns a snapshot of the current job status.
func (t *StatusTracker) Status() JobStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// History returns the job history, oldest first.
func (t *StatusTracker) History() []JobHistoryRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]JobHistoryRecord, len(t.history))
	copy(out, t.history)
	return out
}

func (t *StatusTracker) historyLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.history)
}

// tryStart flips Idle to Running for the given job. It reports false when a
// job is already running, in which case nothing is changed.
func (t *StatusTracker) tryStart(jobID string, startedAt time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.State != StateIdle {
		return false
	}
	t.status = JobStatus{
		State:        StateRunning,
		CurrentPhase: "Starting",
		TimeElapsed:  "0:00:00",
		FeedStatus:   FeedProcessing,
		StartTime:    startedAt.Format("2006-01-02 15:04:05"),
		JobID:        jobID,
	}
	return true
}

// update applies a mutation to the status under the mutex.
func (t *StatusTracker) update(fn func(*JobStatus)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.status)
}

// finish appends the history record and applies the terminal status
// mutation in one critical section.
func (t *StatusTracker) finish(record JobHistoryRecord, fn func(*JobStatus)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, record)
	fn(&t.status)
}

// JobRunner orchestrates the end-to-end crawl job on a background
// goroutine and drives the status state machine.
type JobRunner struct {
	Tracker *StatusTracker
	Logger  *defaultLogger
	DataDir string

	// pacingDelay is the short inter-product pause; a field so tests can
	// shrink it.
	pacingDelay time.Duration
}

// NewJobRunner wires a runner to its tracker.
func NewJobRunner(tracker *StatusTracker, logger *defaultLogger, dataDir string) *JobRunner {
	return &JobRunner{Tracker: tracker, Logger: logger, DataDir: dataDir, pacingDelay: productPacingDelay}
}

// Start launches a job for the given configuration. It returns the job ID,
// or ErrJobRunning when a job is already in flight.
func (r *JobRunner) Start(cfg JobConfig) (string, error) {
	now := time.Now()
	jobID := fmt.Sprintf("job-%s-%d-%s", now.Format("2006010215"), r.Tracker.historyLen()+1, uuid.NewString()[:8])
	if !r.Tracker.tryStart(jobID, now) {
		return "", ErrJobRunning
	}

	go r.runJob(context.Background(), jobID, cfg)
	return jobID, nil
}

func (r *JobRunner) runJob(ctx context.Context, jobID string, cfg JobConfig) {
	startedAt := time.Now()
	app := NewScraper(cfg, r.Logger)
	app.PageVisited = func() {
		r.Tracker.update(func(s *JobStatus) {
			s.PagesCrawled++
			s.TotalPages++
		})
	}

	errorCount := 0
	warningCount := 0
	var allLinks []string

	// Any panic escaping the per-phase guards flips the job to Failed and
	// resets progress; per-item errors never reach here.
	defer func() {
		if rec := recover(); rec != nil {
			r.Logger.Error("Unexpected error in job %s: %v", jobID, rec)
			r.Tracker.finish(JobHistoryRecord{
				JobID:     jobID,
				StartTime: startedAt.Format("2006-01-02 15:04:05"),
				Duration:  "-",
				Outcome:   OutcomeFailed,
				Products:  fmt.Sprintf("0 / %d", len(allLinks)),
				Issues:    formatIssues(1, 0),
				Errors:    1,
			}, func(s *JobStatus) {
				s.State = StateIdle
				s.CurrentPhase = "Idle"
				s.Progress = 0
				s.FeedStatus = FeedFailed
			})
		}
	}()

	r.Logger.Info("Starting job %s 🚀", jobID)

	// Category phase: 0-30% of total progress. One bad category never
	// aborts the job.
	totalCategories := len(cfg.Categories)
	for i, category := range cfg.Categories {
		r.Tracker.update(func(s *JobStatus) {
			s.CurrentPhase = fmt.Sprintf("Scraping category: %s", category)
		})

		links, err := r.crawlCategoryGuarded(ctx, app, category)
		if err != nil {
			errorCount++
			r.Logger.Error("Error scraping category %s: %v", category, err)
		} else {
			allLinks = append(allLinks, links...)
		}

		progress := int(math.Round(float64(i+1) / float64(totalCategories) * 30))
		r.Tracker.update(func(s *JobStatus) {
			if progress > s.Progress {
				s.Progress = progress
			}
		})
	}

	// Dedup: union of all discovered links, order unspecified.
	uniqueLinks := dedupeLinks(allLinks)
	r.Logger.Info("Total unique products found: %d", len(uniqueLinks))
	r.Tracker.update(func(s *JobStatus) {
		s.CurrentPhase = "Processing products"
		s.TotalProducts = len(uniqueLinks)
	})

	// Product phase: 30-90%. Per-product misses are warnings.
	for i, link := range uniqueLinks {
		r.Tracker.update(func(s *JobStatus) {
			s.CurrentPhase = fmt.Sprintf("Processing product %d/%d", i+1, len(uniqueLinks))
			s.ProductsProcessed = i + 1
			progress := 30 + int(math.Round(float64(i+1)/float64(len(uniqueLinks))*60))
			if progress > s.Progress {
				s.Progress = progress
			}
		})

		if ok := r.processProductGuarded(ctx, app, link); !ok {
			warningCount++
		}

		elapsed := formatElapsed(time.Since(startedAt))
		r.Tracker.update(func(s *JobStatus) {
			s.AvailableProducts = len(app.Products)
			s.UnavailableProducts = len(app.UnavailableProducts)
			s.TimeElapsed = elapsed
		})

		// Two-tier pacing: every 10th product waits the configured delay,
		// the rest take the short pause.
		pause := r.pacingDelay
		if i%10 == 0 {
			pause = time.Duration(cfg.RequestDelay * float64(time.Second))
		}
		select {
		case <-time.After(pause):
		case <-ctx.Done():
		}
	}

	// Feed phase: 90-100%. A feed failure does not fail the job.
	r.Tracker.update(func(s *JobStatus) {
		s.CurrentPhase = "Generating feeds"
		if s.Progress < 90 {
			s.Progress = 90
		}
	})

	availablePath, unavailablePath, feedErr := app.GenerateFeeds(r.DataDir)
	if feedErr != nil {
		errorCount++
		r.Logger.Error("Error generating feeds: %v", feedErr)
		r.Tracker.update(func(s *JobStatus) { s.FeedStatus = FeedFailed })
	} else {
		r.Logger.Info("Generated feeds: %s, %s", availablePath, unavailablePath)
		r.Tracker.update(func(s *JobStatus) { s.FeedStatus = FeedCompleted })
	}

	// Finalize.
	elapsed := formatElapsed(time.Since(startedAt))
	r.Tracker.finish(JobHistoryRecord{
		JobID:     jobID,
		StartTime: startedAt.Format("2006-01-02 15:04:05"),
		Duration:  elapsed,
		Outcome:   OutcomeCompleted,
		Products:  fmt.Sprintf("%d / %d", len(app.Products), len(uniqueLinks)),
		Issues:    formatIssues(errorCount, warningCount),
		Errors:    errorCount,
		Warnings:  warningCount,
	}, func(s *JobStatus) {
		s.State = StateIdle
		s.CurrentPhase = "Idle"
		s.Progress = 100
		s.TimeElapsed = elapsed
	})

	r.Logger.Info("Job %s completed in ⚡ %s (%d available, %d unavailable, %d errors, %d warnings)",
		jobID, elapsed, len(app.Products), len(app.UnavailableProducts), errorCount, warningCount)
}

// crawlCategoryGuarded isolates a panicking category so the loop can move
// on to the next one.
func (r *JobRunner) crawlCategoryGuarded(ctx context.Context, app *Scraper, category string) (links []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			links = nil
			err = fmt.Errorf("category crawl panicked: %v", rec)
		}
	}()
	return app.CrawlCategory(ctx, category), nil
}

func (r *JobRunner) processProductGuarded(ctx context.Context, app *Scraper, link string) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Logger.Error("Error processing product %s: %v", link, rec)
			ok = false
		}
	}()
	_, ok = app.ProcessProduct(ctx, link)
	return ok
}

func dedupeLinks(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	var unique []string
	for _, link := range links {
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		unique = append(unique, link)
	}
	return unique
}

// formatElapsed renders a duration as H:MM:SS.
func formatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

func formatIssues(errorCount, warningCount int) string {
	if errorCount == 0 && warningCount == 0 {
		return "None"
	}
	return fmt.Sprintf("%d errors, %d warnings", errorCount, warningCount)
}
