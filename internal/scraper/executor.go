package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"web-scraper-go/internal/models"
)

// Diagnostic prefixes used when a failed run is flattened to text.
const (
	NetworkErrorPrefix = "Network Error: "
	GenericErrorPrefix = "An error occurred: "
)

// Result is the outcome of one scrape run. Exactly one of Items or Err is meaningful:
// a successful run has a non-nil (possibly empty) Items slice and a nil Err.
type Result struct {
	URL      string
	Selector string
	Items    []string
	Err      error
	Duration time.Duration
}

// Failed reports whether the run ended in a runtime failure.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Diagnostic renders the failure as a single human-readable line, or "" on success.
func (r *Result) Diagnostic() string {
	if r.Err == nil {
		return ""
	}
	var fetchErr *FetchError
	if errors.As(r.Err, &fetchErr) {
		return NetworkErrorPrefix + fetchErr.Error()
	}
	return GenericErrorPrefix + r.Err.Error()
}

// Lines flattens the result for a text-only surface: the extracted items, or a
// single diagnostic entry when the run failed.
func (r *Result) Lines() []string {
	if r.Err != nil {
		return []string{r.Diagnostic()}
	}
	return r.Items
}

// RunMetrics tracks executor activity
type RunMetrics struct {
	TotalRuns      int64
	Succeeded      int64
	NetworkErrors  int64
	OtherErrors    int64
	ItemsExtracted int64
	EmptyResults   int64
	LastDuration   time.Duration
	LastRun        time.Time
}

// Executor runs fetch, parse and extract as one operation.
type Executor struct {
	fetcher *Fetcher
	logger  *zap.Logger

	mu      sync.RWMutex
	metrics RunMetrics
}

// NewExecutor creates an executor backed by fetcher.
func NewExecutor(fetcher *Fetcher, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{fetcher: fetcher, logger: logger}
}

// Run scrapes url and extracts the text of every element matching selector.
// The returned error is non-nil only for empty arguments, in which case no
// request is made; every runtime failure is reported through Result.Err.
func (e *Executor) Run(ctx context.Context, url, selector string) (*Result, error) {
	url = strings.TrimSpace(url)
	selector = strings.TrimSpace(selector)

	var missing []string
	if url == "" {
		missing = append(missing, "url")
	}
	if selector == "" {
		missing = append(missing, "selector")
	}
	if len(missing) > 0 {
		return nil, models.RequiredFieldsError(missing...)
	}

	start := time.Now()
	items, err := e.execute(ctx, url, selector)
	result := &Result{
		URL:      NormalizeURL(url),
		Selector: selector,
		Items:    items,
		Err:      err,
		Duration: time.Since(start),
	}

	e.record(result)
	if result.Failed() {
		e.logger.Warn("scrape failed",
			zap.String("url", result.URL), zap.String("selector", selector),
			zap.Duration("elapsed", result.Duration), zap.Error(err))
	} else {
		e.logger.Info("scrape finished",
			zap.String("url", result.URL), zap.String("selector", selector),
			zap.Int("items", len(items)), zap.Duration("elapsed", result.Duration))
	}
	return result, nil
}

// RunJob runs a saved job definition.
func (e *Executor) RunJob(ctx context.Context, def models.JobDefinition) (*Result, error) {
	return e.Run(ctx, def.URL, def.Selector)
}

// Outcome is delivered by RunAsync.
type Outcome struct {
	Result *Result
	Err    error
}

// RunAsync starts Run in its own goroutine and delivers the outcome on the
// returned channel, which is buffered and closed after one value.
func (e *Executor) RunAsync(ctx context.Context, url, selector string) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		result, err := e.Run(ctx, url, selector)
		out <- Outcome{Result: result, Err: err}
	}()
	return out
}

func (e *Executor) execute(ctx context.Context, url, selector string) (items []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = fmt.Errorf("scrape panicked: %v", r)
		}
	}()

	body, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Extract(body, selector)
}

func (e *Executor) record(result *Result) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.metrics.TotalRuns++
	e.metrics.LastDuration = result.Duration
	e.metrics.LastRun = time.Now()

	var fetchErr *FetchError
	switch {
	case result.Err == nil:
		e.metrics.Succeeded++
		e.metrics.ItemsExtracted += int64(len(result.Items))
		if len(result.Items) == 0 {
			e.metrics.EmptyResults++
		}
	case errors.As(result.Err, &fetchErr):
		e.metrics.NetworkErrors++
	default:
		e.metrics.OtherErrors++
	}
}

// Metrics returns a snapshot of the executor metrics
func (e *Executor) Metrics() RunMetrics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.metrics
}
