package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"web-scraper-go/internal/models"
	"web-scraper-go/pkg/httpclient"
)

// FetchKind classifies a fetch failure.
type FetchKind int

const (
	// FetchNetwork covers DNS, connection and timeout failures.
	FetchNetwork FetchKind = iota
	// FetchStatus means the server answered with a non-2xx status.
	FetchStatus
)

func (k FetchKind) String() string {
	switch k {
	case FetchNetwork:
		return "network"
	case FetchStatus:
		return "status"
	default:
		return "unknown"
	}
}

// FetchError is returned by Fetch for transport failures and non-success
// HTTP statuses.
type FetchError struct {
	Kind       FetchKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchStatus {
		return fmt.Sprintf("%d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NormalizeURL prepends https:// when raw has no http or https scheme.
func NormalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// Fetcher retrieves pages as UTF-8 text.
type Fetcher struct {
	client *httpclient.HttpClient
	logger *zap.Logger
}

// NewFetcher creates a fetcher on top of client.
func NewFetcher(client *httpclient.HttpClient, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch issues a single GET for url after normalization and returns the body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", models.RequiredFieldsError("url")
	}
	target := NormalizeURL(url)

	resp, err := f.client.Get(ctx, target)
	if err != nil {
		f.logger.Debug("fetch failed", zap.String("url", target), zap.Error(err))
		return "", &FetchError{Kind: FetchNetwork, URL: target, Err: err}
	}

	if !resp.IsSuccess() {
		f.logger.Debug("fetch returned non-success status",
			zap.String("url", target), zap.Int("status", resp.StatusCode()))
		return "", &FetchError{
			Kind:       FetchStatus,
			URL:        target,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}

	body, err := decodeBody(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	f.logger.Debug("fetched page",
		zap.String("url", target), zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()), zap.Int("bytes", len(body)))
	return body, nil
}

// decodeBody converts the body to UTF-8 using the Content-Type charset or,
// when absent, the document's own meta declaration.
func decodeBody(body []byte, contentType string) (string, error) {
	if len(body) == 0 {
		return "", nil
	}
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", err
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
