package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type HttpClient struct {
	client *resty.Client
}

// NewHttpClient returns a client that sends userAgent on every request and
// gives up after timeout. It never retries.
func NewHttpClient(timeout time.Duration, userAgent string, logger *zap.Logger) *HttpClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetLogger(logger.Named("http").Sugar())

	return &HttpClient{client: client}
}

// SetTransport replaces the underlying round tripper.
func (h *HttpClient) SetTransport(transport http.RoundTripper) *HttpClient {
	h.client.SetTransport(transport)
	return h
}

// Timeout reports the per-request timeout.
func (h *HttpClient) Timeout() time.Duration {
	return h.client.GetClient().Timeout
}

func (h *HttpClient) Get(ctx context.Context, url string) (*resty.Response, error) {
	return h.client.R().SetContext(ctx).Get(url)
}
