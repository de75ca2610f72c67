package scraper

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"web-scraper-go/pkg/httpclient"
)

const testUserAgent = "Mozilla/5.0 (test)"

// stubTransport answers every request with a canned page and records what was sent.
type stubTransport struct {
	mu          sync.Mutex
	requests    []*http.Request
	status      int
	body        string
	contentType string
}

func newStubTransport(body string) *stubTransport {
	return &stubTransport{status: http.StatusOK, body: body, contentType: "text/html; charset=utf-8"}
}

func (st *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	st.mu.Lock()
	st.requests = append(st.requests, req)
	st.mu.Unlock()

	return &http.Response{
		StatusCode: st.status,
		Status:     http.StatusText(st.status),
		Header:     http.Header{"Content-Type": []string{st.contentType}},
		Body:       io.NopCloser(strings.NewReader(st.body)),
		Request:    req,
	}, nil
}

func (st *stubTransport) Requests() []*http.Request {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]*http.Request(nil), st.requests...)
}

func newTestClient(transport http.RoundTripper) *httpclient.HttpClient {
	client := httpclient.NewHttpClient(2*time.Second, testUserAgent, nil)
	if transport != nil {
		client.SetTransport(transport)
	}
	return client
}

func newTestExecutor(transport http.RoundTripper) *Executor {
	return NewExecutor(NewFetcher(newTestClient(transport), nil), nil)
}
