package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"web-scraper-go/internal/app"
	"web-scraper-go/internal/config"
	"web-scraper-go/internal/models"
	"web-scraper-go/internal/storage"
)

func TestRunAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<h1>Headline</h1><p class="lead">Lead text</p>`))
	}))
	defer server.Close()

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	ctx := context.Background()
	store, err := storage.OpenFileStore(filepath.Join(t.TempDir(), "configs.json"), nil)
	require.NoError(t, err)
	for _, def := range []models.JobDefinition{
		{Name: "b-lead", URL: server.URL, Selector: "p.lead"},
		{Name: "a-head", URL: server.URL, Selector: "h1"},
		{Name: "c-empty", URL: server.URL, Selector: "table"},
		{Name: "d-dead", URL: deadURL, Selector: "h1"},
	} {
		require.NoError(t, store.Upsert(ctx, def))
	}

	a := app.New(config.DefaultConfig(), nil)
	var out bytes.Buffer
	failed, err := runAll(ctx, store, a.Executor, &out, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	text := out.String()
	assert.Contains(t, text, "=== a-head ("+server.URL+") ===\nHeadline\n")
	assert.Contains(t, text, "=== b-lead ("+server.URL+") ===\nLead text\n")
	assert.Contains(t, text, "=== c-empty ("+server.URL+") ===\nNo elements found with the given selector.\n")
	assert.Contains(t, text, "Network Error: ")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("a-head")), bytes.Index(out.Bytes(), []byte("b-lead")))

	metrics := a.Executor.Metrics()
	assert.Equal(t, int64(4), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.NetworkErrors)
}

func TestRunAllCancelled(t *testing.T) {
	store, err := storage.OpenFileStore(filepath.Join(t.TempDir(), "configs.json"), nil)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), models.JobDefinition{Name: "x", URL: "example.com", Selector: "h1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := app.New(config.DefaultConfig(), nil)
	_, err = runAll(ctx, store, a.Executor, &bytes.Buffer{}, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}
