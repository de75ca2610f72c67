package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"web-scraper-go/internal/app"
	"web-scraper-go/internal/config"
	"web-scraper-go/internal/models"
)

type harness struct {
	cfg *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "configs.json")
	cfg.Store.SupabaseKey = "service-role-secret-key"
	return &harness{cfg: cfg}
}

// execute runs the CLI once with a fresh App, like a separate process invocation.
func (h *harness) execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func(app.Options) (*app.App, error) {
		return app.New(h.cfg, nil), nil
	})

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestJobsLifecycle(t *testing.T) {
	h := newHarness(t)

	out, err := h.execute(t, "", "jobs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved jobs.")

	out, err = h.execute(t, "", "jobs", "save", "--name", " news ", "--url", "example.com", "--selector", "h1")
	require.NoError(t, err)
	assert.Contains(t, out, "Job 'news' saved successfully.")

	_, err = h.execute(t, "", "jobs", "save", "--name", "alpha", "--url", "example.org", "--selector", "p.lead")
	require.NoError(t, err)

	out, err = h.execute(t, "", "-o", "json", "jobs", "list")
	require.NoError(t, err)
	var jobs []models.JobDefinition
	require.NoError(t, json.Unmarshal([]byte(out), &jobs))
	assert.Equal(t, []models.JobDefinition{
		{Name: "alpha", URL: "example.org", Selector: "p.lead"},
		{Name: "news", URL: "example.com", Selector: "h1"},
	}, jobs)

	out, err = h.execute(t, "", "jobs", "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "news"))

	out, err = h.execute(t, "", "jobs", "show", "news")
	require.NoError(t, err)
	assert.Contains(t, out, "Selector: h1")

	out, err = h.execute(t, "n\n", "jobs", "delete", "news")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete cancelled.")

	out, err = h.execute(t, "y\n", "jobs", "delete", "news")
	require.NoError(t, err)
	assert.Contains(t, out, "Job 'news' deleted.")

	_, err = h.execute(t, "", "jobs", "delete", "--yes", "news")
	assert.Error(t, err)
}

func TestJobsSaveRequiresAllFields(t *testing.T) {
	h := newHarness(t)

	_, err := h.execute(t, "", "jobs", "save", "--name", "news", "--url", "example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRunCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<ul><li>one</li><li> two </li></ul>`))
	}))
	defer server.Close()

	h := newHarness(t)

	t.Run("free typed", func(t *testing.T) {
		out, err := h.execute(t, "", "run", "--url", server.URL, "--selector", "li")
		require.NoError(t, err)
		assert.Equal(t, "one\ntwo\n", out)
	})

	t.Run("no matches", func(t *testing.T) {
		out, err := h.execute(t, "", "run", "--url", server.URL, "--selector", "table")
		require.NoError(t, err)
		assert.Equal(t, noMatchesMessage+"\n", out)
	})

	t.Run("saved job with override", func(t *testing.T) {
		_, err := h.execute(t, "", "jobs", "save", "--name", "list", "--url", server.URL, "--selector", "ul")
		require.NoError(t, err)

		out, err := h.execute(t, "", "run", "--job", "list")
		require.NoError(t, err)
		assert.Equal(t, "one two\n", out)

		out, err = h.execute(t, "", "-o", "json", "run", "--job", "list", "--selector", "li")
		require.NoError(t, err)
		var result runOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, []string{"one", "two"}, result.Items)
		assert.Empty(t, result.Error)
	})

	t.Run("missing selector", func(t *testing.T) {
		_, err := h.execute(t, "", "run", "--url", server.URL)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("unreachable host", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		url := dead.URL
		dead.Close()

		out, err := h.execute(t, "", "run", "--url", url, "--selector", "li")
		assert.ErrorIs(t, err, errScrapeFailed)
		assert.True(t, strings.HasPrefix(out, "Network Error: "), out)

		out, err = h.execute(t, "", "-o", "json", "run", "--url", url, "--selector", "li")
		assert.ErrorIs(t, err, errScrapeFailed)
		assert.Contains(t, out, `"items": []`)

		var result runOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
		assert.True(t, strings.HasPrefix(result.Error, "Network Error: "), result.Error)
	})
}

func TestConfigCommandMasksSecrets(t *testing.T) {
	h := newHarness(t)

	out, err := h.execute(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Supabase Key: serv***-key")
	assert.NotContains(t, out, "service-role-secret-key")
	assert.Equal(t, "service-role-secret-key", h.cfg.Store.SupabaseKey)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "scraper.json")
	loads := 0
	execute := func(args ...string) (string, error) {
		cmd := newRootCmd(func(app.Options) (*app.App, error) {
			loads++
			return nil, errors.New("config must not be loaded")
		})
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"--config", path}, args...))
		err := cmd.Execute()
		return out.String(), err
	}

	out, err := execute("config", "init")
	require.NoError(t, err)
	assert.Equal(t, "Configuration written to "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var written config.Config
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, *config.DefaultConfig(), written)

	_, err = execute("config", "init")
	assert.ErrorIs(t, err, config.ErrConfigExists)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	out, err = execute("-o", "json", "config", "init", "--force")
	require.NoError(t, err)
	assert.JSONEq(t, `{"path": "`+path+`"}`, out)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Zero(t, loads)
}

func TestJSONOutput(t *testing.T) {
	h := newHarness(t)

	_, err := h.execute(t, "", "jobs", "save", "--name", "news", "--url", "example.com", "--selector", "h1")
	require.NoError(t, err)

	out, err := h.execute(t, "", "--output", "json", "jobs", "show", "news")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "news", "url": "example.com", "selector": "h1"}`, out)

	out, err = h.execute(t, "", "-o", "json", "config")
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "serv***-key", cfg.Store.SupabaseKey)
}

func TestUnknownOutputFormat(t *testing.T) {
	h := newHarness(t)
	_, err := h.execute(t, "", "-o", "xml", "jobs", "list")
	assert.Error(t, err)
}
