package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/placement-test-service/internal/config"
	"github.com/SAP-F-2025/placement-test-service/internal/store"
	"github.com/SAP-F-2025/placement-test-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, overrides map[string]string) *config.Config {
	t.Helper()
	values := map[string]string{
		"PORT":         "0",
		"RESULTS_FILE": filepath.Join(t.TempDir(), "results.csv"),
		"STATIC_DIR":   filepath.Join(t.TempDir(), "missing"),
	}
	for k, v := range overrides {
		values[k] = v
	}
	cfg, err := config.FromEnv(func(key string) string { return values[key] })
	require.NoError(t, err)
	return cfg
}

func TestNewApp_CreatesResultsFile(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t, nil)

	app, err := NewApp(context.Background(), cfg, utils.NewLogger(utils.LoggerOptions{Stdout: &logs}))
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.ResultsFile)
	require.NoError(t, err)
	assert.Equal(t, store.Header+"\n", string(data))
	assert.Contains(t, logs.String(), "Results file created with header")

	_, err = NewApp(context.Background(), cfg, utils.NewLogger(utils.LoggerOptions{Stdout: &logs}))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Results file already exists")

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewApp_SubmitAndDownload(t *testing.T) {
	cfg := testConfig(t, map[string]string{"EVENTS_ENABLED": "true", "EVENTS_PUBLISHER": "mock"})
	app, err := NewApp(context.Background(), cfg, utils.NewLogger(utils.LoggerOptions{Stdout: &bytes.Buffer{}}))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download-results", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := `{"firstName":"A","lastName":"B","score":0,"totalQuestions":91,"timestamp":"t","answers":{}}`
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download-results", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasSuffix(w.Body.String(), "t,A,B,0,91,\"{}\"\n"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestNewApp_UnreachableRedisDisablesDedup(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"DEDUP_ENABLED": "true",
		"REDIS_URL":     "redis://127.0.0.1:1",
	})

	app, err := NewApp(context.Background(), cfg, utils.NewLogger(utils.LoggerOptions{Stdout: &bytes.Buffer{}}))
	require.NoError(t, err)
	assert.Nil(t, app.redis)
}

func submit(t *testing.T, app *App, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func TestNewApp_ResultsFileUnavailableKeepsServing(t *testing.T) {
	var logs bytes.Buffer
	dir := filepath.Join(t.TempDir(), "later")
	cfg := testConfig(t, map[string]string{
		"RESULTS_FILE": filepath.Join(dir, "results.csv"),
	})

	app, err := NewApp(context.Background(), cfg, utils.NewLogger(utils.LoggerOptions{Stdout: &logs}))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Failed to initialize results file")

	body := `{"firstName":"A","lastName":"B","score":0,"totalQuestions":91,"timestamp":"t","answers":{}}`
	assert.Equal(t, http.StatusInternalServerError, submit(t, app, body).Code)

	// Once the directory exists the first append creates the file.
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.Equal(t, http.StatusOK, submit(t, app, body).Code)

	data, err := os.ReadFile(cfg.ResultsFile)
	require.NoError(t, err)
	assert.Equal(t, "t,A,B,0,91,\"{}\"\n", string(data))
}

func TestNewApp_MemoryDedupStore(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"DEDUP_ENABLED": "true",
		"DEDUP_STORE":   "memory",
	})

	app, err := NewApp(context.Background(), cfg, utils.NewLogger(utils.LoggerOptions{Stdout: &bytes.Buffer{}}))
	require.NoError(t, err)
	assert.Nil(t, app.redis)

	body := `{"firstName":"A","lastName":"B","score":1,"totalQuestions":91,"timestamp":"t1","answers":{"q1":"b"}}`
	first := submit(t, app, body)
	require.Equal(t, http.StatusOK, first.Code)
	second := submit(t, app, body)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "Submission already recorded.", second.Body.String())

	data, err := os.ReadFile(cfg.ResultsFile)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t, nil)
	app, err := NewApp(context.Background(), cfg, utils.NewLogger(utils.LoggerOptions{Stdout: &bytes.Buffer{}}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
