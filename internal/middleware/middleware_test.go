package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/placement-test-service/internal/config"
	"github.com/SAP-F-2025/placement-test-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubVerifier struct {
	principal *Principal
	err       error
}

func (s stubVerifier) Verify(string) (*Principal, error) {
	return s.principal, s.err
}

func guardedRouter(verifier TokenVerifier, allowQueryKey bool) *gin.Engine {
	router := gin.New()
	router.GET("/download", RequireDownloadAuth(verifier, allowQueryKey, testLogger()), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestRequireDownloadAuth(t *testing.T) {
	tests := []struct {
		name          string
		verifier      TokenVerifier
		allowQueryKey bool
		target        string
		header        string
		want          int
	}{
		{"open when no verifier", nil, false, "/download", "", http.StatusOK},
		{"missing credentials", NewSharedTokenVerifier("s3cret"), true, "/download", "", http.StatusUnauthorized},
		{"wrong scheme", NewSharedTokenVerifier("s3cret"), true, "/download", "Basic s3cret", http.StatusUnauthorized},
		{"wrong token", NewSharedTokenVerifier("s3cret"), true, "/download", "Bearer nope", http.StatusForbidden},
		{"bearer token", NewSharedTokenVerifier("s3cret"), true, "/download", "Bearer s3cret", http.StatusOK},
		{"query key", NewSharedTokenVerifier("s3cret"), true, "/download?key=s3cret", "", http.StatusOK},
		{"query key disabled", NewSharedTokenVerifier("s3cret"), false, "/download?key=s3cret", "", http.StatusUnauthorized},
		{"non admin", stubVerifier{principal: &Principal{Name: "u"}}, false, "/download", "Bearer jwt", http.StatusForbidden},
		{"invalid jwt", stubVerifier{err: errors.New("bad signature")}, false, "/download", "Bearer jwt", http.StatusForbidden},
		{"admin", stubVerifier{principal: &Principal{Name: "org/admin", Admin: true}}, false, "/download", "Bearer jwt", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			guardedRouter(tt.verifier, tt.allowQueryKey).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestNewDownloadVerifier(t *testing.T) {
	assert.Nil(t, NewDownloadVerifier(config.DownloadConfig{Auth: config.DownloadAuthNone}))
	assert.IsType(t, &sharedTokenVerifier{}, NewDownloadVerifier(config.DownloadConfig{Auth: config.DownloadAuthToken, Token: "x"}))
	assert.IsType(t, &casdoorVerifier{}, NewDownloadVerifier(config.DownloadConfig{Auth: config.DownloadAuthCasdoor}))
}

func TestRateLimiter(t *testing.T) {
	router := gin.New()
	router.POST("/submit", RateLimiter(2, time.Minute), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	router := gin.New()
	router.POST("/submit", RateLimiter(0, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestSecure(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestMetrics(t *testing.T) {
	metrics := NewMetrics()
	router := gin.New()
	router.Use(metrics.Middleware())
	router.GET("/metrics", metrics.Handler())
	router.GET("/ping", func(c *gin.Context) {
		metrics.ObserveSubmission(OutcomeSaved)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{endpoint="/ping",method="GET",status="200"} 1`))
	assert.Contains(t, body, `placement_submissions_total{outcome="saved"} 1`)

	// A second instance registers cleanly.
	assert.NotPanics(t, func() { NewMetrics() })
}
