package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/SAP-F-2025/placement-test-service/internal/middleware"
	"github.com/SAP-F-2025/placement-test-service/internal/services"
	"github.com/SAP-F-2025/placement-test-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const serviceName = "placement-test-service"

// RouterOptions carries the per-route collaborators of the HTTP surface.
type RouterOptions struct {
	Metrics *middleware.Metrics
	// DownloadVerifier guards the results download; nil leaves it open.
	DownloadVerifier middleware.TokenVerifier
	// AllowQueryKey accepts the download credential as ?key=.
	AllowQueryKey   bool
	SubmitRateLimit int
	StaticDir       string
}

type HandlerManager struct {
	submissionHandler *SubmissionHandler
	resultsHandler    *ResultsHandler
	opts              RouterOptions
	logger            utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	opts RouterOptions,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), opts.Metrics, logger),
		resultsHandler:    NewResultsHandler(serviceManager.Results(), logger),
		opts:              opts,
		logger:            logger,
	}
}

// SetupRoutes sets up all routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)
	if hm.opts.Metrics != nil {
		router.GET("/metrics", hm.opts.Metrics.Handler())
	}

	router.POST("/submit",
		middleware.RateLimiter(hm.opts.SubmitRateLimit, time.Minute),
		hm.submissionHandler.Submit)

	router.GET("/download-results",
		middleware.RequireDownloadAuth(hm.opts.DownloadVerifier, hm.opts.AllowQueryKey, hm.logger),
		hm.resultsHandler.Download)

	hm.setupStatic(router)
}

// setupStatic serves the form assets for any unmatched GET when the
// directory exists.
func (hm *HandlerManager) setupStatic(router *gin.Engine) {
	if hm.opts.StaticDir == "" {
		return
	}
	info, err := os.Stat(hm.opts.StaticDir)
	if err != nil || !info.IsDir() {
		hm.logger.Warn("Static directory not found, assets will not be served", "dir", hm.opts.StaticDir)
		return
	}

	files := http.FileServer(http.Dir(hm.opts.StaticDir))
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}
