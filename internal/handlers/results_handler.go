package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/placement-test-service/internal/services"
	"github.com/SAP-F-2025/placement-test-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResultsHandler struct {
	BaseHandler
	resultsService services.ResultsService
}

func NewResultsHandler(resultsService services.ResultsService, logger utils.Logger) *ResultsHandler {
	return &ResultsHandler{
		BaseHandler:    NewBaseHandler(logger),
		resultsService: resultsService,
	}
}

// Download streams the results log as an attachment
// @Summary Download results
// @Description Returns every stored submission as CSV, or as a workbook with format=xlsx
// @Tags results
// @Produce text/csv
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file
// @Failure 404 {string} string
// @Router /download-results [get]
func (h *ResultsHandler) Download(c *gin.Context) {
	if c.Query("format") == "xlsx" {
		h.downloadWorkbook(c)
		return
	}

	download, err := h.resultsService.Open(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer download.File.Close()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", attachment(download.Filename))
	c.Header("Content-Length", strconv.FormatInt(download.Size, 10))
	c.Status(http.StatusOK)

	// Rows appended after Open are left for the next download. Headers are
	// committed once the first byte is written; a failed copy can only be
	// logged.
	written, err := io.CopyN(c.Writer, download.File, download.Size)
	if err != nil {
		h.LogError(c, err, "Failed to stream results file", "bytes_written", written)
		return
	}
	h.LogRequest(c, "Results file downloaded", "bytes", written, "principal", c.GetString("principal"))
}

func (h *ResultsHandler) downloadWorkbook(c *gin.Context) {
	export, err := h.resultsService.ExportWorkbook(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", attachment(export.Filename))
	c.Data(http.StatusOK, xlsxContentType, export.Data)
	h.LogRequest(c, "Results workbook downloaded", "rows", export.Rows, "skipped_rows", export.Skipped)
}

func (h *ResultsHandler) handleServiceError(c *gin.Context, err error) {
	if services.IsNotFound(err) {
		h.RespondWithText(c, http.StatusNotFound, MsgResultsNotFound, nil)
		return
	}
	h.RespondWithText(c, http.StatusInternalServerError, MsgReadFailed, err)
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
